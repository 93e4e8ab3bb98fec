package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// SnapshotService freezes a product's live flow into the immutable execution
// plan a batch carries. Once embedded in a batch the snapshot is never
// touched again, whatever happens to the catalog.
type SnapshotService interface {
	BuildFlowSnapshot(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (types.FlowSnapshot, error)
}

type snapshotService struct {
	db        *gorm.DB
	log       *logger.Logger
	stageRepo repos.ProcessStageRepo
}

func NewSnapshotService(db *gorm.DB, baseLog *logger.Logger, stageRepo repos.ProcessStageRepo) SnapshotService {
	serviceLog := baseLog.With("service", "SnapshotService")
	return &snapshotService{db: db, log: serviceLog, stageRepo: stageRepo}
}

func (s *snapshotService) BuildFlowSnapshot(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (types.FlowSnapshot, error) {
	stages, err := s.stageRepo.GetActiveByProductID(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, &apperrors.ConfigurationError{
			Key:    "product:" + productID.String(),
			Reason: "product has no active process stages",
		}
	}

	snapshot := make(types.FlowSnapshot, 0, len(stages))
	for _, stage := range stages {
		fields := make([]types.SnapshotField, 0, len(stage.Fields))
		for _, f := range stage.Fields {
			fields = append(fields, types.SnapshotField{
				FieldID:   f.ID,
				Name:      f.Name,
				LabelEn:   f.LabelEn,
				LabelHi:   f.LabelHi,
				FieldType: f.FieldType,
				Unit:      f.Unit,
				MinValue:  copyFloat(f.MinValue),
				MaxValue:  copyFloat(f.MaxValue),
				Required:  f.Required,
				Options:   f.Options,
			})
		}
		snapshot = append(snapshot, types.SnapshotStage{
			StageID:  stage.ID,
			Name:     stage.Name,
			Order:    stage.Order,
			IsQcGate: stage.IsQcGate,
			Version:  stage.Version,
			Fields:   fields,
		})
	}
	return snapshot, nil
}

// copyFloat keeps the snapshot free of pointers into catalog rows.
func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
