package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// MeasurementEntry is one field's finalized value as submitted by the person
// closing out a stage.
type MeasurementEntry struct {
	FieldID       uuid.UUID
	Value         string
	OCRRawValue   *string
	IsCorrected   bool
	CorrectedFrom *string
}

// MeasurementService finalizes a stage's captured data: upserts measurements,
// stamps the record committed, raises range alerts off the frozen snapshot,
// and parks the batch at the QC gate when the stage is one.
type MeasurementService interface {
	CommitStage(ctx context.Context, recordID uuid.UUID, userID uuid.UUID, entries []MeasurementEntry) (*types.StageRecord, error)
}

type measurementService struct {
	db              *gorm.DB
	log             *logger.Logger
	auditService    AuditService
	batchRepo       repos.BatchRepo
	stageRecordRepo repos.StageRecordRepo
	measurementRepo repos.MeasurementRepo
	alertRepo       repos.AlertRepo
}

func NewMeasurementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	auditService AuditService,
	batchRepo repos.BatchRepo,
	stageRecordRepo repos.StageRecordRepo,
	measurementRepo repos.MeasurementRepo,
	alertRepo repos.AlertRepo,
) MeasurementService {
	serviceLog := baseLog.With("service", "MeasurementService")
	return &measurementService{
		db:              db,
		log:             serviceLog,
		auditService:    auditService,
		batchRepo:       batchRepo,
		stageRecordRepo: stageRecordRepo,
		measurementRepo: measurementRepo,
		alertRepo:       alertRepo,
	}
}

func (s *measurementService) CommitStage(ctx context.Context, recordID uuid.UUID, userID uuid.UUID, entries []MeasurementEntry) (*types.StageRecord, error) {
	record, err := s.stageRecordRepo.GetByID(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}
	batch, err := s.batchRepo.GetByID(ctx, nil, record.BatchID)
	if err != nil {
		return nil, err
	}
	snapshot, err := decodeSnapshot(batch)
	if err != nil {
		return nil, err
	}
	stage := snapshot.Stage(record.StageID)
	if stage == nil {
		return nil, &apperrors.ConfigurationError{
			Key:    "stage:" + record.StageID.String(),
			Reason: "stage not present in batch flow snapshot",
		}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			m := &types.Measurement{
				ID:            uuid.New(),
				StageRecordID: record.ID,
				FieldID:       entry.FieldID,
				Value:         entry.Value,
				OCRRawValue:   entry.OCRRawValue,
				IsCorrected:   entry.IsCorrected,
				CorrectedFrom: entry.CorrectedFrom,
				RecordedByID:  &userID,
			}
			if err := s.measurementRepo.Upsert(ctx, tx, m); err != nil {
				return err
			}
		}

		record.CommittedAt = &now
		record.CommittedByID = &userID
		record.CompletedAt = &now
		if err := s.stageRecordRepo.Update(ctx, tx, record); err != nil {
			return err
		}

		// Range checks always consult the frozen snapshot, never the live
		// field catalog.
		alerts := []*types.Alert{}
		for _, entry := range entries {
			field := stage.Field(entry.FieldID)
			if field == nil {
				continue
			}
			msg := OutOfRangeMessage(*field, entry.Value)
			if msg == "" {
				continue
			}
			recordID := record.ID
			alerts = append(alerts, &types.Alert{
				ID:            uuid.New(),
				BatchID:       batch.ID,
				StageRecordID: &recordID,
				Type:          types.AlertOutOfRange,
				Severity:      types.SeverityWarning,
				Message:       msg,
			})
		}
		if err := s.alertRepo.CreateMany(ctx, tx, alerts); err != nil {
			return err
		}

		if stage.IsQcGate {
			if err := s.batchRepo.UpdateStatus(ctx, tx, batch.ID, types.BatchQcPending); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, "COMMIT_STAGE", "StageRecord", record.ID.String(), nil, map[string]any{
		"batchId":      batch.ID,
		"stageId":      record.StageID,
		"measurements": len(entries),
	})
	s.log.Info("Stage committed",
		"stage_record_id", record.ID,
		"batch_id", batch.ID,
		"is_qc_gate", stage.IsQcGate,
	)
	return record, nil
}

func decodeSnapshot(batch *types.Batch) (types.FlowSnapshot, error) {
	var snapshot types.FlowSnapshot
	if err := json.Unmarshal(batch.FlowSnapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("decode flow snapshot: %w", err)
	}
	return snapshot, nil
}
