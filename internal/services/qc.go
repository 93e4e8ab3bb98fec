package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// GateFieldValue pairs a snapshot field with its captured value for gate
// evaluation.
type GateFieldValue struct {
	Field types.SnapshotField
	Value string
}

// GateFailure names one reason a gate check did not pass.
type GateFailure struct {
	FieldName string
	Reason    string
}

// EvaluateGate applies the mechanical gate rules to a stage's captured
// values: a BOOLEAN reading of "false" fails, and a NUMBER reading with both
// bounds set fails when it parses strictly outside [min, max]. All failures
// are returned, not just the first. The result is advisory; the human
// approver's submitted verdict is the system of record.
func EvaluateGate(values []GateFieldValue) []GateFailure {
	failures := []GateFailure{}
	for _, fv := range values {
		switch fv.Field.FieldType {
		case types.FieldTypeBoolean:
			if strings.TrimSpace(strings.ToLower(fv.Value)) == "false" {
				failures = append(failures, GateFailure{
					FieldName: fv.Field.Name,
					Reason:    fmt.Sprintf("%s check failed", fv.Field.LabelEn),
				})
			}
		case types.FieldTypeNumber:
			if fv.Field.MinValue == nil || fv.Field.MaxValue == nil {
				continue
			}
			v, ok := ParseNumber(fv.Value)
			if !ok {
				continue
			}
			if v < *fv.Field.MinValue || v > *fv.Field.MaxValue {
				failures = append(failures, GateFailure{
					FieldName: fv.Field.Name,
					Reason: fmt.Sprintf("%s value %s outside [%s, %s]",
						fv.Field.LabelEn,
						strings.TrimSpace(fv.Value),
						formatBound(fv.Field.MinValue),
						formatBound(fv.Field.MaxValue),
					),
				})
			}
		}
	}
	return failures
}

type QCSubmission struct {
	Result        string
	TastePass     *bool
	TasteNote     string
	TexturePass   *bool
	TextureNote   string
	SmellPass     *bool
	SmellNote     string
	VisualPass    *bool
	VisualNote    string
	WaterActivity *float64
	PH            *float64
	Disposition   string
	Notes         string
}

type QCService interface {
	Evaluate(ctx context.Context, recordID uuid.UUID) ([]GateFailure, error)
	SubmitApproval(ctx context.Context, recordID uuid.UUID, approverID uuid.UUID, sub QCSubmission) (*types.QCApproval, error)
	GetApproval(ctx context.Context, recordID uuid.UUID) (*types.QCApproval, error)
}

type qcService struct {
	db              *gorm.DB
	log             *logger.Logger
	auditService    AuditService
	userRepo        repos.UserRepo
	batchRepo       repos.BatchRepo
	stageRecordRepo repos.StageRecordRepo
	measurementRepo repos.MeasurementRepo
	qcApprovalRepo  repos.QCApprovalRepo
	alertRepo       repos.AlertRepo
}

func NewQCService(
	db *gorm.DB,
	baseLog *logger.Logger,
	auditService AuditService,
	userRepo repos.UserRepo,
	batchRepo repos.BatchRepo,
	stageRecordRepo repos.StageRecordRepo,
	measurementRepo repos.MeasurementRepo,
	qcApprovalRepo repos.QCApprovalRepo,
	alertRepo repos.AlertRepo,
) QCService {
	serviceLog := baseLog.With("service", "QCService")
	return &qcService{
		db:              db,
		log:             serviceLog,
		auditService:    auditService,
		userRepo:        userRepo,
		batchRepo:       batchRepo,
		stageRecordRepo: stageRecordRepo,
		measurementRepo: measurementRepo,
		qcApprovalRepo:  qcApprovalRepo,
		alertRepo:       alertRepo,
	}
}

// Evaluate runs the advisory gate check over a record's current measurements
// against the frozen snapshot.
func (s *qcService) Evaluate(ctx context.Context, recordID uuid.UUID) ([]GateFailure, error) {
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

	measurements, err := s.measurementRepo.GetByStageRecordID(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}

	values := make([]GateFieldValue, 0, len(measurements))
	for _, m := range measurements {
		field := stage.Field(m.FieldID)
		if field == nil {
			continue
		}
		values = append(values, GateFieldValue{Field: *field, Value: m.Value})
	}
	return EvaluateGate(values), nil
}

func (s *qcService) SubmitApproval(ctx context.Context, recordID uuid.UUID, approverID uuid.UUID, sub QCSubmission) (*types.QCApproval, error) {
	if sub.Result != types.QCResultApproved && sub.Result != types.QCResultRejected {
		return nil, apperrors.NewValidationError().Add("result", "result must be APPROVED or REJECTED")
	}
	if sub.Result == types.QCResultRejected && sub.Disposition == "" {
		return nil, apperrors.NewValidationError().Add("disposition", "disposition is required on rejection")
	}

	record, err := s.stageRecordRepo.GetByID(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}
	exists, err := s.qcApprovalRepo.ExistsForStageRecord(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: QC approval already submitted for this stage", apperrors.ErrConflict)
	}
	approver, err := s.userRepo.GetByID(ctx, nil, approverID)
	if err != nil {
		return nil, err
	}

	approval := &types.QCApproval{
		ID:            uuid.New(),
		BatchID:       record.BatchID,
		StageRecordID: record.ID,
		ApproverID:    approverID,
		Result:        sub.Result,
		TastePass:     sub.TastePass,
		TasteNote:     sub.TasteNote,
		TexturePass:   sub.TexturePass,
		TextureNote:   sub.TextureNote,
		SmellPass:     sub.SmellPass,
		SmellNote:     sub.SmellNote,
		VisualPass:    sub.VisualPass,
		VisualNote:    sub.VisualNote,
		WaterActivity: sub.WaterActivity,
		PH:            sub.PH,
		Disposition:   sub.Disposition,
		Notes:         sub.Notes,
	}

	newStatus := types.BatchQcApproved
	if sub.Result == types.QCResultRejected {
		newStatus = types.BatchQcRejected
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.qcApprovalRepo.Create(ctx, tx, approval); err != nil {
			return err
		}
		if err := s.batchRepo.UpdateStatus(ctx, tx, record.BatchID, newStatus); err != nil {
			return err
		}
		if sub.Result == types.QCResultRejected {
			srID := record.ID
			alert := &types.Alert{
				ID:            uuid.New(),
				BatchID:       record.BatchID,
				StageRecordID: &srID,
				Type:          types.AlertGateFail,
				Severity:      types.SeverityCritical,
				Message:       fmt.Sprintf("QC gate failed. Disposition: %s. Approver: %s", sub.Disposition, approver.Name),
			}
			if _, err := s.alertRepo.Create(ctx, tx, alert); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &approverID, "QC_APPROVAL", "StageRecord", record.ID.String(), nil, map[string]any{
		"batchId":     record.BatchID,
		"result":      sub.Result,
		"disposition": sub.Disposition,
	})
	s.log.Info("QC approval submitted",
		"stage_record_id", record.ID,
		"batch_id", record.BatchID,
		"result", sub.Result,
	)
	return approval, nil
}

func (s *qcService) GetApproval(ctx context.Context, recordID uuid.UUID) (*types.QCApproval, error) {
	return s.qcApprovalRepo.GetByStageRecordID(ctx, nil, recordID)
}
