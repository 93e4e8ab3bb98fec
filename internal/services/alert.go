package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// AlertService exposes the read/acknowledge side of alerting. Alerts are
// produced inside the commit and QC transactions, never here.
type AlertService interface {
	ListUnacknowledged(ctx context.Context, limit int) ([]*types.Alert, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*types.Alert, error)
	Acknowledge(ctx context.Context, alertID uuid.UUID, userID uuid.UUID, note string) (*types.Alert, error)
}

type alertService struct {
	db           *gorm.DB
	log          *logger.Logger
	auditService AuditService
	alertRepo    repos.AlertRepo
}

func NewAlertService(db *gorm.DB, baseLog *logger.Logger, auditService AuditService, alertRepo repos.AlertRepo) AlertService {
	serviceLog := baseLog.With("service", "AlertService")
	return &alertService{db: db, log: serviceLog, auditService: auditService, alertRepo: alertRepo}
}

func (s *alertService) ListUnacknowledged(ctx context.Context, limit int) ([]*types.Alert, error) {
	return s.alertRepo.ListUnacknowledged(ctx, nil, limit)
}

func (s *alertService) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*types.Alert, error) {
	return s.alertRepo.ListByBatchID(ctx, nil, batchID)
}

func (s *alertService) Acknowledge(ctx context.Context, alertID uuid.UUID, userID uuid.UUID, note string) (*types.Alert, error) {
	alert, err := s.alertRepo.GetByID(ctx, nil, alertID)
	if err != nil {
		return nil, err
	}
	if alert.AcknowledgedAt != nil {
		return nil, fmt.Errorf("%w: alert already acknowledged", apperrors.ErrConflict)
	}

	now := time.Now()
	alert.AcknowledgedByID = &userID
	alert.AcknowledgedAt = &now
	alert.AcknowledgedNote = note
	if err := s.alertRepo.Update(ctx, nil, alert); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, "ACKNOWLEDGE", "Alert", alertID.String(), nil, map[string]any{
		"note": note,
	})
	return alert, nil
}
