package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// AuditService appends trail entries after the primary transaction commits.
// A failed audit write is logged and swallowed; it never rolls back or fails
// the action it describes.
type AuditService interface {
	Record(ctx context.Context, userID *uuid.UUID, action, entityType, entityID string, oldValue, newValue any)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*types.AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]*types.AuditLog, error)
}

type auditService struct {
	db           *gorm.DB
	log          *logger.Logger
	auditLogRepo repos.AuditLogRepo
}

func NewAuditService(db *gorm.DB, baseLog *logger.Logger, auditLogRepo repos.AuditLogRepo) AuditService {
	serviceLog := baseLog.With("service", "AuditService")
	return &auditService{db: db, log: serviceLog, auditLogRepo: auditLogRepo}
}

func (s *auditService) Record(ctx context.Context, userID *uuid.UUID, action, entityType, entityID string, oldValue, newValue any) {
	entry := &types.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValue:   marshalAuditValue(oldValue),
		NewValue:   marshalAuditValue(newValue),
	}
	if err := s.auditLogRepo.Create(ctx, nil, entry); err != nil {
		s.log.Error("Audit log write failed",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}

func (s *auditService) ListByEntity(ctx context.Context, entityType, entityID string) ([]*types.AuditLog, error) {
	return s.auditLogRepo.ListByEntity(ctx, nil, entityType, entityID)
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]*types.AuditLog, error) {
	return s.auditLogRepo.ListRecent(ctx, nil, limit)
}

func marshalAuditValue(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
