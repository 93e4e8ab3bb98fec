package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type QCApprovalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, approval *types.QCApproval) (*types.QCApproval, error)
	GetByStageRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.QCApproval, error)
	ExistsForStageRecord(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (bool, error)
	ListByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.QCApproval, error)
	FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error
}

type qcApprovalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQCApprovalRepo(db *gorm.DB, baseLog *logger.Logger) QCApprovalRepo {
	repoLog := baseLog.With("repo", "QCApprovalRepo")
	return &qcApprovalRepo{db: db, log: repoLog}
}

func (r *qcApprovalRepo) Create(ctx context.Context, tx *gorm.DB, approval *types.QCApproval) (*types.QCApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(approval).Error; err != nil {
		return nil, err
	}
	return approval, nil
}

func (r *qcApprovalRepo) GetByStageRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.QCApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var approval types.QCApproval
	if err := transaction.WithContext(ctx).
		Preload("Approver").
		Where("stage_record_id = ?", recordID).
		First(&approval).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &approval, nil
}

func (r *qcApprovalRepo) ExistsForStageRecord(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QCApproval{}).
		Where("stage_record_id = ?", recordID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *qcApprovalRepo) ListByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.QCApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QCApproval
	if err := transaction.WithContext(ctx).
		Preload("Approver").
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *qcApprovalRepo) FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&types.QCApproval{}).Error
}
