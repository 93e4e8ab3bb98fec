package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type StageRecordRepo interface {
	CreateMany(ctx context.Context, tx *gorm.DB, records []*types.StageRecord) ([]*types.StageRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.StageRecord, error)
	GetByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.StageRecord, error)
	CountByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, record *types.StageRecord) error
	UpdateOCRStatus(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, status string) error
	FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error
}

type stageRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStageRecordRepo(db *gorm.DB, baseLog *logger.Logger) StageRecordRepo {
	repoLog := baseLog.With("repo", "StageRecordRepo")
	return &stageRecordRepo{db: db, log: repoLog}
}

func (r *stageRecordRepo) CreateMany(ctx context.Context, tx *gorm.DB, records []*types.StageRecord) ([]*types.StageRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.StageRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *stageRecordRepo) GetByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.StageRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record types.StageRecord
	if err := transaction.WithContext(ctx).
		Preload("Measurements").
		Where("id = ?", recordID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *stageRecordRepo) GetByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.StageRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StageRecord
	if err := transaction.WithContext(ctx).
		Preload("Measurements").
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stageRecordRepo) CountByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StageRecord{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update writes the record row only. Preloaded associations stay untouched;
// saving them here would re-insert stale Measurements loaded before a
// delete-and-replace cycle.
func (r *stageRecordRepo) Update(ctx context.Context, tx *gorm.DB, record *types.StageRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

func (r *stageRecordRepo) UpdateOCRStatus(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.StageRecord{}).
		Where("id = ?", recordID).
		Update("ocr_status", status).Error
}

func (r *stageRecordRepo) FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&types.StageRecord{}).Error
}
