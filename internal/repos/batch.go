package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type BatchListFilter struct {
	ProductID *uuid.UUID
	Status    *types.BatchStatus
	Limit     int
	Offset    int
}

type BatchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, batch *types.Batch) (*types.Batch, error)
	GetByID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) (*types.Batch, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Batch, error)
	List(ctx context.Context, tx *gorm.DB, filter BatchListFilter) ([]*types.Batch, error)
	CountByCodePrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status types.BatchStatus) (int64, error)
	CountCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	ListForProductBetween(ctx context.Context, tx *gorm.DB, productID uuid.UUID, from, to time.Time) ([]*types.Batch, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, status types.BatchStatus) error
	UpdateNotes(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, notes string) error
	FullDelete(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error
}

type batchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	repoLog := baseLog.With("repo", "BatchRepo")
	return &batchRepo{db: db, log: repoLog}
}

func (r *batchRepo) Create(ctx context.Context, tx *gorm.DB, batch *types.Batch) (*types.Batch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *batchRepo) GetByID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) (*types.Batch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var batch types.Batch
	if err := transaction.WithContext(ctx).
		Preload("Product").
		Preload("Flavour").
		Preload("Supplier").
		Preload("CreatedBy").
		Preload("StageRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("StageRecords.Measurements").
		Where("id = ?", batchID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Batch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var batch types.Batch
	if err := transaction.WithContext(ctx).
		Where("batch_code = ?", code).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) List(ctx context.Context, tx *gorm.DB, filter BatchListFilter) ([]*types.Batch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Preload("Product").
		Preload("Flavour").
		Order("created_at DESC")
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var results []*types.Batch
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *batchRepo) CountByCodePrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Batch{}).
		Where("batch_code LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *batchRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status types.BatchStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Batch{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *batchRepo) CountCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Batch{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *batchRepo) ListForProductBetween(ctx context.Context, tx *gorm.DB, productID uuid.UUID, from, to time.Time) ([]*types.Batch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Batch
	if err := transaction.WithContext(ctx).
		Where("product_id = ? AND created_at >= ? AND created_at < ?", productID, from, to).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *batchRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, status types.BatchStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Batch{}).
		Where("id = ?", batchID).
		Update("status", status).Error
}

func (r *batchRepo) UpdateNotes(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, notes string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Batch{}).
		Where("id = ?", batchID).
		Update("notes", notes).Error
}

func (r *batchRepo) FullDelete(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", batchID).
		Delete(&types.Batch{}).Error
}
