package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type FlavourSplitRepo interface {
	ReplaceForBatch(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, splits []*types.BatchFlavourSplit) error
	ListByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.BatchFlavourSplit, error)
	ListForProductBetween(ctx context.Context, tx *gorm.DB, productID uuid.UUID, from, to time.Time) ([]*types.BatchFlavourSplit, error)
	FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error
}

type flavourSplitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlavourSplitRepo(db *gorm.DB, baseLog *logger.Logger) FlavourSplitRepo {
	repoLog := baseLog.With("repo", "FlavourSplitRepo")
	return &flavourSplitRepo{db: db, log: repoLog}
}

// ReplaceForBatch swaps a batch's full split set in one shot. Splits are
// entered as a whole form, so partial edits are modeled as full rewrites.
func (r *flavourSplitRepo) ReplaceForBatch(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, splits []*types.BatchFlavourSplit) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&types.BatchFlavourSplit{}).Error; err != nil {
		return err
	}
	if len(splits) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&splits).Error
}

func (r *flavourSplitRepo) ListByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.BatchFlavourSplit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BatchFlavourSplit
	if err := transaction.WithContext(ctx).
		Preload("Flavour").
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flavourSplitRepo) ListForProductBetween(ctx context.Context, tx *gorm.DB, productID uuid.UUID, from, to time.Time) ([]*types.BatchFlavourSplit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BatchFlavourSplit
	if err := transaction.WithContext(ctx).
		Preload("Flavour").
		Joins("JOIN batch ON batch.id = batch_flavour_split.batch_id").
		Where("batch.product_id = ? AND batch.created_at >= ? AND batch.created_at < ?", productID, from, to).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flavourSplitRepo) FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&types.BatchFlavourSplit{}).Error
}
