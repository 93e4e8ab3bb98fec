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

type ProcessStageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stage *types.ProcessStage) (*types.ProcessStage, error)
	GetByID(ctx context.Context, tx *gorm.DB, stageID uuid.UUID) (*types.ProcessStage, error)
	GetActiveByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProcessStage, error)
	GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProcessStage, error)
	Update(ctx context.Context, tx *gorm.DB, stage *types.ProcessStage) error
	UpdateOrder(ctx context.Context, tx *gorm.DB, stageID uuid.UUID, order int) error
	IncrementVersion(ctx context.Context, tx *gorm.DB, stageID uuid.UUID) error
	Archive(ctx context.Context, tx *gorm.DB, stageID uuid.UUID) error
}

type processStageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessStageRepo(db *gorm.DB, baseLog *logger.Logger) ProcessStageRepo {
	repoLog := baseLog.With("repo", "ProcessStageRepo")
	return &processStageRepo{db: db, log: repoLog}
}

func (r *processStageRepo) Create(ctx context.Context, tx *gorm.DB, stage *types.ProcessStage) (*types.ProcessStage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(stage).Error; err != nil {
		return nil, err
	}
	return stage, nil
}

func (r *processStageRepo) GetByID(ctx context.Context, tx *gorm.DB, stageID uuid.UUID) (*types.ProcessStage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var stage types.ProcessStage
	if err := transaction.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("field_order ASC")
		}).
		Where("id = ?", stageID).
		First(&stage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &stage, nil
}

// GetActiveByProductID loads the live flow used to build snapshots: active
// stages ordered by stage_order, each with its active fields ordered by
// field_order.
func (r *processStageRepo) GetActiveByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProcessStage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProcessStage
	if err := transaction.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("field_order ASC")
		}).
		Where("product_id = ? AND active = ?", productID, true).
		Order("stage_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *processStageRepo) GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProcessStage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProcessStage
	if err := transaction.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("field_order ASC")
		}).
		Where("product_id = ?", productID).
		Order("stage_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *processStageRepo) Update(ctx context.Context, tx *gorm.DB, stage *types.ProcessStage) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(stage).Error
}

func (r *processStageRepo) UpdateOrder(ctx context.Context, tx *gorm.DB, stageID uuid.UUID, order int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ProcessStage{}).
		Where("id = ?", stageID).
		Update("stage_order", order).Error
}

func (r *processStageRepo) IncrementVersion(ctx context.Context, tx *gorm.DB, stageID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ProcessStage{}).
		Where("id = ?", stageID).
		Update("version", gorm.Expr("version + 1")).Error
}

func (r *processStageRepo) Archive(ctx context.Context, tx *gorm.DB, stageID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ProcessStage{}).
		Where("id = ?", stageID).
		Update("active", false).Error
}
