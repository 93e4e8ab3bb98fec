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

type StageFieldRepo interface {
	Create(ctx context.Context, tx *gorm.DB, field *types.StageField) (*types.StageField, error)
	GetByID(ctx context.Context, tx *gorm.DB, fieldID uuid.UUID) (*types.StageField, error)
	GetByStageID(ctx context.Context, tx *gorm.DB, stageID uuid.UUID, activeOnly bool) ([]*types.StageField, error)
	Update(ctx context.Context, tx *gorm.DB, field *types.StageField) error
	UpdateOrder(ctx context.Context, tx *gorm.DB, fieldID uuid.UUID, order int) error
	Archive(ctx context.Context, tx *gorm.DB, fieldID uuid.UUID) error
}

type stageFieldRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStageFieldRepo(db *gorm.DB, baseLog *logger.Logger) StageFieldRepo {
	repoLog := baseLog.With("repo", "StageFieldRepo")
	return &stageFieldRepo{db: db, log: repoLog}
}

func (r *stageFieldRepo) Create(ctx context.Context, tx *gorm.DB, field *types.StageField) (*types.StageField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(field).Error; err != nil {
		return nil, err
	}
	return field, nil
}

func (r *stageFieldRepo) GetByID(ctx context.Context, tx *gorm.DB, fieldID uuid.UUID) (*types.StageField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var field types.StageField
	if err := transaction.WithContext(ctx).
		Where("id = ?", fieldID).
		First(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &field, nil
}

func (r *stageFieldRepo) GetByStageID(ctx context.Context, tx *gorm.DB, stageID uuid.UUID, activeOnly bool) ([]*types.StageField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("stage_id = ?", stageID).
		Order("field_order ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var results []*types.StageField
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stageFieldRepo) Update(ctx context.Context, tx *gorm.DB, field *types.StageField) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(field).Error
}

func (r *stageFieldRepo) UpdateOrder(ctx context.Context, tx *gorm.DB, fieldID uuid.UUID, order int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.StageField{}).
		Where("id = ?", fieldID).
		Update("field_order", order).Error
}

func (r *stageFieldRepo) Archive(ctx context.Context, tx *gorm.DB, fieldID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.StageField{}).
		Where("id = ?", fieldID).
		Update("active", false).Error
}
