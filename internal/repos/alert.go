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

type AlertRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error)
	CreateMany(ctx context.Context, tx *gorm.DB, alerts []*types.Alert) error
	GetByID(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) (*types.Alert, error)
	ListByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.Alert, error)
	ListUnacknowledged(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Alert, error)
	CountUnacknowledged(ctx context.Context, tx *gorm.DB) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, alert *types.Alert) error
	FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	repoLog := baseLog.With("repo", "AlertRepo")
	return &alertRepo{db: db, log: repoLog}
}

func (r *alertRepo) Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *alertRepo) CreateMany(ctx context.Context, tx *gorm.DB, alerts []*types.Alert) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(alerts) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Create(&alerts).Error
}

func (r *alertRepo) GetByID(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var alert types.Alert
	if err := transaction.WithContext(ctx).
		Where("id = ?", alertID).
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) ListByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Alert
	if err := transaction.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *alertRepo) ListUnacknowledged(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("acknowledged_at IS NULL").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var results []*types.Alert
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *alertRepo) CountUnacknowledged(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("acknowledged_at IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *alertRepo) Update(ctx context.Context, tx *gorm.DB, alert *types.Alert) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(alert).Error
}

func (r *alertRepo) FullDeleteByBatchID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&types.Alert{}).Error
}
