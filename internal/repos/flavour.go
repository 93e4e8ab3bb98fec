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

type FlavourRepo interface {
	Create(ctx context.Context, tx *gorm.DB, flavour *types.Flavour) (*types.Flavour, error)
	GetByID(ctx context.Context, tx *gorm.DB, flavourID uuid.UUID) (*types.Flavour, error)
	GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID, activeOnly bool) ([]*types.Flavour, error)
	Update(ctx context.Context, tx *gorm.DB, flavour *types.Flavour) error
	Archive(ctx context.Context, tx *gorm.DB, flavourID uuid.UUID) error
}

type flavourRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlavourRepo(db *gorm.DB, baseLog *logger.Logger) FlavourRepo {
	repoLog := baseLog.With("repo", "FlavourRepo")
	return &flavourRepo{db: db, log: repoLog}
}

func (r *flavourRepo) Create(ctx context.Context, tx *gorm.DB, flavour *types.Flavour) (*types.Flavour, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(flavour).Error; err != nil {
		return nil, err
	}
	return flavour, nil
}

func (r *flavourRepo) GetByID(ctx context.Context, tx *gorm.DB, flavourID uuid.UUID) (*types.Flavour, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var flavour types.Flavour
	if err := transaction.WithContext(ctx).
		Where("id = ?", flavourID).
		First(&flavour).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &flavour, nil
}

func (r *flavourRepo) GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID, activeOnly bool) ([]*types.Flavour, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var results []*types.Flavour
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flavourRepo) Update(ctx context.Context, tx *gorm.DB, flavour *types.Flavour) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(flavour).Error
}

func (r *flavourRepo) Archive(ctx context.Context, tx *gorm.DB, flavourID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Flavour{}).
		Where("id = ?", flavourID).
		Update("active", false).Error
}
