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

type SupplierRepo interface {
	Create(ctx context.Context, tx *gorm.DB, supplier *types.Supplier) (*types.Supplier, error)
	GetByID(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) (*types.Supplier, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Supplier, error)
	Update(ctx context.Context, tx *gorm.DB, supplier *types.Supplier) error
	Archive(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) error
}

type supplierRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplierRepo(db *gorm.DB, baseLog *logger.Logger) SupplierRepo {
	repoLog := baseLog.With("repo", "SupplierRepo")
	return &supplierRepo{db: db, log: repoLog}
}

func (r *supplierRepo) Create(ctx context.Context, tx *gorm.DB, supplier *types.Supplier) (*types.Supplier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepo) GetByID(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) (*types.Supplier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var supplier types.Supplier
	if err := transaction.WithContext(ctx).
		Where("id = ?", supplierID).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Supplier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var results []*types.Supplier
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplierRepo) Update(ctx context.Context, tx *gorm.DB, supplier *types.Supplier) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(supplier).Error
}

func (r *supplierRepo) Archive(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Supplier{}).
		Where("id = ?", supplierID).
		Update("active", false).Error
}
