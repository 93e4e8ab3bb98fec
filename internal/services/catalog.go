package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// CatalogService manages the editable process-definition side: suppliers,
// products, flavours, stages and their fields. Edits here never touch
// batches already created; those carry their own frozen snapshot.
type CatalogService interface {
	CreateSupplier(ctx context.Context, userID uuid.UUID, supplier *types.Supplier) (*types.Supplier, error)
	ListSuppliers(ctx context.Context, activeOnly bool) ([]*types.Supplier, error)
	UpdateSupplier(ctx context.Context, userID uuid.UUID, supplier *types.Supplier) (*types.Supplier, error)
	ArchiveSupplier(ctx context.Context, userID uuid.UUID, supplierID uuid.UUID) error

	CreateProduct(ctx context.Context, userID uuid.UUID, product *types.Product) (*types.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*types.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	UpdateProduct(ctx context.Context, userID uuid.UUID, product *types.Product) (*types.Product, error)
	ArchiveProduct(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error

	CreateFlavour(ctx context.Context, userID uuid.UUID, flavour *types.Flavour) (*types.Flavour, error)
	ListFlavours(ctx context.Context, productID uuid.UUID, activeOnly bool) ([]*types.Flavour, error)
	ArchiveFlavour(ctx context.Context, userID uuid.UUID, flavourID uuid.UUID) error

	GetFlow(ctx context.Context, productID uuid.UUID) ([]*types.ProcessStage, error)
	CreateStage(ctx context.Context, userID uuid.UUID, stage *types.ProcessStage) (*types.ProcessStage, error)
	UpdateStage(ctx context.Context, userID uuid.UUID, stage *types.ProcessStage) (*types.ProcessStage, error)
	ArchiveStage(ctx context.Context, userID uuid.UUID, stageID uuid.UUID) error
	ReorderStages(ctx context.Context, userID uuid.UUID, productID uuid.UUID, orderedIDs []uuid.UUID) error

	CreateField(ctx context.Context, userID uuid.UUID, field *types.StageField) (*types.StageField, error)
	UpdateField(ctx context.Context, userID uuid.UUID, field *types.StageField) (*types.StageField, error)
	ArchiveField(ctx context.Context, userID uuid.UUID, fieldID uuid.UUID) error
	ReorderFields(ctx context.Context, userID uuid.UUID, stageID uuid.UUID, orderedIDs []uuid.UUID) error
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	auditService AuditService
	supplierRepo repos.SupplierRepo
	productRepo  repos.ProductRepo
	flavourRepo  repos.FlavourRepo
	stageRepo    repos.ProcessStageRepo
	fieldRepo    repos.StageFieldRepo
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	auditService AuditService,
	supplierRepo repos.SupplierRepo,
	productRepo repos.ProductRepo,
	flavourRepo repos.FlavourRepo,
	stageRepo repos.ProcessStageRepo,
	fieldRepo repos.StageFieldRepo,
) CatalogService {
	serviceLog := baseLog.With("service", "CatalogService")
	return &catalogService{
		db:           db,
		log:          serviceLog,
		auditService: auditService,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		flavourRepo:  flavourRepo,
		stageRepo:    stageRepo,
		fieldRepo:    fieldRepo,
	}
}

func (s *catalogService) CreateSupplier(ctx context.Context, userID uuid.UUID, supplier *types.Supplier) (*types.Supplier, error) {
	if strings.TrimSpace(supplier.Name) == "" {
		return nil, apperrors.NewValidationError().Add("name", "name is required")
	}
	supplier.ID = uuid.New()
	supplier.Active = true
	created, err := s.supplierRepo.Create(ctx, nil, supplier)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, &userID, "CREATE", "Supplier", created.ID.String(), nil, created)
	return created, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context, activeOnly bool) ([]*types.Supplier, error) {
	return s.supplierRepo.List(ctx, nil, activeOnly)
}

func (s *catalogService) UpdateSupplier(ctx context.Context, userID uuid.UUID, supplier *types.Supplier) (*types.Supplier, error) {
	existing, err := s.supplierRepo.GetByID(ctx, nil, supplier.ID)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Update(ctx, nil, supplier); err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, &userID, "UPDATE", "Supplier", supplier.ID.String(), existing, supplier)
	return supplier, nil
}

func (s *catalogService) ArchiveSupplier(ctx context.Context, userID uuid.UUID, supplierID uuid.UUID) error {
	if err := s.supplierRepo.Archive(ctx, nil, supplierID); err != nil {
		return err
	}
	s.auditService.Record(ctx, &userID, "ARCHIVE", "Supplier", supplierID.String(), nil, nil)
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, userID uuid.UUID, product *types.Product) (*types.Product, error) {
	validation := apperrors.NewValidationError()
	if strings.TrimSpace(product.Name) == "" {
		validation.Add("name", "name is required")
	}
	if strings.TrimSpace(product.Code) == "" {
		validation.Add("code", "code is required")
	}
	if validation.HasErrors() {
		return nil, validation
	}

	product.Code = strings.ToUpper(strings.TrimSpace(product.Code))
	if _, err := s.productRepo.GetByCode(ctx, nil, product.Code); err == nil {
		return nil, fmt.Errorf("%w: product code %s already in use", apperrors.ErrConflict, product.Code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	product.ID = uuid.New()
	product.Active = true
	created, err := s.productRepo.Create(ctx, nil, product)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, &userID, "CREATE", "Product", created.ID.String(), nil, created)
	return created, nil
}

func (s *catalogService) ListProducts(ctx context.Context, activeOnly bool) ([]*types.Product, error) {
	return s.productRepo.List(ctx, nil, activeOnly)
}

func (s *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	return s.productRepo.GetByID(ctx, nil, productID)
}

func (s *catalogService) UpdateProduct(ctx context.Context, userID uuid.UUID, product *types.Product) (*types.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, nil, product.ID)
	if err != nil {
		return nil, err
	}
	// Product codes are load-bearing inside batch codes; keep them stable.
	product.Code = existing.Code
	if err := s.productRepo.Update(ctx, nil, product); err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, &userID, "UPDATE", "Product", product.ID.String(), existing, product)
	return product, nil
}

func (s *catalogService) ArchiveProduct(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	if err := s.productRepo.Archive(ctx, nil, productID); err != nil {
		return err
	}
	s.auditService.Record(ctx, &userID, "ARCHIVE", "Product", productID.String(), nil, nil)
	return nil
}

func (s *catalogService) CreateFlavour(ctx context.Context, userID uuid.UUID, flavour *types.Flavour) (*types.Flavour, error) {
	validation := apperrors.NewValidationError()
	if strings.TrimSpace(flavour.Name) == "" {
		validation.Add("name", "name is required")
	}
	if strings.TrimSpace(flavour.Code) == "" {
		validation.Add("code", "code is required")
	}
	if validation.HasErrors() {
		return nil, validation
	}
	if _, err := s.productRepo.GetByID(ctx, nil, flavour.ProductID); err != nil {
		return nil, err
	}

	flavour.ID = uuid.New()
	flavour.Code = strings.ToUpper(strings.TrimSpace(flavour.Code))
	flavour.Active = true
	created, err := s.flavourRepo.Create(ctx, nil, flavour)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, &userID, "CREATE", "Flavour", created.ID.String(), nil, created)
	return created, nil
}

func (s *catalogService) ListFlavours(ctx context.Context, productID uuid.UUID, activeOnly bool) ([]*types.Flavour, error) {
	return s.flavourRepo.GetByProductID(ctx, nil, productID, activeOnly)
}

func (s *catalogService) ArchiveFlavour(ctx context.Context, userID uuid.UUID, flavourID uuid.UUID) error {
	if err := s.flavourRepo.Archive(ctx, nil, flavourID); err != nil {
		return err
	}
	s.auditService.Record(ctx, &userID, "ARCHIVE", "Flavour", flavourID.String(), nil, nil)
	return nil
}

func (s *catalogService) GetFlow(ctx context.Context, productID uuid.UUID) ([]*types.ProcessStage, error) {
	return s.stageRepo.GetByProductID(ctx, nil, productID)
}

func (s *catalogService) CreateStage(ctx context.Context, userID uuid.UUID, stage *types.ProcessStage) (*types.ProcessStage, error) {
	if strings.TrimSpace(stage.Name) == "" {
		return nil, apperrors.NewValidationError().Add("name", "name is required")
	}
	if _, err := s.productRepo.GetByID(ctx, nil, stage.ProductID); err != nil {
		return nil, err
	}

	stage.ID = uuid.New()
	stage.Version = 1
	stage.Active = true
	created, err := s.stageRepo.Create(ctx, nil, stage)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, &userID, "CREATE", "ProcessStage", created.ID.String(), nil, created)
	return created, nil
}

// UpdateStage saves the edit and bumps the stage version; snapshots taken
// before the edit keep the old shape.
func (s *catalogService) UpdateStage(ctx context.Context, userID uuid.UUID, stage *types.ProcessStage) (*types.ProcessStage, error) {
	existing, err := s.stageRepo.GetByID(ctx, nil, stage.ID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.stageRepo.Update(ctx, tx, stage); err != nil {
			return err
		}
		return s.stageRepo.IncrementVersion(ctx, tx, stage.ID)
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, "UPDATE", "ProcessStage", stage.ID.String(), existing, stage)
	return s.stageRepo.GetByID(ctx, nil, stage.ID)
}

func (s *catalogService) ArchiveStage(ctx context.Context, userID uuid.UUID, stageID uuid.UUID) error {
	if err := s.stageRepo.Archive(ctx, nil, stageID); err != nil {
		return err
	}
	s.auditService.Record(ctx, &userID, "ARCHIVE", "ProcessStage", stageID.String(), nil, nil)
	return nil
}

// ReorderStages rewrites the stage order of a product's flow. Every stage of
// the product must appear exactly once in orderedIDs. Each moved stage gets a
// version bump so later snapshots record the reshuffle.
func (s *catalogService) ReorderStages(ctx context.Context, userID uuid.UUID, productID uuid.UUID, orderedIDs []uuid.UUID) error {
	stages, err := s.stageRepo.GetByProductID(ctx, nil, productID)
	if err != nil {
		return err
	}
	current := make(map[uuid.UUID]int, len(stages))
	for _, st := range stages {
		current[st.ID] = st.Order
	}
	if err := checkReorderSet(current, orderedIDs, "stageIds"); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			order := i + 1
			if current[id] == order {
				continue
			}
			if err := s.stageRepo.UpdateOrder(ctx, tx, id, order); err != nil {
				return err
			}
			if err := s.stageRepo.IncrementVersion(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.auditService.Record(ctx, &userID, "REORDER_STAGES", "Product", productID.String(), nil, map[string]any{
		"stageIds": orderedIDs,
	})
	return nil
}

func (s *catalogService) CreateField(ctx context.Context, userID uuid.UUID, field *types.StageField) (*types.StageField, error) {
	if err := validateField(field); err != nil {
		return nil, err
	}
	if _, err := s.stageRepo.GetByID(ctx, nil, field.StageID); err != nil {
		return nil, err
	}

	field.ID = uuid.New()
	field.Active = true
	var created *types.StageField
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.fieldRepo.Create(ctx, tx, field)
		if err != nil {
			return err
		}
		return s.stageRepo.IncrementVersion(ctx, tx, field.StageID)
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, "CREATE", "StageField", created.ID.String(), nil, created)
	return created, nil
}

func (s *catalogService) UpdateField(ctx context.Context, userID uuid.UUID, field *types.StageField) (*types.StageField, error) {
	if err := validateField(field); err != nil {
		return nil, err
	}
	existing, err := s.fieldRepo.GetByID(ctx, nil, field.ID)
	if err != nil {
		return nil, err
	}
	field.StageID = existing.StageID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.fieldRepo.Update(ctx, tx, field); err != nil {
			return err
		}
		return s.stageRepo.IncrementVersion(ctx, tx, field.StageID)
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, "UPDATE", "StageField", field.ID.String(), existing, field)
	return field, nil
}

func (s *catalogService) ArchiveField(ctx context.Context, userID uuid.UUID, fieldID uuid.UUID) error {
	field, err := s.fieldRepo.GetByID(ctx, nil, fieldID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.fieldRepo.Archive(ctx, tx, fieldID); err != nil {
			return err
		}
		return s.stageRepo.IncrementVersion(ctx, tx, field.StageID)
	})
	if err != nil {
		return err
	}

	s.auditService.Record(ctx, &userID, "ARCHIVE", "StageField", fieldID.String(), nil, nil)
	return nil
}

// ReorderFields rewrites the field order within one stage and bumps the stage
// version once.
func (s *catalogService) ReorderFields(ctx context.Context, userID uuid.UUID, stageID uuid.UUID, orderedIDs []uuid.UUID) error {
	fields, err := s.fieldRepo.GetByStageID(ctx, nil, stageID, false)
	if err != nil {
		return err
	}
	current := make(map[uuid.UUID]int, len(fields))
	for _, f := range fields {
		current[f.ID] = f.Order
	}
	if err := checkReorderSet(current, orderedIDs, "fieldIds"); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if current[id] == i+1 {
				continue
			}
			if err := s.fieldRepo.UpdateOrder(ctx, tx, id, i+1); err != nil {
				return err
			}
		}
		return s.stageRepo.IncrementVersion(ctx, tx, stageID)
	})
	if err != nil {
		return err
	}

	s.auditService.Record(ctx, &userID, "REORDER_FIELDS", "ProcessStage", stageID.String(), nil, map[string]any{
		"fieldIds": orderedIDs,
	})
	return nil
}

func checkReorderSet(current map[uuid.UUID]int, orderedIDs []uuid.UUID, key string) error {
	if len(orderedIDs) != len(current) {
		return apperrors.NewValidationError().
			Add(key, fmt.Sprintf("expected %d ids, got %d", len(current), len(orderedIDs)))
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := current[id]; !ok {
			return apperrors.NewValidationError().Add(key, "unknown id "+id.String())
		}
		if seen[id] {
			return apperrors.NewValidationError().Add(key, "duplicate id "+id.String())
		}
		seen[id] = true
	}
	return nil
}

func validateField(field *types.StageField) error {
	validation := apperrors.NewValidationError()
	if strings.TrimSpace(field.Name) == "" {
		validation.Add("name", "name is required")
	}
	if !types.ValidFieldType(field.FieldType) {
		validation.Add("fieldType", "unknown field type")
	}
	if field.FieldType == types.FieldTypeNumber &&
		field.MinValue != nil && field.MaxValue != nil && *field.MinValue > *field.MaxValue {
		validation.Add("minValue", "min must not exceed max")
	}
	if field.FieldType == types.FieldTypeSelect && strings.TrimSpace(field.Options) == "" {
		validation.Add("options", "SELECT fields need at least one option")
	}
	if validation.HasErrors() {
		return validation
	}
	return nil
}
