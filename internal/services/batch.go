package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// batchCodeRetries bounds the unique-constraint retry loop for concurrent
// creations sharing the same (date, product) code prefix.
const batchCodeRetries = 3

type CreateBatchInput struct {
	ProductID      uuid.UUID
	FlavourID      *uuid.UUID
	SupplierID     *uuid.UUID
	RawMaterialLot string
	Notes          string
	CreatedByID    uuid.UUID
}

type BatchService interface {
	Create(ctx context.Context, input CreateBatchInput) (*types.Batch, error)
	GetByID(ctx context.Context, batchID uuid.UUID) (*types.Batch, error)
	List(ctx context.Context, filter repos.BatchListFilter) ([]*types.Batch, error)
	Snapshot(batch *types.Batch) (types.FlowSnapshot, error)
	Transition(ctx context.Context, batchID uuid.UUID, to types.BatchStatus, userID uuid.UUID) (*types.Batch, error)
	UpdateNotes(ctx context.Context, batchID uuid.UUID, notes string, userID uuid.UUID) error
	Delete(ctx context.Context, batchID uuid.UUID, userID uuid.UUID) error
}

type batchService struct {
	db               *gorm.DB
	log              *logger.Logger
	snapshotService  SnapshotService
	auditService     AuditService
	productRepo      repos.ProductRepo
	flavourRepo      repos.FlavourRepo
	supplierRepo     repos.SupplierRepo
	batchRepo        repos.BatchRepo
	stageRecordRepo  repos.StageRecordRepo
	measurementRepo  repos.MeasurementRepo
	qcApprovalRepo   repos.QCApprovalRepo
	alertRepo        repos.AlertRepo
	flavourSplitRepo repos.FlavourSplitRepo
}

func NewBatchService(
	db *gorm.DB,
	baseLog *logger.Logger,
	snapshotService SnapshotService,
	auditService AuditService,
	productRepo repos.ProductRepo,
	flavourRepo repos.FlavourRepo,
	supplierRepo repos.SupplierRepo,
	batchRepo repos.BatchRepo,
	stageRecordRepo repos.StageRecordRepo,
	measurementRepo repos.MeasurementRepo,
	qcApprovalRepo repos.QCApprovalRepo,
	alertRepo repos.AlertRepo,
	flavourSplitRepo repos.FlavourSplitRepo,
) BatchService {
	serviceLog := baseLog.With("service", "BatchService")
	return &batchService{
		db:               db,
		log:              serviceLog,
		snapshotService:  snapshotService,
		auditService:     auditService,
		productRepo:      productRepo,
		flavourRepo:      flavourRepo,
		supplierRepo:     supplierRepo,
		batchRepo:        batchRepo,
		stageRecordRepo:  stageRecordRepo,
		measurementRepo:  measurementRepo,
		qcApprovalRepo:   qcApprovalRepo,
		alertRepo:        alertRepo,
		flavourSplitRepo: flavourSplitRepo,
	}
}

func (s *batchService) Create(ctx context.Context, input CreateBatchInput) (*types.Batch, error) {
	product, err := s.productRepo.GetByID(ctx, nil, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if !product.Active {
		return nil, apperrors.NewValidationError().Add("productId", "product is archived")
	}

	if product.FlavourRequired && input.FlavourID == nil {
		return nil, apperrors.NewValidationError().Add("flavourId", "flavour is required for this product")
	}
	if input.FlavourID != nil {
		flavour, err := s.flavourRepo.GetByID(ctx, nil, *input.FlavourID)
		if err != nil {
			return nil, fmt.Errorf("load flavour: %w", err)
		}
		if flavour.ProductID != product.ID {
			return nil, apperrors.NewValidationError().Add("flavourId", "flavour does not belong to this product")
		}
	}
	if input.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, nil, *input.SupplierID); err != nil {
			return nil, fmt.Errorf("load supplier: %w", err)
		}
	}

	// Fail fast: no partial batch for a product with no active flow.
	snapshot, err := s.snapshotService.BuildFlowSnapshot(ctx, nil, product.ID)
	if err != nil {
		return nil, err
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	// Count-then-format is racy for two creates on the same (date, product).
	// The unique index on batch_code is the real arbiter; on a duplicate we
	// recount and try again.
	var batch *types.Batch
	prefix := BatchCodePrefix(time.Now(), product.Code)
	for attempt := 0; attempt < batchCodeRetries; attempt++ {
		batch = nil
		txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			count, err := s.batchRepo.CountByCodePrefix(ctx, tx, prefix)
			if err != nil {
				return err
			}
			candidate := &types.Batch{
				ID:             uuid.New(),
				BatchCode:      FormatBatchCode(prefix, count+1),
				ProductID:      product.ID,
				FlavourID:      input.FlavourID,
				SupplierID:     input.SupplierID,
				RawMaterialLot: input.RawMaterialLot,
				Status:         types.BatchCreated,
				FlowSnapshot:   snapshotJSON,
				Notes:          input.Notes,
				CreatedByID:    input.CreatedByID,
			}
			if _, err := s.batchRepo.Create(ctx, tx, candidate); err != nil {
				return err
			}

			records := make([]*types.StageRecord, 0, len(snapshot))
			for _, stage := range snapshot {
				records = append(records, &types.StageRecord{
					ID:        uuid.New(),
					BatchID:   candidate.ID,
					StageID:   stage.StageID,
					OCRStatus: types.OCRPending,
				})
			}
			if _, err := s.stageRecordRepo.CreateMany(ctx, tx, records); err != nil {
				return err
			}

			batch = candidate
			return nil
		})
		if txErr == nil {
			break
		}
		if isUniqueViolation(txErr) && attempt < batchCodeRetries-1 {
			s.log.Warn("Batch code collision, retrying",
				"prefix", prefix,
				"attempt", attempt+1,
			)
			continue
		}
		return nil, txErr
	}
	if batch == nil {
		return nil, fmt.Errorf("batch create failed after %d attempts", batchCodeRetries)
	}

	s.auditService.Record(ctx, &input.CreatedByID, "CREATE", "Batch", batch.ID.String(), nil, map[string]any{
		"batchCode": batch.BatchCode,
		"productId": batch.ProductID,
		"status":    batch.Status,
	})
	s.log.Info("Batch created", "batch_id", batch.ID, "batch_code", batch.BatchCode)
	return batch, nil
}

func (s *batchService) GetByID(ctx context.Context, batchID uuid.UUID) (*types.Batch, error) {
	return s.batchRepo.GetByID(ctx, nil, batchID)
}

func (s *batchService) List(ctx context.Context, filter repos.BatchListFilter) ([]*types.Batch, error) {
	return s.batchRepo.List(ctx, nil, filter)
}

// Snapshot decodes the frozen flow embedded in the batch row.
func (s *batchService) Snapshot(batch *types.Batch) (types.FlowSnapshot, error) {
	var snapshot types.FlowSnapshot
	if err := json.Unmarshal(batch.FlowSnapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("decode flow snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *batchService) Transition(ctx context.Context, batchID uuid.UUID, to types.BatchStatus, userID uuid.UUID) (*types.Batch, error) {
	if !to.Valid() {
		return nil, apperrors.NewValidationError().Add("status", "unknown status")
	}

	batch, err := s.batchRepo.GetByID(ctx, nil, batchID)
	if err != nil {
		return nil, err
	}
	from := batch.Status
	if !types.CanUserTransition(from, to) {
		return nil, fmt.Errorf("%w: cannot move batch from %s to %s", apperrors.ErrConflict, from, to)
	}

	if err := s.batchRepo.UpdateStatus(ctx, nil, batchID, to); err != nil {
		return nil, err
	}
	batch.Status = to

	s.auditService.Record(ctx, &userID, "STATUS_CHANGE", "Batch", batchID.String(),
		map[string]any{"status": from},
		map[string]any{"status": to},
	)
	s.log.Info("Batch status changed", "batch_id", batchID, "from", from, "to", to)
	return batch, nil
}

func (s *batchService) UpdateNotes(ctx context.Context, batchID uuid.UUID, notes string, userID uuid.UUID) error {
	batch, err := s.batchRepo.GetByID(ctx, nil, batchID)
	if err != nil {
		return err
	}
	if err := s.batchRepo.UpdateNotes(ctx, nil, batchID, notes); err != nil {
		return err
	}
	s.auditService.Record(ctx, &userID, "UPDATE", "Batch", batchID.String(),
		map[string]any{"notes": batch.Notes},
		map[string]any{"notes": notes},
	)
	return nil
}

// Delete removes the batch and every dependent row, children first, in one
// transaction. Traceability survives in the audit trail, not the rows.
func (s *batchService) Delete(ctx context.Context, batchID uuid.UUID, userID uuid.UUID) error {
	batch, err := s.batchRepo.GetByID(ctx, nil, batchID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.measurementRepo.FullDeleteByBatchID(ctx, tx, batchID); err != nil {
			return err
		}
		if err := s.qcApprovalRepo.FullDeleteByBatchID(ctx, tx, batchID); err != nil {
			return err
		}
		if err := s.stageRecordRepo.FullDeleteByBatchID(ctx, tx, batchID); err != nil {
			return err
		}
		if err := s.alertRepo.FullDeleteByBatchID(ctx, tx, batchID); err != nil {
			return err
		}
		if err := s.flavourSplitRepo.FullDeleteByBatchID(ctx, tx, batchID); err != nil {
			return err
		}
		return s.batchRepo.FullDelete(ctx, tx, batchID)
	})
	if err != nil {
		return err
	}

	s.auditService.Record(ctx, &userID, "DELETE", "Batch", batchID.String(),
		map[string]any{"batchCode": batch.BatchCode, "status": batch.Status},
		nil,
	)
	s.log.Info("Batch deleted", "batch_id", batchID, "batch_code", batch.BatchCode)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
