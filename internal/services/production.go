package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type FlavourTotal struct {
	FlavourID   uuid.UUID `json:"flavour_id"`
	FlavourName string    `json:"flavour_name"`
	TotalPacks  int       `json:"total_packs"`
}

type ProductionSummary struct {
	Totals     []FlavourTotal `json:"totals"`
	GrandTotal int            `json:"grand_total"`
	// Approximate is set when totals come from the pack-field name
	// heuristic instead of recorded flavour splits.
	Approximate bool `json:"approximate"`
}

type SplitInput struct {
	FlavourID uuid.UUID
	PackCount int
	Notes     string
}

type ProductionService interface {
	SaveSplits(ctx context.Context, batchID uuid.UUID, userID uuid.UUID, splits []SplitInput) ([]*types.BatchFlavourSplit, error)
	ListSplits(ctx context.Context, batchID uuid.UUID) ([]*types.BatchFlavourSplit, error)
	Totals(ctx context.Context, productID uuid.UUID, from, to time.Time) (*ProductionSummary, error)
}

type productionService struct {
	db               *gorm.DB
	log              *logger.Logger
	auditService     AuditService
	productRepo      repos.ProductRepo
	flavourRepo      repos.FlavourRepo
	batchRepo        repos.BatchRepo
	stageRecordRepo  repos.StageRecordRepo
	flavourSplitRepo repos.FlavourSplitRepo
}

func NewProductionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	auditService AuditService,
	productRepo repos.ProductRepo,
	flavourRepo repos.FlavourRepo,
	batchRepo repos.BatchRepo,
	stageRecordRepo repos.StageRecordRepo,
	flavourSplitRepo repos.FlavourSplitRepo,
) ProductionService {
	serviceLog := baseLog.With("service", "ProductionService")
	return &productionService{
		db:               db,
		log:              serviceLog,
		auditService:     auditService,
		productRepo:      productRepo,
		flavourRepo:      flavourRepo,
		batchRepo:        batchRepo,
		stageRecordRepo:  stageRecordRepo,
		flavourSplitRepo: flavourSplitRepo,
	}
}

func (s *productionService) SaveSplits(ctx context.Context, batchID uuid.UUID, userID uuid.UUID, splits []SplitInput) ([]*types.BatchFlavourSplit, error) {
	batch, err := s.batchRepo.GetByID(ctx, nil, batchID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, nil, batch.ProductID)
	if err != nil {
		return nil, err
	}
	if product.FlavourRequired {
		return nil, apperrors.NewValidationError().Add("batchId", "flavour splits only apply to flavour-deferred products")
	}

	validation := apperrors.NewValidationError()
	rows := make([]*types.BatchFlavourSplit, 0, len(splits))
	for _, in := range splits {
		if in.PackCount <= 0 {
			validation.Add("packCount", "pack count must be positive")
			continue
		}
		flavour, err := s.flavourRepo.GetByID(ctx, nil, in.FlavourID)
		if err != nil {
			return nil, err
		}
		if flavour.ProductID != product.ID {
			validation.Add("flavourId", "flavour does not belong to this product")
			continue
		}
		rows = append(rows, &types.BatchFlavourSplit{
			ID:        uuid.New(),
			BatchID:   batchID,
			FlavourID: in.FlavourID,
			PackCount: in.PackCount,
			Notes:     in.Notes,
		})
	}
	if validation.HasErrors() {
		return nil, validation
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.flavourSplitRepo.ReplaceForBatch(ctx, tx, batchID, rows)
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, "SAVE_SPLITS", "Batch", batchID.String(), nil, map[string]any{
		"splits": len(rows),
	})
	return rows, nil
}

func (s *productionService) ListSplits(ctx context.Context, batchID uuid.UUID) ([]*types.BatchFlavourSplit, error) {
	return s.flavourSplitRepo.ListByBatchID(ctx, nil, batchID)
}

// Totals aggregates per-flavour production output for a reporting window.
// Flavour-deferred products read recorded splits; other products fall back
// to summing pack-like measurement fields per batch flavour, which is a
// documented approximation.
func (s *productionService) Totals(ctx context.Context, productID uuid.UUID, from, to time.Time) (*ProductionSummary, error) {
	product, err := s.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}

	if !product.FlavourRequired {
		splits, err := s.flavourSplitRepo.ListForProductBetween(ctx, nil, productID, from, to)
		if err != nil {
			return nil, err
		}
		totals, grand := AggregateSplits(splits)
		return &ProductionSummary{Totals: totals, GrandTotal: grand}, nil
	}

	return s.heuristicTotals(ctx, productID, from, to)
}

func (s *productionService) heuristicTotals(ctx context.Context, productID uuid.UUID, from, to time.Time) (*ProductionSummary, error) {
	batches, err := s.batchRepo.ListForProductBetween(ctx, nil, productID, from, to)
	if err != nil {
		return nil, err
	}

	byFlavour := map[uuid.UUID]int{}
	names := map[uuid.UUID]string{}
	grand := 0

	for _, batch := range batches {
		if batch.FlavourID == nil {
			continue
		}
		snapshot, err := decodeSnapshot(batch)
		if err != nil {
			return nil, err
		}
		packFields := map[uuid.UUID]bool{}
		for _, stage := range snapshot {
			for _, f := range stage.Fields {
				if IsPackLikeField(f.Name) {
					packFields[f.FieldID] = true
				}
			}
		}
		if len(packFields) == 0 {
			continue
		}

		records, err := s.stageRecordRepo.GetByBatchID(ctx, nil, batch.ID)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			for _, m := range record.Measurements {
				if !packFields[m.FieldID] {
					continue
				}
				v, ok := ParseNumber(m.Value)
				if !ok {
					continue
				}
				byFlavour[*batch.FlavourID] += int(v)
				grand += int(v)
			}
		}
	}

	for flavourID := range byFlavour {
		flavour, err := s.flavourRepo.GetByID(ctx, nil, flavourID)
		if err == nil {
			names[flavourID] = flavour.Name
		}
	}

	totals := make([]FlavourTotal, 0, len(byFlavour))
	for flavourID, total := range byFlavour {
		totals = append(totals, FlavourTotal{
			FlavourID:   flavourID,
			FlavourName: names[flavourID],
			TotalPacks:  total,
		})
	}
	sortTotals(totals)
	return &ProductionSummary{Totals: totals, GrandTotal: grand, Approximate: true}, nil
}

// AggregateSplits sums pack counts per flavour, sorted descending by total.
func AggregateSplits(splits []*types.BatchFlavourSplit) ([]FlavourTotal, int) {
	byFlavour := map[uuid.UUID]*FlavourTotal{}
	order := []uuid.UUID{}
	grand := 0

	for _, split := range splits {
		grand += split.PackCount
		if t, ok := byFlavour[split.FlavourID]; ok {
			t.TotalPacks += split.PackCount
			continue
		}
		name := ""
		if split.Flavour != nil {
			name = split.Flavour.Name
		}
		byFlavour[split.FlavourID] = &FlavourTotal{
			FlavourID:   split.FlavourID,
			FlavourName: name,
			TotalPacks:  split.PackCount,
		}
		order = append(order, split.FlavourID)
	}

	totals := make([]FlavourTotal, 0, len(order))
	for _, id := range order {
		totals = append(totals, *byFlavour[id])
	}
	sortTotals(totals)
	return totals, grand
}

func sortTotals(totals []FlavourTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalPacks > totals[j].TotalPacks
	})
}

// IsPackLikeField is the loose name match behind the non-deferred fallback.
func IsPackLikeField(name string) bool {
	return strings.Contains(strings.ToLower(name), "pack")
}
