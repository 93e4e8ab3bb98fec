package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/logger"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type DashboardSummary struct {
	BatchesByStatus      map[types.BatchStatus]int64 `json:"batches_by_status"`
	BatchesToday         int64                       `json:"batches_today"`
	BatchesThisWeek      int64                       `json:"batches_this_week"`
	UnacknowledgedAlerts int64                       `json:"unacknowledged_alerts"`
	RecentAlerts         []*types.Alert              `json:"recent_alerts"`
	RecentBatches        []*types.Batch              `json:"recent_batches"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	db        *gorm.DB
	log       *logger.Logger
	batchRepo repos.BatchRepo
	alertRepo repos.AlertRepo
}

func NewDashboardService(db *gorm.DB, baseLog *logger.Logger, batchRepo repos.BatchRepo, alertRepo repos.AlertRepo) DashboardService {
	serviceLog := baseLog.With("service", "DashboardService")
	return &dashboardService{db: db, log: serviceLog, batchRepo: batchRepo, alertRepo: alertRepo}
}

var dashboardStatuses = []types.BatchStatus{
	types.BatchCreated,
	types.BatchInProgress,
	types.BatchQcPending,
	types.BatchQcApproved,
	types.BatchQcRejected,
	types.BatchPackaged,
	types.BatchShipped,
	types.BatchRecalled,
}

// Summary fans the independent dashboard reads out concurrently.
func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		BatchesByStatus: make(map[types.BatchStatus]int64, len(dashboardStatuses)),
	}
	statusCounts := make([]int64, len(dashboardStatuses))
	now := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	for i, status := range dashboardStatuses {
		g.Go(func() error {
			count, err := s.batchRepo.CountByStatus(gctx, nil, status)
			if err != nil {
				return err
			}
			statusCounts[i] = count
			return nil
		})
	}
	g.Go(func() error {
		count, err := s.batchRepo.CountCreatedSince(gctx, nil, now.Add(-24*time.Hour))
		if err != nil {
			return err
		}
		summary.BatchesToday = count
		return nil
	})
	g.Go(func() error {
		count, err := s.batchRepo.CountCreatedSince(gctx, nil, now.Add(-7*24*time.Hour))
		if err != nil {
			return err
		}
		summary.BatchesThisWeek = count
		return nil
	})
	g.Go(func() error {
		count, err := s.alertRepo.CountUnacknowledged(gctx, nil)
		if err != nil {
			return err
		}
		summary.UnacknowledgedAlerts = count
		return nil
	})
	g.Go(func() error {
		alerts, err := s.alertRepo.ListUnacknowledged(gctx, nil, 10)
		if err != nil {
			return err
		}
		summary.RecentAlerts = alerts
		return nil
	})
	g.Go(func() error {
		batches, err := s.batchRepo.List(gctx, nil, repos.BatchListFilter{Limit: 10})
		if err != nil {
			return err
		}
		summary.RecentBatches = batches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, status := range dashboardStatuses {
		summary.BatchesByStatus[status] = statusCounts[i]
	}
	return summary, nil
}
