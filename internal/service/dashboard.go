package service

import (
	"context"
	"time"

	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
)

// DashboardService serves the pre-aggregated metrics behind the
// overview cards and charts.
type DashboardService struct {
	dashboard *repository.DashboardRepository
}

func NewDashboardService(dashboard *repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboard: dashboard}
}

func (s *DashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	return s.dashboard.Summary(ctx, time.Now().UTC())
}

func (s *DashboardService) MonthlyBookings(ctx context.Context, year int) ([]model.MonthlyCount, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	counts, err := s.dashboard.MonthlyBookings(ctx, year)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []model.MonthlyCount{}
	}
	return counts, nil
}

func (s *DashboardService) MonthlyRevenue(ctx context.Context, year int) ([]model.MonthlyAmount, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	totals, err := s.dashboard.MonthlyRevenue(ctx, year)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []model.MonthlyAmount{}
	}
	return totals, nil
}
