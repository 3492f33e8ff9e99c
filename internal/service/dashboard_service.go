package service

import (
	"context"
	"time"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentActivityLimit = 10

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
}

type DashboardSummary struct {
	TotalProducts  int                   `json:"total_products"`
	HealthyStock   int                   `json:"healthy_stock"`
	LowStock       int                   `json:"low_stock"`
	OutOfStock     int                   `json:"out_of_stock"`
	TotalRevenue   decimal.Decimal       `json:"total_revenue"`
	TotalProfit    decimal.Decimal       `json:"total_profit"`
	RecentActivity []model.StockLogEntry `json:"recent_activity"`
}

type dashboardService struct {
	store repository.Store
}

func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var (
		products []model.Product
		sales    []model.SaleRecord
		recent   []model.StockLogEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.store.Products().FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		sales, err = s.store.Sales().FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.StockLogs().FindRecent(gctx, recentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("failed to load dashboard", err)
	}

	summary := &DashboardSummary{
		TotalProducts:  len(products),
		RecentActivity: recent,
	}
	for i := range products {
		switch products[i].Status() {
		case model.StockIn:
			summary.HealthyStock++
		case model.StockLow:
			summary.LowStock++
		default:
			summary.OutOfStock++
		}
	}
	stats := AggregateSales(sales)
	summary.TotalRevenue = stats.TotalRevenue
	summary.TotalProfit = stats.TotalProfit
	return summary, nil
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 || days > 365 {
		return nil, apperr.Validation("days must be between 1 and 365")
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := s.store.StockLogs().GetStockMovement(ctx, startDate, endDate)
	if err != nil {
		return nil, apperr.Internal("failed to load stock movement", err)
	}
	return data, nil
}
