package service

import (
	"context"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"

	"github.com/shopspring/decimal"
)

const defaultSalesHistoryLimit = 100

type SalesService interface {
	GetSalesStats(ctx context.Context) (*model.SalesStats, error)
	GetSalesHistory(ctx context.Context, limit int) ([]model.SaleRecord, error)
}

type salesService struct {
	store repository.Store
}

func NewSalesService(store repository.Store) SalesService {
	return &salesService{store: store}
}

func (s *salesService) GetSalesStats(ctx context.Context) (*model.SalesStats, error) {
	sales, err := s.store.Sales().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load sales", err)
	}
	return AggregateSales(sales), nil
}

func (s *salesService) GetSalesHistory(ctx context.Context, limit int) ([]model.SaleRecord, error) {
	sales, err := s.store.Sales().FindRecent(ctx, clampLimit(limit, defaultSalesHistoryLimit, 0))
	if err != nil {
		return nil, apperr.Internal("failed to load sales history", err)
	}
	return sales, nil
}

// AggregateSales totals revenue and profit and picks the category with the highest
// revenue. On a tie the category seen first wins.
func AggregateSales(sales []model.SaleRecord) *model.SalesStats {
	stats := &model.SalesStats{
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
		TotalSales:   len(sales),
		ByCategory:   make(map[string]decimal.Decimal),
	}

	var order []string
	for _, sale := range sales {
		stats.TotalRevenue = stats.TotalRevenue.Add(sale.Revenue)
		stats.TotalProfit = stats.TotalProfit.Add(sale.Profit)

		category := sale.Category
		if category == "" {
			category = model.UncategorizedLabel
		}
		current, seen := stats.ByCategory[category]
		if !seen {
			order = append(order, category)
		}
		stats.ByCategory[category] = current.Add(sale.Revenue)
	}

	for _, category := range order {
		if stats.BestSellerCategory == nil || stats.ByCategory[category].GreaterThan(stats.ByCategory[*stats.BestSellerCategory]) {
			best := category
			stats.BestSellerCategory = &best
		}
	}
	return stats
}
