package repository

import (
	"context"
	"fmt"
	"time"

	"go-retail-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockLogRepository interface {
	Create(ctx context.Context, entry *model.StockLogEntry) error
	FindRecent(ctx context.Context, limit int) ([]model.StockLogEntry, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockLogEntry, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData is one day of the inbound/outbound chart
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type stockLogRepo struct {
	db *gorm.DB
}

func NewStockLogRepo(db *gorm.DB) StockLogRepository {
	return &stockLogRepo{db}
}

func (r *stockLogRepo) Create(ctx context.Context, entry *model.StockLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append stock log: %w", err)
	}
	return nil
}

func (r *stockLogRepo) FindRecent(ctx context.Context, limit int) ([]model.StockLogEntry, error) {
	var entries []model.StockLogEntry
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list stock logs: %w", err)
	}
	return entries, nil
}

// FindByProduct returns a product's full ledger, oldest first
func (r *stockLogRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockLogEntry, error) {
	var entries []model.StockLogEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list product ledger: %w", err)
	}
	return entries, nil
}

func (r *stockLogRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Sales count as outbound movement
	rows, err := r.db.WithContext(ctx).Model(&model.StockLogEntry{}).
		Select(`
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COALESCE(SUM(CASE WHEN type = 'in' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type IN ('out', 'sale') THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("stock movement: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}
