package repository

import (
	"context"
	"fmt"

	"go-retail-admin/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.SaleRecord) error
	FindRecent(ctx context.Context, limit int) ([]model.SaleRecord, error)
	FindAll(ctx context.Context) ([]model.SaleRecord, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.SaleRecord) error {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	return nil
}

func (r *saleRepo) FindRecent(ctx context.Context, limit int) ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

func (r *saleRepo) FindAll(ctx context.Context) ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
