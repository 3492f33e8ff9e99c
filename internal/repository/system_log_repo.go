package repository

import (
	"context"
	"fmt"

	"go-retail-admin/internal/model"

	"gorm.io/gorm"
)

type SystemLogRepository interface {
	Create(ctx context.Context, entry *model.SystemLogEntry) error
	FindRecent(ctx context.Context, limit int) ([]model.SystemLogEntry, error)
}

type systemLogRepo struct {
	db *gorm.DB
}

func NewSystemLogRepo(db *gorm.DB) SystemLogRepository {
	return &systemLogRepo{db}
}

func (r *systemLogRepo) Create(ctx context.Context, entry *model.SystemLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append system log: %w", err)
	}
	return nil
}

func (r *systemLogRepo) FindRecent(ctx context.Context, limit int) ([]model.SystemLogEntry, error) {
	var entries []model.SystemLogEntry
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list system logs: %w", err)
	}
	return entries, nil
}
