package service

import (
	"context"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"
)

const (
	defaultSystemLogLimit = 100
	maxSystemLogLimit     = 500
)

type LogService interface {
	LogAction(ctx context.Context, entry *model.SystemLogEntry) error
	GetSystemLogs(ctx context.Context, limit int) ([]model.SystemLogEntry, error)
}

type logService struct {
	store repository.Store
}

func NewLogService(store repository.Store) LogService {
	return &logService{store: store}
}

func (s *logService) LogAction(ctx context.Context, entry *model.SystemLogEntry) error {
	if entry.Action == "" {
		return apperr.Validation("action is required")
	}
	if entry.UserName == "" {
		entry.UserName = model.SystemActor.Name
	}
	if entry.Level == "" {
		entry.Level = model.LevelInfo
	}
	if err := s.store.SystemLogs().Create(ctx, entry); err != nil {
		return apperr.Internal("failed to write system log", err)
	}
	return nil
}

func (s *logService) GetSystemLogs(ctx context.Context, limit int) ([]model.SystemLogEntry, error) {
	entries, err := s.store.SystemLogs().FindRecent(ctx, clampLimit(limit, defaultSystemLogLimit, maxSystemLogLimit))
	if err != nil {
		return nil, apperr.Internal("failed to load system logs", err)
	}
	return entries, nil
}
