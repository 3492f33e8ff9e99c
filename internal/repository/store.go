package repository

import (
	"context"
	"errors"
	"fmt"

	"go-retail-admin/internal/apperr"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. Inside Transaction the
// callback receives a Store bound to the transaction, so every write made through it
// commits or rolls back together.
type Store interface {
	Products() ProductRepository
	StockLogs() StockLogRepository
	Sales() SaleRepository
	SystemLogs() SystemLogRepository
	Users() UserRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Products() ProductRepository     { return NewProductRepo(s.db) }
func (s *gormStore) StockLogs() StockLogRepository   { return NewStockLogRepo(s.db) }
func (s *gormStore) Sales() SaleRepository           { return NewSaleRepo(s.db) }
func (s *gormStore) SystemLogs() SystemLogRepository { return NewSystemLogRepo(s.db) }
func (s *gormStore) Users() UserRepository           { return NewUserRepo(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// Unique index violations, reported by the repositories when a concurrent writer won.
var (
	ErrEmailTaken = apperr.Auth("email already registered")
	ErrSKUTaken   = apperr.Validation("SKU already exists")
)

// duplicateOr returns taken for a unique violation and wraps anything else with op.
// The database must be opened with TranslateError for gorm to report ErrDuplicatedKey.
func duplicateOr(err error, taken error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return taken
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notFoundOr turns gorm.ErrRecordNotFound into an apperr NotFound and wraps anything else.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return fmt.Errorf("find %s: %w", what, err)
}
