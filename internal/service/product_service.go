package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/events"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"
	"go-retail-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ProductService interface {
	GetProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	SearchProducts(ctx context.Context, term string, filter model.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput, actor model.Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch, actor model.Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor model.Actor) error
	ListCategories(ctx context.Context) ([]string, error)
}

type ProductInput struct {
	SKU          string          `json:"sku" validate:"max=50"`
	Name         string          `json:"name" validate:"max=255"`
	Category     string          `json:"category" validate:"max=100"`
	Size         string          `json:"size" validate:"max=20"`
	Color        string          `json:"color" validate:"max=50"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"gte=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0"`
	ImageURL     string          `json:"image_url" validate:"omitempty,url"`
}

// ProductPatch is a field-level update; nil fields are left untouched.
type ProductPatch struct {
	SKU          *string          `json:"sku" validate:"omitnil,min=1,max=50"`
	Name         *string          `json:"name" validate:"omitempty,max=255"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	Size         *string          `json:"size" validate:"omitempty,max=20"`
	Color        *string          `json:"color" validate:"omitempty,max=50"`
	Quantity     *int             `json:"quantity" validate:"omitempty,gte=0"`
	CostPrice    *decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,gte=0"`
	ImageURL     *string          `json:"image_url" validate:"omitempty,url"`
}

type productService struct {
	store  repository.Store
	events events.Publisher
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewProductService(store repository.Store, pub events.Publisher, log logrus.FieldLogger) ProductService {
	return &productService{
		store:  store,
		events: pub,
		log:    log,
		now:    time.Now,
	}
}

func (s *productService) GetProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	all, err := s.store.Products().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load products", err)
	}
	list := make([]model.Product, 0, len(all))
	for i := range all {
		if filter.Match(&all[i]) {
			list = append(list, all[i])
		}
	}
	return list, nil
}

func (s *productService) SearchProducts(ctx context.Context, term string, filter model.ProductFilter) ([]model.Product, error) {
	list, err := s.GetProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for i := range list {
		if list[i].MatchesTerm(term) {
			out = append(out, list[i])
		}
	}
	return out, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load product")
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput, actor model.Actor) (*model.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		SKU:          input.SKU,
		Name:         input.Name,
		Category:     input.Category,
		Size:         input.Size,
		Color:        input.Color,
		Quantity:     input.Quantity,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
		ImageURL:     input.ImageURL,
	}
	if product.SKU == "" {
		product.SKU = fmt.Sprintf("PRD-%d", s.now().UnixMilli())
	}
	product.CreatedBy = actor.ID
	product.UpdatedBy = actor.ID

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := ensureSKUFree(ctx, tx, product.SKU, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Products().Create(ctx, product); err != nil {
			return err
		}
		details := "Added product: " + product.DisplayName()
		return tx.SystemLogs().Create(ctx, model.NewSystemLogEntry(model.ActionProductCreated, actor, details, product.ID.String()))
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to create product")
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "sku": product.SKU, "actor": actor.ID}).Info("product created")
	publish(ctx, s.events, s.log, events.NewStockEvent(model.ActionProductCreated, product, actor,
		"%s created product '%s'", actor.Name, product.DisplayName()))
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch, actor model.Actor) (*model.Product, error) {
	if err := validator.Validate(patch); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if patch.SKU != nil && *patch.SKU != existing.SKU {
			if err := ensureSKUFree(ctx, tx, *patch.SKU, existing.ID); err != nil {
				return err
			}
		}
		patch.apply(existing)
		existing.UpdatedBy = actor.ID
		if err := tx.Products().Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return tx.SystemLogs().Create(ctx, model.NewSystemLogEntry(model.ActionProductUpdated, actor, "Updated product: "+id.String(), id.String()))
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to update product")
	}

	publish(ctx, s.events, s.log, events.NewStockEvent(model.ActionProductUpdated, updated, actor,
		"%s updated product '%s'", actor.Name, updated.DisplayName()))
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, actor model.Actor) error {
	var deleted *model.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Products().Delete(ctx, id); err != nil {
			return err
		}
		deleted = existing
		return tx.SystemLogs().Create(ctx, model.NewSystemLogEntry(model.ActionProductDeleted, actor, "Deleted product: "+id.String(), id.String()))
	})
	if err != nil {
		return wrapStoreErr(err, "failed to delete product")
	}

	s.log.WithFields(logrus.Fields{"product_id": id, "actor": actor.ID}).Info("product deleted")
	deleted.Quantity = 0
	publish(ctx, s.events, s.log, events.NewStockEvent(model.ActionProductDeleted, deleted, actor,
		"%s deleted product '%s'", actor.Name, deleted.DisplayName()))
	return nil
}

func (s *productService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.Products().Categories(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load categories", err)
	}
	return categories, nil
}

func (p ProductPatch) apply(product *model.Product) {
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Size != nil {
		product.Size = *p.Size
	}
	if p.Color != nil {
		product.Color = *p.Color
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	if p.CostPrice != nil {
		product.CostPrice = *p.CostPrice
	}
	if p.SellingPrice != nil {
		product.SellingPrice = *p.SellingPrice
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
}

func ensureSKUFree(ctx context.Context, tx repository.Store, sku string, self uuid.UUID) error {
	existing, err := tx.Products().FindBySKU(ctx, sku)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return apperr.Validation("SKU %s already exists", sku)
	}
	return nil
}

// wrapStoreErr passes application errors through and hides everything else behind message.
func wrapStoreErr(err error, message string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(message, err)
}
