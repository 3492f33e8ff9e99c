package service

import (
	"context"
	"fmt"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/events"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const defaultStockLogLimit = 50

type StockService interface {
	RecordStockIn(ctx context.Context, productID uuid.UUID, quantity int, actor model.Actor) (int, error)
	RecordStockOut(ctx context.Context, productID uuid.UUID, quantity int, actor model.Actor, reason string) (int, error)
	RecordSale(ctx context.Context, productID uuid.UUID, quantity int, actor model.Actor) (*SaleResult, error)
	GetStockLogs(ctx context.Context, limit int) ([]model.StockLogEntry, error)
	GetProductLedger(ctx context.Context, productID uuid.UUID) ([]model.StockLogEntry, error)
}

type SaleResult struct {
	NewQuantity int             `json:"new_quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
}

type stockService struct {
	store  repository.Store
	events events.Publisher
	log    logrus.FieldLogger
	tracer trace.Tracer
	ops    metric.Int64Counter
	units  metric.Int64Counter
}

func NewStockService(store repository.Store, pub events.Publisher, log logrus.FieldLogger, tracer trace.Tracer, meter metric.Meter) StockService {
	s := &stockService{
		store:  store,
		events: pub,
		log:    log,
		tracer: tracer,
	}

	var err error
	if s.ops, err = meter.Int64Counter("stock.operations",
		metric.WithDescription("Stock operations by type and outcome")); err != nil {
		log.WithError(err).Warn("stock.operations counter disabled")
		s.ops = metricnoop.Int64Counter{}
	}
	if s.units, err = meter.Int64Counter("stock.units",
		metric.WithDescription("Units moved by committed stock operations")); err != nil {
		log.WithError(err).Warn("stock.units counter disabled")
		s.units = metricnoop.Int64Counter{}
	}
	return s
}

// movement is one stock operation in flight
type movement struct {
	kind      model.StockLogType
	productID uuid.UUID
	quantity  int
	actor     model.Actor
	reason    string
}

type movementResult struct {
	product *model.Product
	revenue decimal.Decimal
	profit  decimal.Decimal
}

func (s *stockService) RecordStockIn(ctx context.Context, productID uuid.UUID, quantity int, actor model.Actor) (int, error) {
	res, err := s.record(ctx, movement{kind: model.StockLogIn, productID: productID, quantity: quantity, actor: actor})
	if err != nil {
		return 0, err
	}
	return res.product.Quantity, nil
}

func (s *stockService) RecordStockOut(ctx context.Context, productID uuid.UUID, quantity int, actor model.Actor, reason string) (int, error) {
	res, err := s.record(ctx, movement{kind: model.StockLogOut, productID: productID, quantity: quantity, actor: actor, reason: reason})
	if err != nil {
		return 0, err
	}
	return res.product.Quantity, nil
}

func (s *stockService) RecordSale(ctx context.Context, productID uuid.UUID, quantity int, actor model.Actor) (*SaleResult, error) {
	res, err := s.record(ctx, movement{kind: model.StockLogSale, productID: productID, quantity: quantity, actor: actor})
	if err != nil {
		return nil, err
	}
	return &SaleResult{
		NewQuantity: res.product.Quantity,
		Revenue:     res.revenue,
		Profit:      res.profit,
	}, nil
}

// record runs one stock operation in a single transaction: lock the product row, check
// and write the new quantity, then append the ledger entry, the sale record (sales only)
// and the audit entry.
func (s *stockService) record(ctx context.Context, m movement) (*movementResult, error) {
	ctx, span := s.tracer.Start(ctx, "stock."+string(m.kind),
		trace.WithAttributes(
			attribute.String("product.id", m.productID.String()),
			attribute.Int("stock.quantity", m.quantity),
		))
	defer span.End()

	res, err := s.commit(ctx, m)
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", string(m.kind)),
		attribute.String("outcome", outcome),
	))
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"product_id": m.productID,
			"type":       m.kind,
			"quantity":   m.quantity,
			"actor":      m.actor.ID,
		}).Warn("stock operation rejected")
		return nil, err
	}
	s.units.Add(ctx, int64(m.quantity), metric.WithAttributes(attribute.String("type", string(m.kind))))

	fields := logrus.Fields{
		"product_id":   m.productID,
		"type":         m.kind,
		"quantity":     m.quantity,
		"new_quantity": res.product.Quantity,
		"actor":        m.actor.ID,
	}
	s.log.WithFields(fields).Info("stock updated")

	publish(ctx, s.events, s.log, s.event(m, res))
	return res, nil
}

func (s *stockService) commit(ctx context.Context, m movement) (*movementResult, error) {
	if m.quantity <= 0 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	var res movementResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, m.productID)
		if err != nil {
			return err
		}

		newQty := product.Quantity
		if m.kind == model.StockLogIn {
			newQty += m.quantity
		} else {
			if m.quantity > product.Quantity {
				return apperr.InsufficientStock("insufficient stock: requested %d, available %d", m.quantity, product.Quantity)
			}
			newQty -= m.quantity
		}

		if err := tx.Products().UpdateQuantity(ctx, product.ID, newQty, m.actor.ID); err != nil {
			return err
		}
		product.Quantity = newQty
		res.product = product

		name := product.DisplayName()
		entry := &model.StockLogEntry{
			Type:        m.kind,
			ProductID:   product.ID,
			ProductName: name,
			Quantity:    m.quantity,
			UserID:      m.actor.ID,
			UserName:    m.actor.Name,
		}

		var action, details string
		switch m.kind {
		case model.StockLogIn:
			action = model.ActionStockIn
			details = fmt.Sprintf("Added %d stocks to %s", m.quantity, name)
		case model.StockLogOut:
			action = model.ActionStockOut
			entry.Reason = m.reason
			if entry.Reason == "" {
				entry.Reason = model.DefaultStockOutReason
			}
			details = fmt.Sprintf("Removed %d stocks from %s", m.quantity, name)
			if m.reason != "" {
				details += fmt.Sprintf(" (%s)", m.reason)
			}
		case model.StockLogSale:
			action = model.ActionSale
			qty := decimal.NewFromInt(int64(m.quantity))
			res.revenue = qty.Mul(product.SellingPrice)
			res.profit = res.revenue.Sub(qty.Mul(product.CostPrice))
			selling, cost := product.SellingPrice, product.CostPrice
			revenue, profit := res.revenue, res.profit
			entry.SellingPrice = &selling
			entry.CostPrice = &cost
			entry.Revenue = &revenue
			entry.Profit = &profit
			details = fmt.Sprintf("Sold %d of %s", m.quantity, name)
		}

		if err := tx.StockLogs().Create(ctx, entry); err != nil {
			return err
		}

		if m.kind == model.StockLogSale {
			category := product.Category
			if category == "" {
				category = model.UncategorizedLabel
			}
			if err := tx.Sales().Create(ctx, &model.SaleRecord{
				ProductID:   product.ID,
				ProductName: name,
				Category:    category,
				Quantity:    m.quantity,
				Revenue:     res.revenue,
				Profit:      res.profit,
				UserID:      m.actor.ID,
				UserName:    m.actor.Name,
			}); err != nil {
				return err
			}
		}

		return tx.SystemLogs().Create(ctx, model.NewSystemLogEntry(action, m.actor, details, product.ID.String()))
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to record stock operation")
	}
	return &res, nil
}

func (s *stockService) event(m movement, res *movementResult) events.Event {
	name := res.product.DisplayName()
	switch m.kind {
	case model.StockLogIn:
		return events.NewStockEvent(model.ActionStockIn, res.product, m.actor,
			"%s added %d units of '%s'", m.actor.Name, m.quantity, name)
	case model.StockLogOut:
		return events.NewStockEvent(model.ActionStockOut, res.product, m.actor,
			"%s removed %d units of '%s'", m.actor.Name, m.quantity, name)
	default:
		return events.NewStockEvent(model.ActionSale, res.product, m.actor,
			"%s sold %d units of '%s'", m.actor.Name, m.quantity, name)
	}
}

func (s *stockService) GetStockLogs(ctx context.Context, limit int) ([]model.StockLogEntry, error) {
	entries, err := s.store.StockLogs().FindRecent(ctx, clampLimit(limit, defaultStockLogLimit, 0))
	if err != nil {
		return nil, apperr.Internal("failed to load stock logs", err)
	}
	return entries, nil
}

func (s *stockService) GetProductLedger(ctx context.Context, productID uuid.UUID) ([]model.StockLogEntry, error) {
	entries, err := s.store.StockLogs().FindByProduct(ctx, productID)
	if err != nil {
		return nil, apperr.Internal("failed to load product ledger", err)
	}
	return entries, nil
}
