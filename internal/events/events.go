package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-retail-admin/internal/model"
)

const TypeStockUpdate = "stock_update"

// ProductSnapshot is the product state carried by an event.
type ProductSnapshot struct {
	ID       string            `json:"id"`
	SKU      string            `json:"sku"`
	Name     string            `json:"name"`
	Category string            `json:"category,omitempty"`
	Quantity int               `json:"quantity"`
	Status   model.StockStatus `json:"status"`
}

// Event is published after a catalog or stock change has committed.
type Event struct {
	Type    string          `json:"type"`
	Action  string          `json:"action"`
	Product ProductSnapshot `json:"product"`
	User    model.Actor     `json:"user"`
	Message string          `json:"message"`
	At      time.Time       `json:"at"`
}

func NewStockEvent(action string, p *model.Product, actor model.Actor, format string, args ...any) Event {
	return Event{
		Type:   TypeStockUpdate,
		Action: action,
		Product: ProductSnapshot{
			ID:       p.ID.String(),
			SKU:      p.SKU,
			Name:     p.DisplayName(),
			Category: p.Category,
			Quantity: p.Quantity,
			Status:   p.Status(),
		},
		User:    actor,
		Message: fmt.Sprintf(format, args...),
		At:      time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Multi sends every event to all publishers and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops events. Used when nothing listens.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
