package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the highest quantity still reported as "low".
const LowStockThreshold = 5

type StockStatus string

const (
	StockIn  StockStatus = "in"
	StockLow StockStatus = "low"
	StockOut StockStatus = "out"
)

type Product struct {
	BaseModel
	SKU          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name         string          `gorm:"type:varchar(255)" json:"name"`
	Category     string          `gorm:"type:varchar(100);index" json:"category"`
	Size         string          `gorm:"type:varchar(20)" json:"size"`
	Color        string          `gorm:"type:varchar(50)" json:"color"`
	Quantity     int             `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"cost_price"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"selling_price"`
	ImageURL     string          `gorm:"type:text" json:"image_url,omitempty"`
}

// DisplayName is the label snapshotted into ledger entries: the name, or the SKU when unnamed.
func (p *Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.SKU
}

// Status derives the stock status from the current quantity.
func (p *Product) Status() StockStatus {
	return StockStatusOf(p.Quantity)
}

// StockStatusOf maps a quantity to in/low/out. The threshold is fixed.
func StockStatusOf(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	Category      string
	Color         string
	Size          string
	AvailableOnly bool
	Status        StockStatus
}

// Match reports whether p passes every set filter. Color compares case-insensitively.
func (f ProductFilter) Match(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Color != "" && !strings.EqualFold(p.Color, f.Color) {
		return false
	}
	if f.Size != "" && p.Size != f.Size {
		return false
	}
	if f.AvailableOnly && p.Quantity <= 0 {
		return false
	}
	if f.Status != "" && p.Status() != f.Status {
		return false
	}
	return true
}

// MatchesTerm is the search predicate: case-insensitive substring over name, SKU and
// category. Only the empty term matches everything; whitespace is part of the term.
func (p *Product) MatchesTerm(term string) bool {
	t := strings.ToLower(term)
	if t == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), t) ||
		strings.Contains(strings.ToLower(p.SKU), t) ||
		strings.Contains(strings.ToLower(p.Category), t)
}
