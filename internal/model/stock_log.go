package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockLogType string

const (
	StockLogIn   StockLogType = "in"
	StockLogOut  StockLogType = "out"
	StockLogSale StockLogType = "sale"
)

// DefaultStockOutReason is recorded when a stock-out carries no reason.
const DefaultStockOutReason = "Manual adjustment"

// StockLogEntry is one immutable stock movement. Rows are inserted once and never
// updated or deleted, forming the per-product ledger.
type StockLogEntry struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key;" json:"id"`
	Type        StockLogType `gorm:"type:varchar(10);not null;index" json:"type"`
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string       `gorm:"type:varchar(255)" json:"product_name"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	UserID      string       `gorm:"type:varchar(255)" json:"user_id"`
	UserName    string       `gorm:"type:varchar(255)" json:"user_name"`
	Reason      string       `gorm:"type:text" json:"reason,omitempty"`

	// Sale-only snapshot of pricing at the time of sale
	SellingPrice *decimal.Decimal `gorm:"type:numeric(14,2)" json:"selling_price,omitempty"`
	CostPrice    *decimal.Decimal `gorm:"type:numeric(14,2)" json:"cost_price,omitempty"`
	Revenue      *decimal.Decimal `gorm:"type:numeric(14,2)" json:"revenue,omitempty"`
	Profit       *decimal.Decimal `gorm:"type:numeric(14,2)" json:"profit,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (StockLogEntry) TableName() string {
	return "stock_logs"
}

func (e *StockLogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// Delta is the signed change this entry applied to the product quantity.
func (e *StockLogEntry) Delta() int {
	if e.Type == StockLogIn {
		return e.Quantity
	}
	return -e.Quantity
}
