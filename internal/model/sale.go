package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UncategorizedLabel groups sales of products with no category.
const UncategorizedLabel = "Uncategorized"

// SaleRecord is the denormalized row that sales reporting aggregates over.
// It is written in the same transaction as its "sale" StockLogEntry.
type SaleRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Revenue     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"revenue"`
	Profit      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"profit"`
	UserID      string          `gorm:"type:varchar(255)" json:"user_id"`
	UserName    string          `gorm:"type:varchar(255)" json:"user_name"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

func (SaleRecord) TableName() string {
	return "sales"
}

func (s *SaleRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// SalesStats is the aggregate shown on the dashboard
type SalesStats struct {
	TotalRevenue       decimal.Decimal            `json:"total_revenue"`
	TotalProfit        decimal.Decimal            `json:"total_profit"`
	TotalSales         int                        `json:"total_sales"`
	BestSellerCategory *string                    `json:"best_seller_category"`
	ByCategory         map[string]decimal.Decimal `json:"by_category"`
}
