package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action tags
const (
	ActionProductCreated = "product_created"
	ActionProductUpdated = "product_updated"
	ActionProductDeleted = "product_deleted"
	ActionStockIn        = "stock_in"
	ActionStockOut       = "stock_out"
	ActionSale           = "sale"
	ActionUserRegistered = "user_registered"
	ActionRoleChanged    = "role_changed"
)

type LogLevel string

const (
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// SystemLogEntry is a free-form audit record, append-only and independent of the stock ledger.
type SystemLogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	UserID    *string   `gorm:"type:varchar(255)" json:"user_id"`
	UserName  string    `gorm:"type:varchar(255)" json:"user_name"`
	Details   string    `gorm:"type:text" json:"details"`
	TargetID  *string   `gorm:"type:varchar(255);index" json:"target_id"`
	Level     LogLevel  `gorm:"type:varchar(10);not null;default:info" json:"level"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (SystemLogEntry) TableName() string {
	return "system_logs"
}

func (e *SystemLogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// NewSystemLogEntry fills the defaults: actor name "System", level info, nil ids when empty.
func NewSystemLogEntry(action string, actor Actor, details, targetID string) *SystemLogEntry {
	entry := &SystemLogEntry{
		Action:   action,
		UserName: actor.Name,
		Details:  details,
		Level:    LevelInfo,
	}
	if actor.ID != "" {
		id := actor.ID
		entry.UserID = &id
	}
	if entry.UserName == "" {
		entry.UserName = SystemActor.Name
	}
	if targetID != "" {
		entry.TargetID = &targetID
	}
	return entry
}
