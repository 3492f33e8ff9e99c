package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and the created/updated audit trail
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
}

// BeforeCreate generates the UUID unless the caller already assigned one
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// Actor identifies who performed an operation. Names are snapshotted into ledger and
// audit records so later profile edits do not rewrite history.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SystemActor is used when no authenticated user is attached to an operation.
var SystemActor = Actor{ID: "system", Name: "System"}
