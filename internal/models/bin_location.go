package models

import (
	"time"

	"github.com/google/uuid"
)

// BinLocation is a physical storage slot within a warehouse, identified by a
// short code operators scan during a stock take.
type BinLocation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id" db:"warehouse_id"`
	Code        string    `json:"code" db:"code"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
