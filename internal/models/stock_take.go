package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StockTakeStatusOpen   = "open"
	StockTakeStatusClosed = "closed"
)

// StockTake is one bounded audit event for a (company, warehouse) pair.
// At most one take per pair may be open at any time; the partial unique
// index on stock_takes enforces this at the storage layer.
type StockTake struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	CompanyID         uuid.UUID  `json:"company_id" db:"company_id"`
	WarehouseID       uuid.UUID  `json:"warehouse_id" db:"warehouse_id"`
	OpenedByManagerID *uuid.UUID `json:"opened_by_manager_id" db:"opened_by_manager_id"`
	Notes             *string    `json:"notes" db:"notes"`
	Status            string     `json:"status" db:"status"`
	OpenedAt          time.Time  `json:"opened_at" db:"opened_at"`
	ClosedAt          *time.Time `json:"closed_at" db:"closed_at"`
}

// StockTakeFilter holds optional list filters; nil fields are not applied.
type StockTakeFilter struct {
	CompanyID   *uuid.UUID `query:"company_id"`
	WarehouseID *uuid.UUID `query:"warehouse_id"`
	Status      *string    `query:"status"`
	Limit       int        `query:"limit"`
	Offset      int        `query:"offset"`
}
