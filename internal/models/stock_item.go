package models

import (
	"time"

	"github.com/google/uuid"
)

// StockItem is the committed-of-record inventory count, created only when a
// bin is submitted. The staging workflow never mutates it afterwards.
type StockItem struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	CompanyID          uuid.UUID  `json:"company_id" db:"company_id"`
	WarehouseID        uuid.UUID  `json:"warehouse_id" db:"warehouse_id"`
	StockTakeID        uuid.UUID  `json:"stock_take_id" db:"stock_take_id"`
	BinLocationID      uuid.UUID  `json:"bin_location_id" db:"bin_location_id"`
	ItemCode           string     `json:"item_code" db:"item_code"`
	ItemName           *string    `json:"item_name" db:"item_name"`
	Quantity           int        `json:"quantity" db:"quantity"`
	CountedByManagerID *uuid.UUID `json:"counted_by_manager_id" db:"counted_by_manager_id"`
	CountDate          time.Time  `json:"count_date" db:"count_date"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}
