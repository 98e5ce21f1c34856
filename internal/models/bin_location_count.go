package models

import (
	"time"

	"github.com/google/uuid"
)

// BinLocationCount is a staged item count recorded against one bin within an
// open stock take. Once submitted it is immutable and may never be deleted.
type BinLocationCount struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	StockTakeID        uuid.UUID  `json:"stock_take_id" db:"stock_take_id"`
	BinLocationID      uuid.UUID  `json:"bin_location_id" db:"bin_location_id"`
	ItemCode           string     `json:"item_code" db:"item_code"`
	ItemName           *string    `json:"item_name" db:"item_name"`
	Quantity           int        `json:"quantity" db:"quantity"`
	CountedByManagerID *uuid.UUID `json:"counted_by_manager_id" db:"counted_by_manager_id"`
	Submitted          bool       `json:"submitted" db:"submitted"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	SubmittedAt        *time.Time `json:"submitted_at" db:"submitted_at"`
}

// BinCountFilter holds optional list filters for staged counts.
type BinCountFilter struct {
	StockTakeID   *uuid.UUID `query:"stock_take_id"`
	BinLocationID *uuid.UUID `query:"bin_location_id"`
	SubmittedOnly bool       `query:"submitted_only"`
	Limit         int        `query:"limit"`
	Offset        int        `query:"offset"`
}

// SubmitResult reports exactly the rows promoted by one SubmitBin call.
type SubmitResult struct {
	ItemsSubmitted int          `json:"items_submitted"`
	Items          []*StockItem `json:"items"`
}
