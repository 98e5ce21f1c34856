package handlers

import (
	"errors"
	"net/http"

	"stockaudit/internal/common"
	"stockaudit/internal/models"
	"stockaudit/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BinCountHandlers handles count staging and bin submission HTTP requests
type BinCountHandlers struct {
	binCountService services.BinCountService
}

func NewBinCountHandlers(binCountService services.BinCountService) *BinCountHandlers {
	return &BinCountHandlers{binCountService: binCountService}
}

// AddCountRequest represents the staged-count creation payload
type AddCountRequest struct {
	StockTakeID        uuid.UUID  `json:"stock_take_id"`
	BinLocationID      uuid.UUID  `json:"bin_location_id"`
	ItemCode           string     `json:"item_code"`
	ItemName           *string    `json:"item_name"`
	Quantity           *int       `json:"quantity"`
	CountedByManagerID *uuid.UUID `json:"counted_by_manager_id"`
}

// AddCount stages one item count against a bin within an open stock take.
func (h *BinCountHandlers) AddCount(c echo.Context) error {
	ctx := c.Request().Context()

	var req AddCountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.StockTakeID == uuid.Nil || req.BinLocationID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "stock_take_id and bin_location_id are required")
	}
	if req.ItemCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item_code is required")
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity cannot be negative")
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	// A session JWT names the counter when the body does not.
	countedBy := req.CountedByManagerID
	if countedBy == nil {
		if managerID, ok := common.GetManagerIDFromContext(ctx); ok {
			countedBy = &managerID
		}
	}

	count, err := h.binCountService.AddCount(ctx, &services.AddCountRequest{
		StockTakeID:   req.StockTakeID,
		BinLocationID: req.BinLocationID,
		ItemCode:      req.ItemCode,
		ItemName:      req.ItemName,
		Quantity:      quantity,
		CountedBy:     countedBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrStockTakeNotOpen), errors.Is(err, common.ErrBinMismatch):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrManagerNotPermitted):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, common.ErrNotFound):
			return common.SendNotFoundError(c, "Bin location")
		default:
			return common.SendServerError(c, "Failed to stage count")
		}
	}
	return c.JSON(http.StatusCreated, count)
}

// SubmitBinRequest represents the bin submission payload
type SubmitBinRequest struct {
	StockTakeID        uuid.UUID  `json:"stock_take_id"`
	CountedByManagerID *uuid.UUID `json:"counted_by_manager_id"`
}

// SubmitBin atomically promotes every staged count for the bin into the
// permanent ledger.
func (h *BinCountHandlers) SubmitBin(c echo.Context) error {
	ctx := c.Request().Context()

	binLocationID, err := common.ValidateUUIDParam(c.Param("binLocationId"), "bin location ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req SubmitBinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.StockTakeID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "stock_take_id is required")
	}

	submittedBy := req.CountedByManagerID
	if submittedBy == nil {
		if managerID, ok := common.GetManagerIDFromContext(ctx); ok {
			submittedBy = &managerID
		}
	}

	result, err := h.binCountService.SubmitBin(ctx, binLocationID, req.StockTakeID, submittedBy)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNothingToSubmit):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrManagerNotPermitted):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, common.ErrNotFound):
			return common.SendNotFoundError(c, "Stock take")
		default:
			return common.SendServerError(c, "Failed to submit bin")
		}
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteCount removes one staged count; submitted counts are immutable.
func (h *BinCountHandlers) DeleteCount(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUIDParam(c.Param("id"), "count ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.binCountService.DeleteUnsubmitted(ctx, id); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return common.SendNotFoundError(c, "Count")
		case errors.Is(err, common.ErrAlreadySubmitted):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return common.SendServerError(c, "Failed to delete count")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Count deleted successfully",
	})
}

// ListCounts returns staged counts matching the filters.
func (h *BinCountHandlers) ListCounts(c echo.Context) error {
	ctx := c.Request().Context()

	var filter models.BinCountFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	counts, err := h.binCountService.ListCounts(ctx, &filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list counts")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"counts": counts,
	})
}
