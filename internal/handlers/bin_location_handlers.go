package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stockaudit/internal/common"
	"stockaudit/internal/repositories"

	"github.com/labstack/echo/v4"
)

// BinLocationHandlers resolves scanned bin codes for counting operators.
type BinLocationHandlers struct {
	binLocationRepo repositories.BinLocationRepository
}

func NewBinLocationHandlers(binLocationRepo repositories.BinLocationRepository) *BinLocationHandlers {
	return &BinLocationHandlers{binLocationRepo: binLocationRepo}
}

// Resolve looks up a bin by its short code within a warehouse.
func (h *BinLocationHandlers) Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	warehouseID, err := common.ValidateUUIDParam(c.QueryParam("warehouse_id"), "warehouse_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	bin, err := h.binLocationRepo.GetByCode(ctx, warehouseID, code)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Bin location")
		}
		return common.SendServerError(c, "Failed to resolve bin location")
	}
	return c.JSON(http.StatusOK, bin)
}

// List returns the bins of one warehouse, ordered by code.
func (h *BinLocationHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	warehouseID, err := common.ValidateUUIDParam(c.QueryParam("warehouse_id"), "warehouse_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	bins, err := h.binLocationRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list bin locations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"bin_locations": bins,
	})
}
