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

// StockTakeHandlers handles stock-take lifecycle HTTP requests
type StockTakeHandlers struct {
	stockTakeService services.StockTakeService
	reportService    services.ReportService
}

// NewStockTakeHandlers creates a new stock take handlers instance. The report
// service may be nil when report storage is not configured.
func NewStockTakeHandlers(stockTakeService services.StockTakeService, reportService services.ReportService) *StockTakeHandlers {
	return &StockTakeHandlers{
		stockTakeService: stockTakeService,
		reportService:    reportService,
	}
}

// OpenStockTakeRequest represents the open request payload
type OpenStockTakeRequest struct {
	CompanyID         uuid.UUID  `json:"company_id"`
	WarehouseID       uuid.UUID  `json:"warehouse_id"`
	OpenedByManagerID *uuid.UUID `json:"opened_by_manager_id"`
	Notes             *string    `json:"notes"`
}

// Open starts a new stock take for a (company, warehouse) pair.
func (h *StockTakeHandlers) Open(c echo.Context) error {
	ctx := c.Request().Context()

	var req OpenStockTakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.CompanyID == uuid.Nil || req.WarehouseID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "company_id and warehouse_id are required")
	}

	stockTake, err := h.stockTakeService.Open(ctx, req.CompanyID, req.WarehouseID, req.OpenedByManagerID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrStockTakeAlreadyOpen), errors.Is(err, common.ErrInvalidManager):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return common.SendServerError(c, "Failed to open stock take")
		}
	}
	return c.JSON(http.StatusCreated, stockTake)
}

// FindActive returns the open stock take for a pair, or null when none.
func (h *StockTakeHandlers) FindActive(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := common.ValidateUUIDParam(c.QueryParam("company_id"), "company_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	warehouseID, err := common.ValidateUUIDParam(c.QueryParam("warehouse_id"), "warehouse_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stockTake, err := h.stockTakeService.FindOpen(ctx, companyID, warehouseID)
	if err != nil {
		return common.SendServerError(c, "Failed to look up active stock take")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"result": stockTake,
	})
}

// Get returns one stock take by id.
func (h *StockTakeHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUIDParam(c.Param("id"), "stock take ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stockTake, err := h.stockTakeService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Stock take")
		}
		return common.SendServerError(c, "Failed to get stock take")
	}
	return c.JSON(http.StatusOK, stockTake)
}

// List returns stock takes, most recently opened first.
func (h *StockTakeHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	var filter models.StockTakeFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if filter.Status != nil && *filter.Status != models.StockTakeStatusOpen && *filter.Status != models.StockTakeStatusClosed {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be open or closed")
	}

	stockTakes, err := h.stockTakeService.List(ctx, &filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list stock takes")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stock_takes": stockTakes,
	})
}

// Close transitions a stock take to closed.
func (h *StockTakeHandlers) Close(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUIDParam(c.Param("id"), "stock take ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stockTake, err := h.stockTakeService.Close(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Stock take")
		}
		return common.SendServerError(c, "Failed to close stock take")
	}
	return c.JSON(http.StatusOK, stockTake)
}

// Report returns a presigned download URL for a closed stock take's CSV
// report.
func (h *StockTakeHandlers) Report(c echo.Context) error {
	ctx := c.Request().Context()

	if h.reportService == nil {
		return common.SendNotFoundError(c, "Report")
	}

	id, err := common.ValidateUUIDParam(c.Param("id"), "stock take ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stockTake, err := h.stockTakeService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Stock take")
		}
		return common.SendServerError(c, "Failed to get stock take")
	}
	if stockTake.Status != models.StockTakeStatusClosed {
		return common.SendNotFoundError(c, "Report")
	}

	url, err := h.reportService.ReportURL(ctx, stockTake.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to build report URL")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"url": url,
	})
}
