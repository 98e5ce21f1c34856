package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stockaudit/internal/common"
	"stockaudit/internal/models"
	"stockaudit/internal/repositories"
	"stockaudit/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AccessGrantHandlers manages the two access-grant tables. Every route here
// sits behind the admin token middleware.
type AccessGrantHandlers struct {
	grantRepo     repositories.AccessGrantRepository
	accessService services.AccessService
}

func NewAccessGrantHandlers(grantRepo repositories.AccessGrantRepository, accessService services.AccessService) *AccessGrantHandlers {
	return &AccessGrantHandlers{
		grantRepo:     grantRepo,
		accessService: accessService,
	}
}

func grantPagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return common.ValidatePaginationParams(limit, offset)
}

// ListManagerGrants handles listing manager-company grants
func (h *AccessGrantHandlers) ListManagerGrants(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := grantPagination(c)
	grants, err := h.grantRepo.ListManagerGrants(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list manager grants")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"grants": grants,
	})
}

// CreateManagerGrantRequest represents the manager grant creation payload
type CreateManagerGrantRequest struct {
	ManagerID uuid.UUID `json:"manager_id"`
	CompanyID uuid.UUID `json:"company_id"`
}

// CreateManagerGrant inserts one manager-company access edge. Duplicate
// pairs fail with 409 rather than silently succeeding.
func (h *AccessGrantHandlers) CreateManagerGrant(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateManagerGrantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.ManagerID == uuid.Nil || req.CompanyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "manager_id and company_id are required")
	}

	if exists, err := h.accessService.ManagerGrantExists(ctx, req.ManagerID, req.CompanyID); err != nil {
		return common.SendServerError(c, "Failed to check existing grant")
	} else if exists {
		return common.SendConflictError(c, "Grant already exists for this manager and company")
	}

	grant := &models.ManagerCompanyAccess{
		ID:        uuid.New(),
		ManagerID: req.ManagerID,
		CompanyID: req.CompanyID,
	}
	if err := h.grantRepo.CreateManagerGrant(ctx, grant); err != nil {
		if errors.Is(err, common.ErrDuplicateGrant) {
			return common.SendConflictError(c, "Grant already exists for this manager and company")
		}
		return common.SendServerError(c, "Failed to create grant")
	}
	return c.JSON(http.StatusCreated, grant)
}

// DeleteManagerGrant handles removing a manager-company grant
func (h *AccessGrantHandlers) DeleteManagerGrant(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUIDParam(c.Param("id"), "grant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.grantRepo.DeleteManagerGrant(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Grant")
		}
		return common.SendServerError(c, "Failed to delete grant")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Grant deleted successfully",
	})
}

// ListCounterGrants handles listing counter-company grants
func (h *AccessGrantHandlers) ListCounterGrants(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := grantPagination(c)
	grants, err := h.grantRepo.ListCounterGrants(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list counter grants")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"grants": grants,
	})
}

// CreateCounterGrantRequest represents the counter grant creation payload
type CreateCounterGrantRequest struct {
	Email     string    `json:"email"`
	CompanyID uuid.UUID `json:"company_id"`
}

// CreateCounterGrant inserts one counter-email access edge.
func (h *AccessGrantHandlers) CreateCounterGrant(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateCounterGrantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CompanyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "company_id is required")
	}

	if exists, err := h.accessService.CounterGrantExists(ctx, req.Email, req.CompanyID); err != nil {
		return common.SendServerError(c, "Failed to check existing grant")
	} else if exists {
		return common.SendConflictError(c, "Grant already exists for this email and company")
	}

	grant := &models.CounterCompanyAccess{
		ID:        uuid.New(),
		Email:     req.Email,
		CompanyID: req.CompanyID,
	}
	if err := h.grantRepo.CreateCounterGrant(ctx, grant); err != nil {
		if errors.Is(err, common.ErrDuplicateGrant) {
			return common.SendConflictError(c, "Grant already exists for this email and company")
		}
		return common.SendServerError(c, "Failed to create grant")
	}
	return c.JSON(http.StatusCreated, grant)
}

// DeleteCounterGrant handles removing a counter-company grant
func (h *AccessGrantHandlers) DeleteCounterGrant(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUIDParam(c.Param("id"), "grant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.grantRepo.DeleteCounterGrant(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Grant")
		}
		return common.SendServerError(c, "Failed to delete grant")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Grant deleted successfully",
	})
}
