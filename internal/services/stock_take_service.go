package services

import (
	"context"
	"log"
	"time"

	"stockaudit/internal/caching"
	"stockaudit/internal/common"
	"stockaudit/internal/models"
	"stockaudit/internal/repositories"

	"github.com/google/uuid"
)

const activeStockTakeTTL = 5 * time.Minute

// StockTakeService owns the open/closed lifecycle per (company, warehouse).
type StockTakeService interface {
	Open(ctx context.Context, companyID, warehouseID uuid.UUID, openedBy *uuid.UUID, notes *string) (*models.StockTake, error)
	Close(ctx context.Context, id uuid.UUID) (*models.StockTake, error)
	FindOpen(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.StockTake, error)
	List(ctx context.Context, filter *models.StockTakeFilter) ([]*models.StockTake, error)
}

type stockTakeService struct {
	stockTakeRepo repositories.StockTakeRepository
	accessService AccessService
	cacheService  caching.CacheService
	reportService ReportService
}

// NewStockTakeService builds the lifecycle service. reportService may be nil
// when report storage is not configured.
func NewStockTakeService(stockTakeRepo repositories.StockTakeRepository, accessService AccessService, cacheService caching.CacheService, reportService ReportService) StockTakeService {
	return &stockTakeService{
		stockTakeRepo: stockTakeRepo,
		accessService: accessService,
		cacheService:  cacheService,
		reportService: reportService,
	}
}

// Open starts a new audit event. The single-open invariant is enforced by the
// storage layer, not by a pre-check, so two concurrent opens cannot both
// succeed.
func (s *stockTakeService) Open(ctx context.Context, companyID, warehouseID uuid.UUID, openedBy *uuid.UUID, notes *string) (*models.StockTake, error) {
	if openedBy != nil && !s.accessService.ManagerCanActOnWarehouse(ctx, *openedBy, warehouseID) {
		return nil, common.ErrInvalidManager
	}

	stockTake := &models.StockTake{
		ID:                uuid.New(),
		CompanyID:         companyID,
		WarehouseID:       warehouseID,
		OpenedByManagerID: openedBy,
		Notes:             notes,
	}
	if err := s.stockTakeRepo.Create(ctx, stockTake); err != nil {
		return nil, err
	}

	created, err := s.stockTakeRepo.GetByID(ctx, stockTake.ID)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cacheService.SetActiveStockTake(ctx, created, activeStockTakeTTL); cacheErr != nil {
		log.Printf("failed to cache active stock take %s: %v", created.ID, cacheErr)
	}
	return created, nil
}

// Close transitions the take to closed. Closing twice is a no-op. Report
// generation is best effort and never fails the close.
func (s *stockTakeService) Close(ctx context.Context, id uuid.UUID) (*models.StockTake, error) {
	stockTake, err := s.stockTakeRepo.Close(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.DeleteActiveStockTake(ctx, stockTake.CompanyID, stockTake.WarehouseID); cacheErr != nil {
		log.Printf("failed to invalidate active stock take cache %s/%s: %v", stockTake.CompanyID, stockTake.WarehouseID, cacheErr)
	}

	if s.reportService != nil {
		if reportErr := s.reportService.GenerateStockTakeReport(ctx, stockTake); reportErr != nil {
			log.Printf("failed to generate report for stock take %s: %v", stockTake.ID, reportErr)
		}
	}
	return stockTake, nil
}

func (s *stockTakeService) FindOpen(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error) {
	if cached, err := s.cacheService.GetActiveStockTake(ctx, companyID, warehouseID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("active stock take cache error %s/%s: %v", companyID, warehouseID, err)
	}

	stockTake, err := s.stockTakeRepo.FindOpen(ctx, companyID, warehouseID)
	if err != nil || stockTake == nil {
		return stockTake, err
	}

	if cacheErr := s.cacheService.SetActiveStockTake(ctx, stockTake, activeStockTakeTTL); cacheErr != nil {
		log.Printf("failed to cache active stock take %s: %v", stockTake.ID, cacheErr)
	}
	return stockTake, nil
}

func (s *stockTakeService) GetByID(ctx context.Context, id uuid.UUID) (*models.StockTake, error) {
	return s.stockTakeRepo.GetByID(ctx, id)
}

func (s *stockTakeService) List(ctx context.Context, filter *models.StockTakeFilter) ([]*models.StockTake, error) {
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	return s.stockTakeRepo.List(ctx, filter)
}
