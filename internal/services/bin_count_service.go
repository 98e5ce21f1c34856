package services

import (
	"context"
	"errors"
	"log"

	"stockaudit/internal/common"
	"stockaudit/internal/models"
	"stockaudit/internal/repositories"

	"github.com/google/uuid"
)

// BinCountService stages per-bin item counts inside an open stock take and
// atomically promotes them into the permanent ledger on submission.
type BinCountService interface {
	AddCount(ctx context.Context, req *AddCountRequest) (*models.BinLocationCount, error)
	SubmitBin(ctx context.Context, binLocationID, stockTakeID uuid.UUID, submittedBy *uuid.UUID) (*models.SubmitResult, error)
	DeleteUnsubmitted(ctx context.Context, id uuid.UUID) error
	ListCounts(ctx context.Context, filter *models.BinCountFilter) ([]*models.BinLocationCount, error)
}

// AddCountRequest carries one staged count. Quantity must be non-negative;
// the zero value is a valid empty-bin count. CountedBy is optional: anonymous
// counting is an explicit policy, and the scope check only runs when a
// manager is named.
type AddCountRequest struct {
	StockTakeID   uuid.UUID
	BinLocationID uuid.UUID
	ItemCode      string
	ItemName      *string
	Quantity      int
	CountedBy     *uuid.UUID
}

type binCountService struct {
	binCountRepo    repositories.BinCountRepository
	stockTakeRepo   repositories.StockTakeRepository
	binLocationRepo repositories.BinLocationRepository
	catalogRepo     repositories.CatalogItemRepository
	accessService   AccessService
}

func NewBinCountService(
	binCountRepo repositories.BinCountRepository,
	stockTakeRepo repositories.StockTakeRepository,
	binLocationRepo repositories.BinLocationRepository,
	catalogRepo repositories.CatalogItemRepository,
	accessService AccessService,
) BinCountService {
	return &binCountService{
		binCountRepo:    binCountRepo,
		stockTakeRepo:   stockTakeRepo,
		binLocationRepo: binLocationRepo,
		catalogRepo:     catalogRepo,
		accessService:   accessService,
	}
}

func (s *binCountService) AddCount(ctx context.Context, req *AddCountRequest) (*models.BinLocationCount, error) {
	stockTake, err := s.stockTakeRepo.GetByID(ctx, req.StockTakeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrStockTakeNotOpen
		}
		return nil, err
	}
	if stockTake.Status != models.StockTakeStatusOpen {
		return nil, common.ErrStockTakeNotOpen
	}

	bin, err := s.binLocationRepo.GetByID(ctx, req.BinLocationID)
	if err != nil {
		return nil, err
	}
	// A count can never be staged against a bin outside the stock take's own
	// warehouse.
	if bin.WarehouseID != stockTake.WarehouseID {
		return nil, common.ErrBinMismatch
	}

	if req.CountedBy != nil && !s.accessService.ManagerCanActOnWarehouse(ctx, *req.CountedBy, stockTake.WarehouseID) {
		return nil, common.ErrManagerNotPermitted
	}

	itemName := req.ItemName
	if itemName == nil {
		if catalogItem, lookupErr := s.catalogRepo.GetByCode(ctx, stockTake.CompanyID, req.ItemCode); lookupErr == nil {
			itemName = &catalogItem.Name
		} else if !errors.Is(lookupErr, common.ErrNotFound) {
			log.Printf("catalog lookup failed for %q: %v", req.ItemCode, lookupErr)
		}
	}

	quantity := req.Quantity
	if quantity < 0 {
		quantity = 0
	}

	count := &models.BinLocationCount{
		ID:                 uuid.New(),
		StockTakeID:        stockTake.ID,
		BinLocationID:      bin.ID,
		ItemCode:           req.ItemCode,
		ItemName:           itemName,
		Quantity:           quantity,
		CountedByManagerID: req.CountedBy,
	}
	if err := s.binCountRepo.Create(ctx, count); err != nil {
		return nil, err
	}
	return s.binCountRepo.GetByID(ctx, count.ID)
}

// SubmitBin promotes all unsubmitted counts for the bin in one transaction.
// The stock take must exist but is not required to still be open; a
// supervisor may finish reconciling after closing it.
func (s *binCountService) SubmitBin(ctx context.Context, binLocationID, stockTakeID uuid.UUID, submittedBy *uuid.UUID) (*models.SubmitResult, error) {
	stockTake, err := s.stockTakeRepo.GetByID(ctx, stockTakeID)
	if err != nil {
		return nil, err
	}

	if submittedBy != nil && !s.accessService.ManagerCanActOnWarehouse(ctx, *submittedBy, stockTake.WarehouseID) {
		return nil, common.ErrManagerNotPermitted
	}

	return s.binCountRepo.SubmitBin(ctx, stockTake, binLocationID, submittedBy)
}

func (s *binCountService) DeleteUnsubmitted(ctx context.Context, id uuid.UUID) error {
	return s.binCountRepo.DeleteUnsubmitted(ctx, id)
}

func (s *binCountService) ListCounts(ctx context.Context, filter *models.BinCountFilter) ([]*models.BinLocationCount, error) {
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	return s.binCountRepo.List(ctx, filter)
}
