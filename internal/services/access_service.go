package services

import (
	"context"
	"errors"
	"log"

	"stockaudit/internal/common"
	"stockaudit/internal/repositories"

	"github.com/google/uuid"
)

// AccessService answers whether a principal may act on a warehouse or
// company scope. All methods are predicates; the calling workflow decides
// what a negative answer means.
type AccessService interface {
	ManagerCanActOnWarehouse(ctx context.Context, managerID, warehouseID uuid.UUID) bool
	ManagerGrantExists(ctx context.Context, managerID, companyID uuid.UUID) (bool, error)
	CounterGrantExists(ctx context.Context, email string, companyID uuid.UUID) (bool, error)
}

type accessService struct {
	managerRepo repositories.ManagerRepository
	grantRepo   repositories.AccessGrantRepository
}

func NewAccessService(managerRepo repositories.ManagerRepository, grantRepo repositories.AccessGrantRepository) AccessService {
	return &accessService{managerRepo: managerRepo, grantRepo: grantRepo}
}

// ManagerCanActOnWarehouse is true iff the manager exists, is active, and is
// assigned to the warehouse. An inactive manager never authorizes.
func (s *accessService) ManagerCanActOnWarehouse(ctx context.Context, managerID, warehouseID uuid.UUID) bool {
	manager, err := s.managerRepo.GetByID(ctx, managerID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Printf("access check failed for manager %s: %v", managerID, err)
		}
		return false
	}
	return manager.Active && manager.WarehouseID == warehouseID
}

func (s *accessService) ManagerGrantExists(ctx context.Context, managerID, companyID uuid.UUID) (bool, error) {
	return s.grantRepo.ManagerGrantExists(ctx, managerID, companyID)
}

func (s *accessService) CounterGrantExists(ctx context.Context, email string, companyID uuid.UUID) (bool, error) {
	return s.grantRepo.CounterGrantExists(ctx, email, companyID)
}
