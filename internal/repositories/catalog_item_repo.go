package repositories

import (
	"context"
	"errors"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CatalogItemRepository interface {
	GetByCode(ctx context.Context, companyID uuid.UUID, code string) (*models.CatalogItem, error)
}

type catalogItemRepo struct {
	db DB
}

func NewCatalogItemRepository(db DB) CatalogItemRepository {
	return &catalogItemRepo{db: db}
}

func (r *catalogItemRepo) GetByCode(ctx context.Context, companyID uuid.UUID, code string) (*models.CatalogItem, error) {
	item := &models.CatalogItem{}
	query := `
		SELECT id, company_id, code, name, created_at, updated_at
		FROM catalog_items
		WHERE company_id = $1 AND code = $2
	`
	err := r.db.QueryRow(ctx, query, companyID, code).Scan(&item.ID, &item.CompanyID, &item.Code, &item.Name, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}
