package repositories

import (
	"context"
	"errors"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BinLocationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.BinLocation, error)
	GetByCode(ctx context.Context, warehouseID uuid.UUID, code string) (*models.BinLocation, error)
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, limit, offset int) ([]*models.BinLocation, error)
}

type binLocationRepo struct {
	db DB
}

func NewBinLocationRepository(db DB) BinLocationRepository {
	return &binLocationRepo{db: db}
}

const binLocationColumns = "id, warehouse_id, code, description, created_at, updated_at"

func scanBinLocation(row pgx.Row) (*models.BinLocation, error) {
	b := &models.BinLocation{}
	err := row.Scan(&b.ID, &b.WarehouseID, &b.Code, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *binLocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BinLocation, error) {
	query := `
		SELECT ` + binLocationColumns + `
		FROM bin_locations
		WHERE id = $1
	`
	b, err := scanBinLocation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByCode resolves a scanned bin code within a warehouse.
func (r *binLocationRepo) GetByCode(ctx context.Context, warehouseID uuid.UUID, code string) (*models.BinLocation, error) {
	query := `
		SELECT ` + binLocationColumns + `
		FROM bin_locations
		WHERE warehouse_id = $1 AND code = $2
	`
	b, err := scanBinLocation(r.db.QueryRow(ctx, query, warehouseID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *binLocationRepo) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, limit, offset int) ([]*models.BinLocation, error) {
	query := `
		SELECT ` + binLocationColumns + `
		FROM bin_locations
		WHERE warehouse_id = $1
		ORDER BY code ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bins []*models.BinLocation
	for rows.Next() {
		b, err := scanBinLocation(rows)
		if err != nil {
			return nil, err
		}
		bins = append(bins, b)
	}
	return bins, rows.Err()
}
