package repositories

import (
	"context"
	"errors"
	"fmt"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StockTakeRepository interface {
	Create(ctx context.Context, stockTake *models.StockTake) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StockTake, error)
	FindOpen(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error)
	Close(ctx context.Context, id uuid.UUID) (*models.StockTake, error)
	List(ctx context.Context, filter *models.StockTakeFilter) ([]*models.StockTake, error)
	ListOpenBefore(ctx context.Context, cutoff string) ([]*models.StockTake, error)
}

type stockTakeRepo struct {
	db DB
}

func NewStockTakeRepository(db DB) StockTakeRepository {
	return &stockTakeRepo{db: db}
}

const stockTakeColumns = "id, company_id, warehouse_id, opened_by_manager_id, notes, status, opened_at, closed_at"

func scanStockTake(row pgx.Row) (*models.StockTake, error) {
	st := &models.StockTake{}
	err := row.Scan(&st.ID, &st.CompanyID, &st.WarehouseID, &st.OpenedByManagerID, &st.Notes, &st.Status, &st.OpenedAt, &st.ClosedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Create inserts a new open stock take. The partial unique index
// ux_stock_takes_open serializes concurrent opens for the same company and
// warehouse; a violation surfaces as ErrStockTakeAlreadyOpen.
func (r *stockTakeRepo) Create(ctx context.Context, stockTake *models.StockTake) error {
	query := `
		INSERT INTO stock_takes (id, company_id, warehouse_id, opened_by_manager_id, notes, status, opened_at)
		VALUES ($1, $2, $3, $4, $5, 'open', NOW())
	`
	_, err := r.db.Exec(ctx, query, stockTake.ID, stockTake.CompanyID, stockTake.WarehouseID, stockTake.OpenedByManagerID, stockTake.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrStockTakeAlreadyOpen
		}
		return err
	}
	stockTake.Status = models.StockTakeStatusOpen
	return nil
}

func (r *stockTakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StockTake, error) {
	query := `
		SELECT ` + stockTakeColumns + `
		FROM stock_takes
		WHERE id = $1
	`
	st, err := scanStockTake(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

// FindOpen returns the active stock take for the pair, or nil when none.
func (r *stockTakeRepo) FindOpen(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error) {
	query := `
		SELECT ` + stockTakeColumns + `
		FROM stock_takes
		WHERE company_id = $1 AND warehouse_id = $2 AND status = 'open'
	`
	st, err := scanStockTake(r.db.QueryRow(ctx, query, companyID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

// Close transitions a stock take to closed. Closing an already-closed take is
// a no-op that keeps the original closed_at stamp.
func (r *stockTakeRepo) Close(ctx context.Context, id uuid.UUID) (*models.StockTake, error) {
	query := `
		UPDATE stock_takes
		SET status = 'closed', closed_at = COALESCE(closed_at, NOW())
		WHERE id = $1
		RETURNING ` + stockTakeColumns + `
	`
	st, err := scanStockTake(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (r *stockTakeRepo) List(ctx context.Context, filter *models.StockTakeFilter) ([]*models.StockTake, error) {
	query := `
		SELECT ` + stockTakeColumns + `
		FROM stock_takes
		WHERE 1=1
	`
	args := []any{}
	argPos := 1
	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argPos)
		args = append(args, *filter.CompanyID)
		argPos++
	}
	if filter.WarehouseID != nil {
		query += fmt.Sprintf(" AND warehouse_id = $%d", argPos)
		args = append(args, *filter.WarehouseID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	query += fmt.Sprintf(" ORDER BY opened_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stockTakes []*models.StockTake
	for rows.Next() {
		st, err := scanStockTake(rows)
		if err != nil {
			return nil, err
		}
		stockTakes = append(stockTakes, st)
	}
	return stockTakes, rows.Err()
}

// ListOpenBefore returns open stock takes opened before the cutoff interval,
// e.g. "7 days". Used by the stale-take alert job.
func (r *stockTakeRepo) ListOpenBefore(ctx context.Context, cutoff string) ([]*models.StockTake, error) {
	query := `
		SELECT ` + stockTakeColumns + `
		FROM stock_takes
		WHERE status = 'open' AND opened_at < NOW() - $1::interval
		ORDER BY opened_at ASC
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stockTakes []*models.StockTake
	for rows.Next() {
		st, err := scanStockTake(rows)
		if err != nil {
			return nil, err
		}
		stockTakes = append(stockTakes, st)
	}
	return stockTakes, rows.Err()
}
