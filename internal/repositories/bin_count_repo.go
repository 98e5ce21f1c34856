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

type BinCountRepository interface {
	Create(ctx context.Context, count *models.BinLocationCount) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BinLocationCount, error)
	DeleteUnsubmitted(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.BinCountFilter) ([]*models.BinLocationCount, error)
	SubmitBin(ctx context.Context, stockTake *models.StockTake, binLocationID uuid.UUID, submittedBy *uuid.UUID) (*models.SubmitResult, error)
}

type binCountRepo struct {
	db DB
}

func NewBinCountRepository(db DB) BinCountRepository {
	return &binCountRepo{db: db}
}

const binCountColumns = "id, stock_take_id, bin_location_id, item_code, item_name, quantity, counted_by_manager_id, submitted, created_at, submitted_at"

func scanBinCount(row pgx.Row) (*models.BinLocationCount, error) {
	bc := &models.BinLocationCount{}
	err := row.Scan(&bc.ID, &bc.StockTakeID, &bc.BinLocationID, &bc.ItemCode, &bc.ItemName, &bc.Quantity, &bc.CountedByManagerID, &bc.Submitted, &bc.CreatedAt, &bc.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return bc, nil
}

func (r *binCountRepo) Create(ctx context.Context, count *models.BinLocationCount) error {
	query := `
		INSERT INTO bin_location_counts (id, stock_take_id, bin_location_id, item_code, item_name, quantity, counted_by_manager_id, submitted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, NOW())
	`
	_, err := r.db.Exec(ctx, query, count.ID, count.StockTakeID, count.BinLocationID, count.ItemCode, count.ItemName, count.Quantity, count.CountedByManagerID)
	return err
}

func (r *binCountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BinLocationCount, error) {
	query := `
		SELECT ` + binCountColumns + `
		FROM bin_location_counts
		WHERE id = $1
	`
	bc, err := scanBinCount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return bc, nil
}

// DeleteUnsubmitted removes a staged row. The submitted guard lives in the
// statement itself so a submitted row can never be deleted, even under a
// concurrent submit.
func (r *binCountRepo) DeleteUnsubmitted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bin_location_counts WHERE id = $1 AND submitted = false`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a submitted one.
		var submitted bool
		err := r.db.QueryRow(ctx, `SELECT submitted FROM bin_location_counts WHERE id = $1`, id).Scan(&submitted)
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return err
		}
		return common.ErrAlreadySubmitted
	}
	return nil
}

func (r *binCountRepo) List(ctx context.Context, filter *models.BinCountFilter) ([]*models.BinLocationCount, error) {
	query := `
		SELECT ` + binCountColumns + `
		FROM bin_location_counts
		WHERE 1=1
	`
	args := []any{}
	argPos := 1
	if filter.StockTakeID != nil {
		query += fmt.Sprintf(" AND stock_take_id = $%d", argPos)
		args = append(args, *filter.StockTakeID)
		argPos++
	}
	if filter.BinLocationID != nil {
		query += fmt.Sprintf(" AND bin_location_id = $%d", argPos)
		args = append(args, *filter.BinLocationID)
		argPos++
	}
	if filter.SubmittedOnly {
		query += " AND submitted = true"
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.BinLocationCount
	for rows.Next() {
		bc, err := scanBinCount(rows)
		if err != nil {
			return nil, err
		}
		counts = append(counts, bc)
	}
	return counts, rows.Err()
}

// SubmitBin promotes every unsubmitted count for the bin into stock_items and
// marks the rows submitted, all inside one transaction. Either every staged
// row for the bin moves, or none do; a retry after failure sees the same
// unsubmitted set.
func (r *binCountRepo) SubmitBin(ctx context.Context, stockTake *models.StockTake, binLocationID uuid.UUID, submittedBy *uuid.UUID) (*models.SubmitResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT `+binCountColumns+`
		FROM bin_location_counts
		WHERE bin_location_id = $1 AND stock_take_id = $2 AND submitted = false
		ORDER BY created_at ASC
		FOR UPDATE
	`, binLocationID, stockTake.ID)
	if err != nil {
		return nil, err
	}
	var staged []*models.BinLocationCount
	for rows.Next() {
		bc, err := scanBinCount(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		staged = append(staged, bc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return nil, common.ErrNothingToSubmit
	}

	result := &models.SubmitResult{Items: make([]*models.StockItem, 0, len(staged))}
	for _, bc := range staged {
		// The submission-time manager overrides the original counter.
		countedBy := bc.CountedByManagerID
		if submittedBy != nil {
			countedBy = submittedBy
		}

		item := &models.StockItem{
			ID:                 uuid.New(),
			CompanyID:          stockTake.CompanyID,
			WarehouseID:        stockTake.WarehouseID,
			StockTakeID:        stockTake.ID,
			BinLocationID:      bc.BinLocationID,
			ItemCode:           bc.ItemCode,
			ItemName:           bc.ItemName,
			Quantity:           bc.Quantity,
			CountedByManagerID: countedBy,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO stock_items (id, company_id, warehouse_id, stock_take_id, bin_location_id, item_code, item_name, quantity, counted_by_manager_id, count_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_DATE, NOW())
			RETURNING count_date, created_at
		`, item.ID, item.CompanyID, item.WarehouseID, item.StockTakeID, item.BinLocationID, item.ItemCode, item.ItemName, item.Quantity, item.CountedByManagerID).
			Scan(&item.CountDate, &item.CreatedAt)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE bin_location_counts
			SET submitted = true, submitted_at = NOW()
			WHERE id = $1
		`, bc.ID)
		if err != nil {
			return nil, err
		}

		result.Items = append(result.Items, item)
	}
	result.ItemsSubmitted = len(result.Items)

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
