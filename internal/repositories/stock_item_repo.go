package repositories

import (
	"context"

	"stockaudit/internal/models"

	"github.com/google/uuid"
)

type StockItemRepository interface {
	ListByStockTake(ctx context.Context, stockTakeID uuid.UUID) ([]*models.StockItem, error)
}

type stockItemRepo struct {
	db DB
}

func NewStockItemRepository(db DB) StockItemRepository {
	return &stockItemRepo{db: db}
}

func (r *stockItemRepo) ListByStockTake(ctx context.Context, stockTakeID uuid.UUID) ([]*models.StockItem, error) {
	query := `
		SELECT id, company_id, warehouse_id, stock_take_id, bin_location_id, item_code, item_name, quantity, counted_by_manager_id, count_date, created_at
		FROM stock_items
		WHERE stock_take_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, stockTakeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.StockItem
	for rows.Next() {
		item := &models.StockItem{}
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.WarehouseID, &item.StockTakeID, &item.BinLocationID, &item.ItemCode, &item.ItemName, &item.Quantity, &item.CountedByManagerID, &item.CountDate, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
