package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"stockaudit/internal/models"
	"stockaudit/internal/repositories"

	"github.com/google/uuid"
)

// ReportService renders a closed stock take's permanent ledger rows as a CSV
// report and stores it in object storage.
type ReportService interface {
	GenerateStockTakeReport(ctx context.Context, stockTake *models.StockTake) error
	ReportURL(ctx context.Context, stockTakeID uuid.UUID) (string, error)
}

type reportService struct {
	stockItemRepo repositories.StockItemRepository
	storage       ReportStorage
}

func NewReportService(stockItemRepo repositories.StockItemRepository, storage ReportStorage) ReportService {
	return &reportService{stockItemRepo: stockItemRepo, storage: storage}
}

func reportObjectName(stockTakeID uuid.UUID) string {
	return fmt.Sprintf("stock-takes/%s.csv", stockTakeID.String())
}

func (s *reportService) GenerateStockTakeReport(ctx context.Context, stockTake *models.StockTake) error {
	items, err := s.stockItemRepo.ListByStockTake(ctx, stockTake.ID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"bin_location_id", "item_code", "item_name", "quantity", "counted_by_manager_id", "count_date"})
	for _, item := range items {
		name := ""
		if item.ItemName != nil {
			name = *item.ItemName
		}
		countedBy := ""
		if item.CountedByManagerID != nil {
			countedBy = item.CountedByManagerID.String()
		}
		_ = w.Write([]string{
			item.BinLocationID.String(),
			item.ItemCode,
			name,
			strconv.Itoa(item.Quantity),
			countedBy,
			item.CountDate.Format("2006-01-02"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return s.storage.UploadReport(ctx, reportObjectName(stockTake.ID), buf.Bytes())
}

func (s *reportService) ReportURL(ctx context.Context, stockTakeID uuid.UUID) (string, error) {
	return s.storage.PresignedURL(ctx, reportObjectName(stockTakeID), 15*time.Minute)
}
