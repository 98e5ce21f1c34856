package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stockaudit/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService fronts the active-stock-take read path. Cache failures are
// never fatal; callers fall back to the database.
type CacheService interface {
	GetActiveStockTake(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error)
	SetActiveStockTake(ctx context.Context, stockTake *models.StockTake, ttl time.Duration) error
	DeleteActiveStockTake(ctx context.Context, companyID, warehouseID uuid.UUID) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func activeStockTakeKey(companyID, warehouseID uuid.UUID) string {
	return fmt.Sprintf("stocktake:active:%s:%s", companyID.String(), warehouseID.String())
}

func (s *redisCacheService) GetActiveStockTake(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error) {
	data, err := s.client.Get(ctx, activeStockTakeKey(companyID, warehouseID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stockTake models.StockTake
	if err := json.Unmarshal([]byte(data), &stockTake); err != nil {
		return nil, err
	}
	return &stockTake, nil
}

func (s *redisCacheService) SetActiveStockTake(ctx context.Context, stockTake *models.StockTake, ttl time.Duration) error {
	data, err := json.Marshal(stockTake)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, activeStockTakeKey(stockTake.CompanyID, stockTake.WarehouseID), data, ttl).Err()
}

func (s *redisCacheService) DeleteActiveStockTake(ctx context.Context, companyID, warehouseID uuid.UUID) error {
	return s.client.Del(ctx, activeStockTakeKey(companyID, warehouseID)).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
