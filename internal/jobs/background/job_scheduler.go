package background

import (
	"context"
	"log"
	"time"

	"stockaudit/internal/caching"
	"stockaudit/internal/models"
	"stockaudit/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

const staleOpenCutoff = "7 days"

// JobScheduler runs the service's periodic maintenance jobs.
type JobScheduler struct {
	scheduler     gocron.Scheduler
	stockTakeRepo repositories.StockTakeRepository
	cacheSvc      caching.CacheService
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(stockTakeRepo repositories.StockTakeRepository, cacheSvc caching.CacheService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		stockTakeRepo: stockTakeRepo,
		cacheSvc:      cacheSvc,
	}
	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Stale stock-take alerts - every hour
	if _, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.alertStaleOpenStockTakes),
		gocron.WithName("stale-stock-take-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		log.Printf("Failed to create stale stock-take job: %v", err)
	}

	// Active stock-take cache warming - every 15 minutes
	if _, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.warmActiveStockTakeCache),
		gocron.WithName("active-stock-take-cache-warm"),
	); err != nil {
		log.Printf("Failed to create cache warm job: %v", err)
	}
}

// alertStaleOpenStockTakes flags audit sessions that were opened long ago and
// never closed; these usually mean a supervisor forgot the final close.
func (js *JobScheduler) alertStaleOpenStockTakes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stale, err := js.stockTakeRepo.ListOpenBefore(ctx, staleOpenCutoff)
	if err != nil {
		log.Printf("stale stock-take scan failed: %v", err)
		return
	}
	for _, st := range stale {
		log.Printf("WARN: stock take %s (company %s, warehouse %s) has been open since %s",
			st.ID, st.CompanyID, st.WarehouseID, st.OpenedAt.Format(time.RFC3339))
	}
}

// warmActiveStockTakeCache refreshes the cache entry for every open take so
// the hot find-active path rarely misses.
func (js *JobScheduler) warmActiveStockTakeCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status := models.StockTakeStatusOpen
	open, err := js.stockTakeRepo.List(ctx, &models.StockTakeFilter{Status: &status, Limit: 500})
	if err != nil {
		log.Printf("active stock-take cache warm failed: %v", err)
		return
	}
	for _, st := range open {
		if err := js.cacheSvc.SetActiveStockTake(ctx, st, 20*time.Minute); err != nil {
			log.Printf("failed to warm cache for stock take %s: %v", st.ID, err)
		}
	}
}
