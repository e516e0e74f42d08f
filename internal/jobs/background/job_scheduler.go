package background

import (
	"context"
	"log"
	"sync"
	"time"

	"scentlab/internal/analytics"
	"scentlab/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

const lowStockThreshold = 5

// JobScheduler manages periodic back-office jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	dashboardSvc *analytics.DashboardService
	productRepo  repositories.ProductRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler.
func NewJobScheduler(dashboardSvc *analytics.DashboardService, productRepo repositories.ProductRepository) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		dashboardSvc: dashboardSvc,
		productRepo:  productRepo,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler.
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler.
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	dashboardJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboard, context.Background()),
		gocron.WithName("dashboard-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create dashboard refresh job: %v", err)
	} else {
		js.jobs["dashboard"] = dashboardJob
	}

	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.scanLowStock, context.Background()),
		gocron.WithName("low-stock-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low-stock scan job: %v", err)
	} else {
		js.jobs["low-stock"] = lowStockJob
	}
}

func (js *JobScheduler) refreshDashboard(ctx context.Context) {
	if _, err := js.dashboardSvc.Refresh(ctx); err != nil {
		log.Printf("Dashboard stats refresh failed: %v", err)
	}
}

func (js *JobScheduler) scanLowStock(ctx context.Context) {
	products, err := js.productRepo.ListLowStock(ctx, lowStockThreshold)
	if err != nil {
		log.Printf("Low-stock scan failed: %v", err)
		return
	}
	for _, product := range products {
		log.Printf("Low stock alert: %s (id=%d) has %d units left", product.Name, product.ID, product.StockQuantity)
	}
}
