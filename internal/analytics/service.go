package analytics

import (
	"context"
	"log"
	"time"

	"scentlab/internal/caching"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
)

const (
	dashboardCacheTTL = 5 * time.Minute
	lowStockThreshold = 5
)

// DashboardService aggregates back-office dashboard numbers and caches them
// in Redis between refreshes.
type DashboardService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	feedbackRepo repositories.FeedbackRepository
	cacheSvc     caching.CacheService
}

func NewDashboardService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, feedbackRepo repositories.FeedbackRepository, cacheSvc caching.CacheService) *DashboardService {
	return &DashboardService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		feedbackRepo: feedbackRepo,
		cacheSvc:     cacheSvc,
	}
}

// Stats returns the cached dashboard aggregates, recomputing on a miss.
func (s *DashboardService) Stats(ctx context.Context) (map[string]interface{}, error) {
	if cached, err := s.cacheSvc.GetDashboardStats(ctx); err == nil && cached != nil {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the aggregates and rewrites the cache entry.
func (s *DashboardService) Refresh(ctx context.Context) (map[string]interface{}, error) {
	statusCounts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	monthStart := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	revenue, err := s.orderRepo.RevenueSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.ListLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}

	newFeedback, err := s.feedbackRepo.CountByStatus(ctx, models.FeedbackStatusNew)
	if err != nil {
		return nil, err
	}

	totalOrders := 0
	for _, count := range statusCounts {
		totalOrders += count
	}

	stats := map[string]interface{}{
		"total_orders":       totalOrders,
		"status_breakdown":   statusCounts,
		"revenue_30d":        revenue,
		"low_stock_count":    len(lowStock),
		"new_feedback_count": newFeedback,
		"refreshed_at":       time.Now().UTC().Format(time.RFC3339),
	}

	if cacheErr := s.cacheSvc.SetDashboardStats(ctx, stats, dashboardCacheTTL); cacheErr != nil {
		log.Printf("WARN: failed to cache dashboard stats: %v", cacheErr)
	}
	return stats, nil
}
