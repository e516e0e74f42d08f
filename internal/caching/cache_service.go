package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"scentlab/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Product caching
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, slug string) error
	InvalidateProducts(ctx context.Context) error

	// Blog caching
	GetBlogPost(ctx context.Context, slug string) (*models.BlogPost, error)
	SetBlogPost(ctx context.Context, post *models.BlogPost, ttl time.Duration) error
	DeleteBlogPost(ctx context.Context, slug string) error

	// Dashboard stats caching
	GetDashboardStats(ctx context.Context) (map[string]interface{}, error)
	SetDashboardStats(ctx context.Context, stats map[string]interface{}, ttl time.Duration) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, addr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func productKey(slug string) string {
	return fmt.Sprintf("scentlab:product:%s", slug)
}

func blogKey(slug string) string {
	return fmt.Sprintf("scentlab:blog:%s", slug)
}

const dashboardKey = "scentlab:dashboard:stats"

func (r *redisCacheService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	hit, err := r.getJSON(ctx, productKey(slug), &product)
	if err != nil || !hit {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	return r.setJSON(ctx, productKey(product.Slug), product, ttl)
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, slug string) error {
	return r.client.Del(ctx, productKey(slug)).Err()
}

// InvalidateProducts drops every cached product entry. Used after bulk or
// slug-changing mutations where single-key deletes are not enough.
func (r *redisCacheService) InvalidateProducts(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "scentlab:product:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *redisCacheService) GetBlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	hit, err := r.getJSON(ctx, blogKey(slug), &post)
	if err != nil || !hit {
		return nil, err
	}
	return &post, nil
}

func (r *redisCacheService) SetBlogPost(ctx context.Context, post *models.BlogPost, ttl time.Duration) error {
	return r.setJSON(ctx, blogKey(post.Slug), post, ttl)
}

func (r *redisCacheService) DeleteBlogPost(ctx context.Context, slug string) error {
	return r.client.Del(ctx, blogKey(slug)).Err()
}

func (r *redisCacheService) GetDashboardStats(ctx context.Context) (map[string]interface{}, error) {
	var stats map[string]interface{}
	hit, err := r.getJSON(ctx, dashboardKey, &stats)
	if err != nil || !hit {
		return nil, err
	}
	return stats, nil
}

func (r *redisCacheService) SetDashboardStats(ctx context.Context, stats map[string]interface{}, ttl time.Duration) error {
	return r.setJSON(ctx, dashboardKey, stats, ttl)
}
