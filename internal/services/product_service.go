package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"scentlab/internal/caching"
	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
)

const productCacheTTL = 10 * time.Minute

type ProductServiceInterface interface {
	Create(ctx context.Context, product *models.Product) error
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, activeOnly bool, categoryID *int64, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id int64, update *models.ProductUpdate) (*models.Product, error)
	Deactivate(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta int) error
	AddImage(ctx context.Context, image *models.ProductImage) error
	DeleteImage(ctx context.Context, productID, imageID int64) error
}

type productService struct {
	productRepo repositories.ProductRepository
	imageRepo   repositories.ProductImageRepository
	cacheSvc    caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, imageRepo repositories.ProductImageRepository, cacheSvc caching.CacheService) ProductServiceInterface {
	return &productService{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if product.Slug == "" {
		product.Slug = common.Slugify(product.Name)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if product.StockQuantity < 0 {
		return fmt.Errorf("stock_quantity cannot be negative")
	}
	product.IsActive = true
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if cached, err := s.cacheSvc.GetProduct(ctx, slug); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil || product == nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByProductID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.Images = images

	if cacheErr := s.cacheSvc.SetProduct(ctx, product, productCacheTTL); cacheErr != nil {
		log.Printf("WARN: failed to cache product %s: %v", slug, cacheErr)
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByProductID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = images
	return product, nil
}

func (s *productService) List(ctx context.Context, activeOnly bool, categoryID *int64, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, activeOnly, categoryID, limit, offset)
}

// Update applies the non-nil fields of the update payload and invalidates
// the cache entry. Stock is deliberately excluded here; it only moves
// through AdjustStock and order placement.
func (s *productService) Update(ctx context.Context, id int64, update *models.ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if update.CategoryID != nil {
		product.CategoryID = update.CategoryID
	}
	if update.Name != nil {
		product.Name = *update.Name
		product.Slug = common.Slugify(*update.Name)
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Brand != nil {
		product.Brand = *update.Brand
	}
	if update.ScentNotes != nil {
		product.ScentNotes = *update.ScentNotes
	}
	if update.VolumeML != nil {
		product.VolumeML = *update.VolumeML
	}
	if update.Price != nil {
		if update.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative")
		}
		product.Price = *update.Price
	}
	if update.IsActive != nil {
		product.IsActive = *update.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

// Deactivate soft-deletes; order items keep their product reference.
func (s *productService) Deactivate(ctx context.Context, id int64) error {
	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, id int64, delta int) error {
	if delta >= 0 {
		if err := s.productRepo.IncrementStock(ctx, id, delta); err != nil {
			return err
		}
	} else {
		debited, err := s.productRepo.DecrementStock(ctx, id, -delta)
		if err != nil {
			return err
		}
		if !debited {
			return fmt.Errorf("stock adjustment would drop product %d below zero", id)
		}
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) AddImage(ctx context.Context, image *models.ProductImage) error {
	if image.IsPrimary {
		if err := s.imageRepo.ClearPrimary(ctx, image.ProductID); err != nil {
			return err
		}
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) DeleteImage(ctx context.Context, productID, imageID int64) error {
	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) invalidate(ctx context.Context) {
	if err := s.cacheSvc.InvalidateProducts(ctx); err != nil {
		log.Printf("WARN: failed to invalidate product cache: %v", err)
	}
}
