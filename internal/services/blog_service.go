package services

import (
	"context"
	"log"
	"time"

	"scentlab/internal/caching"
	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
)

const blogCacheTTL = 15 * time.Minute

type BlogServiceInterface interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	GetByID(ctx context.Context, id int64) (*models.BlogPost, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.BlogPost, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.BlogPost, error)
	Update(ctx context.Context, id int64, update *models.BlogPostUpdate) (*models.BlogPost, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	Delete(ctx context.Context, id int64) error
}

type blogService struct {
	blogRepo repositories.BlogRepository
	cacheSvc caching.CacheService
}

func NewBlogService(blogRepo repositories.BlogRepository, cacheSvc caching.CacheService) BlogServiceInterface {
	return &blogService{blogRepo: blogRepo, cacheSvc: cacheSvc}
}

func (s *blogService) Create(ctx context.Context, post *models.BlogPost) error {
	if post.Slug == "" {
		post.Slug = common.Slugify(post.Title)
	}
	return s.blogRepo.Create(ctx, post)
}

func (s *blogService) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if cached, err := s.cacheSvc.GetBlogPost(ctx, slug); err == nil && cached != nil {
		return cached, nil
	}

	post, err := s.blogRepo.GetPublishedBySlug(ctx, slug)
	if err != nil || post == nil {
		return nil, err
	}
	if cacheErr := s.cacheSvc.SetBlogPost(ctx, post, blogCacheTTL); cacheErr != nil {
		log.Printf("WARN: failed to cache blog post %s: %v", slug, cacheErr)
	}
	return post, nil
}

func (s *blogService) GetByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	return s.blogRepo.GetByID(ctx, id)
}

func (s *blogService) ListPublished(ctx context.Context, limit, offset int) ([]*models.BlogPost, error) {
	return s.blogRepo.ListPublished(ctx, limit, offset)
}

func (s *blogService) ListAll(ctx context.Context, limit, offset int) ([]*models.BlogPost, error) {
	return s.blogRepo.ListAll(ctx, limit, offset)
}

func (s *blogService) Update(ctx context.Context, id int64, update *models.BlogPostUpdate) (*models.BlogPost, error) {
	post, err := s.blogRepo.GetByID(ctx, id)
	if err != nil || post == nil {
		return nil, err
	}

	oldSlug := post.Slug
	if update.Title != nil {
		post.Title = *update.Title
		post.Slug = common.Slugify(*update.Title)
	}
	if update.Excerpt != nil {
		post.Excerpt = *update.Excerpt
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.CoverImage != nil {
		post.CoverImage = update.CoverImage
	}

	if err := s.blogRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.dropFromCache(ctx, oldSlug)
	return post, nil
}

func (s *blogService) SetPublished(ctx context.Context, id int64, published bool) error {
	post, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}
	if err := s.blogRepo.SetPublished(ctx, id, published); err != nil {
		return err
	}
	s.dropFromCache(ctx, post.Slug)
	return nil
}

func (s *blogService) Delete(ctx context.Context, id int64) error {
	post, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}
	if err := s.blogRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropFromCache(ctx, post.Slug)
	return nil
}

func (s *blogService) dropFromCache(ctx context.Context, slug string) {
	if err := s.cacheSvc.DeleteBlogPost(ctx, slug); err != nil {
		log.Printf("WARN: failed to invalidate blog cache for %s: %v", slug, err)
	}
}
