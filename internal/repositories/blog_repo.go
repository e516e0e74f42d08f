package repositories

import (
	"context"
	"errors"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
)

type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id int64) (*models.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.BlogPost, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	SetPublished(ctx context.Context, id int64, published bool) error
	Delete(ctx context.Context, id int64) error
}

type blogRepo struct {
	db database.Querier
}

func NewBlogRepository(db database.Querier) BlogRepository {
	return &blogRepo{db: db}
}

const blogColumns = `id, title, slug, excerpt, content, cover_image, is_published, published_at, created_at, updated_at`

func scanBlogPost(row pgx.Row) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.Content, &post.CoverImage, &post.IsPublished, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *blogRepo) Create(ctx context.Context, post *models.BlogPost) error {
	query := `
		INSERT INTO blog_posts (title, slug, excerpt, content, cover_image, is_published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, post.Title, post.Slug, post.Excerpt, post.Content, post.CoverImage, post.IsPublished, post.PublishedAt).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *blogRepo) GetByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	post, err := scanBlogPost(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return post, err
}

func (r *blogRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := scanBlogPost(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1 AND is_published = true`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return post, err
}

func (r *blogRepo) ListPublished(ctx context.Context, limit, offset int) ([]*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE is_published = true ORDER BY published_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *blogRepo) ListAll(ctx context.Context, limit, offset int) ([]*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *blogRepo) list(ctx context.Context, query string, limit, offset int) ([]*models.BlogPost, error) {
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.BlogPost
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *blogRepo) Update(ctx context.Context, post *models.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $1, slug = $2, excerpt = $3, content = $4, cover_image = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, post.Title, post.Slug, post.Excerpt, post.Content, post.CoverImage, post.ID)
	return err
}

func (r *blogRepo) SetPublished(ctx context.Context, id int64, published bool) error {
	query := `
		UPDATE blog_posts
		SET is_published = $1,
		    published_at = CASE WHEN $1 AND published_at IS NULL THEN NOW() ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, published, id)
	return err
}

func (r *blogRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	return err
}
