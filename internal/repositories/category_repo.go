package repositories

import (
	"context"
	"errors"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

type categoryRepo struct {
	db database.Querier
}

func NewCategoryRepository(db database.Querier) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, category.Name, category.Slug, category.Description).Scan(&category.ID, &category.CreatedAt)
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, slug, description, created_at FROM categories WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.Slug, &category.Description, &category.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, name, slug, description, created_at FROM categories ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.Description, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = $1, slug = $2, description = $3 WHERE id = $4`
	_, err := r.db.Exec(ctx, query, category.Name, category.Slug, category.Description, category.ID)
	return err
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
