package repositories

import (
	"context"

	"scentlab/internal/models"
	"scentlab/pkg/database"
)

type ProductImageRepository interface {
	Create(ctx context.Context, image *models.ProductImage) error
	ListByProductID(ctx context.Context, productID int64) ([]*models.ProductImage, error)
	Delete(ctx context.Context, id int64) error
	ClearPrimary(ctx context.Context, productID int64) error
}

type productImageRepo struct {
	db database.Querier
}

func NewProductImageRepository(db database.Querier) ProductImageRepository {
	return &productImageRepo{db: db}
}

func (r *productImageRepo) Create(ctx context.Context, image *models.ProductImage) error {
	query := `
		INSERT INTO product_images (product_id, object_name, is_primary, sort_order, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, image.ProductID, image.ObjectName, image.IsPrimary, image.SortOrder).Scan(&image.ID, &image.CreatedAt)
}

func (r *productImageRepo) ListByProductID(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	query := `
		SELECT id, product_id, object_name, is_primary, sort_order, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY is_primary DESC, sort_order ASC
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.ProductImage
	for rows.Next() {
		image := &models.ProductImage{}
		if err := rows.Scan(&image.ID, &image.ProductID, &image.ObjectName, &image.IsPrimary, &image.SortOrder, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *productImageRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM product_images WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *productImageRepo) ClearPrimary(ctx context.Context, productID int64) error {
	query := `UPDATE product_images SET is_primary = false WHERE product_id = $1`
	_, err := r.db.Exec(ctx, query, productID)
	return err
}
