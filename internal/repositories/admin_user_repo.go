package repositories

import (
	"context"
	"errors"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

type adminUserRepo struct {
	db database.Querier
}

func NewAdminUserRepository(db database.Querier) AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, password_hash, display_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash, user.DisplayName, user.Role).Scan(&user.CreatedAt)
}

func (r *adminUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	query := `SELECT id, email, password_hash, display_name, role, created_at FROM admin_users WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Role, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *adminUserRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	query := `SELECT id, email, password_hash, display_name, role, created_at FROM admin_users WHERE email = $1`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Role, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
