package repositories

import (
	"context"
	"errors"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
)

type CustomerNoteRepository interface {
	Create(ctx context.Context, note *models.CustomerNote) error
	GetByID(ctx context.Context, id int64) (*models.CustomerNote, error)
	ListByEmail(ctx context.Context, email string) ([]*models.CustomerNote, error)
	Update(ctx context.Context, note *models.CustomerNote) error
	Delete(ctx context.Context, id int64) error
}

type customerNoteRepo struct {
	db database.Querier
}

func NewCustomerNoteRepository(db database.Querier) CustomerNoteRepository {
	return &customerNoteRepo{db: db}
}

func (r *customerNoteRepo) Create(ctx context.Context, note *models.CustomerNote) error {
	query := `
		INSERT INTO customer_notes (customer_email, author_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, note.CustomerEmail, note.AuthorID, note.Note).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
}

func (r *customerNoteRepo) GetByID(ctx context.Context, id int64) (*models.CustomerNote, error) {
	note := &models.CustomerNote{}
	query := `SELECT id, customer_email, author_id, note, created_at, updated_at FROM customer_notes WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&note.ID, &note.CustomerEmail, &note.AuthorID, &note.Note, &note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (r *customerNoteRepo) ListByEmail(ctx context.Context, email string) ([]*models.CustomerNote, error) {
	query := `SELECT id, customer_email, author_id, note, created_at, updated_at FROM customer_notes WHERE customer_email = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.CustomerNote
	for rows.Next() {
		note := &models.CustomerNote{}
		if err := rows.Scan(&note.ID, &note.CustomerEmail, &note.AuthorID, &note.Note, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *customerNoteRepo) Update(ctx context.Context, note *models.CustomerNote) error {
	_, err := r.db.Exec(ctx, `UPDATE customer_notes SET note = $1, updated_at = NOW() WHERE id = $2`, note.Note, note.ID)
	return err
}

func (r *customerNoteRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM customer_notes WHERE id = $1`, id)
	return err
}
