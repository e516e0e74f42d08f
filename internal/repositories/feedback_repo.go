package repositories

import (
	"context"
	"errors"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CountByStatus(ctx context.Context, status string) (int, error)
}

type feedbackRepo struct {
	db database.Querier
}

func NewFeedbackRepository(db database.Querier) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (customer_name, customer_email, rating, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, feedback.CustomerName, feedback.CustomerEmail, feedback.Rating, feedback.Message, feedback.Status).
		Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepo) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	feedback := &models.Feedback{}
	query := `SELECT id, customer_name, customer_email, rating, message, status, created_at FROM feedback WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&feedback.ID, &feedback.CustomerName, &feedback.CustomerEmail, &feedback.Rating, &feedback.Message, &feedback.Status, &feedback.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Feedback, error) {
	query := `SELECT id, customer_name, customer_email, rating, message, status, created_at FROM feedback`
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += " WHERE status = $1"
	}
	args = append(args, limit, offset)
	if status != "" {
		query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedbacks []*models.Feedback
	for rows.Next() {
		feedback := &models.Feedback{}
		if err := rows.Scan(&feedback.ID, &feedback.CustomerName, &feedback.CustomerEmail, &feedback.Rating, &feedback.Message, &feedback.Status, &feedback.CreatedAt); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, feedback)
	}
	return feedbacks, rows.Err()
}

func (r *feedbackRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE feedback SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *feedbackRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback WHERE status = $1`, status).Scan(&count)
	return count, err
}
