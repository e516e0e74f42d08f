package services

import (
	"context"
	"fmt"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"

	"github.com/google/uuid"
)

type CustomerNoteServiceInterface interface {
	Create(ctx context.Context, authorID uuid.UUID, email, text string) (*models.CustomerNote, error)
	ListByEmail(ctx context.Context, email string) ([]*models.CustomerNote, error)
	Update(ctx context.Context, id int64, text string) (*models.CustomerNote, error)
	Delete(ctx context.Context, id int64) error
}

type customerNoteService struct {
	noteRepo repositories.CustomerNoteRepository
}

func NewCustomerNoteService(noteRepo repositories.CustomerNoteRepository) CustomerNoteServiceInterface {
	return &customerNoteService{noteRepo: noteRepo}
}

func (s *customerNoteService) Create(ctx context.Context, authorID uuid.UUID, email, text string) (*models.CustomerNote, error) {
	if err := common.ValidateEmail(email, "customer_email"); err != nil {
		return nil, err
	}
	if err := common.ValidateStringLength(text, "note", 1, 5000); err != nil {
		return nil, err
	}
	note := &models.CustomerNote{
		CustomerEmail: email,
		AuthorID:      authorID,
		Note:          text,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *customerNoteService) ListByEmail(ctx context.Context, email string) ([]*models.CustomerNote, error) {
	return s.noteRepo.ListByEmail(ctx, email)
}

func (s *customerNoteService) Update(ctx context.Context, id int64, text string) (*models.CustomerNote, error) {
	if err := common.ValidateStringLength(text, "note", 1, 5000); err != nil {
		return nil, err
	}
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note not found")
	}
	note.Note = text
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *customerNoteService) Delete(ctx context.Context, id int64) error {
	return s.noteRepo.Delete(ctx, id)
}
