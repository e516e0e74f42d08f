package handlers

import (
	"log"
	"net/http"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/services"

	"github.com/labstack/echo/v4"
)

type CustomerNoteHandlers struct {
	noteService services.CustomerNoteServiceInterface
}

func NewCustomerNoteHandlers(noteService services.CustomerNoteServiceInterface) *CustomerNoteHandlers {
	return &CustomerNoteHandlers{noteService: noteService}
}

// CreateNote handles POST /admin/customers/notes.
func (h *CustomerNoteHandlers) CreateNote(c echo.Context) error {
	ctx := c.Request().Context()

	authorID, ok := common.GetAdminIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		CustomerEmail string `json:"customer_email"`
		Note          string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	note, err := h.noteService.Create(ctx, authorID, req.CustomerEmail, req.Note)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, note)
}

// ListNotes handles GET /admin/customers/notes?email=.
func (h *CustomerNoteHandlers) ListNotes(c echo.Context) error {
	email := c.QueryParam("email")
	if err := common.ValidateEmail(email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}

	notes, err := h.noteService.ListByEmail(c.Request().Context(), email)
	if err != nil {
		log.Printf("ERROR: customer note list failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve notes")
	}
	if notes == nil {
		notes = []*models.CustomerNote{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notes": notes})
}

// UpdateNote handles PUT /admin/customers/notes/:id.
func (h *CustomerNoteHandlers) UpdateNote(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	note, err := h.noteService.Update(c.Request().Context(), id, req.Note)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, note)
}

// DeleteNote handles DELETE /admin/customers/notes/:id (admin role only).
func (h *CustomerNoteHandlers) DeleteNote(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.noteService.Delete(c.Request().Context(), id); err != nil {
		log.Printf("ERROR: customer note delete failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to delete note")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Note deleted"})
}
