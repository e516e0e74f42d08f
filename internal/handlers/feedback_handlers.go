package handlers

import (
	"log"
	"net/http"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/services"

	"github.com/labstack/echo/v4"
)

type FeedbackHandlers struct {
	feedbackService services.FeedbackServiceInterface
}

func NewFeedbackHandlers(feedbackService services.FeedbackServiceInterface) *FeedbackHandlers {
	return &FeedbackHandlers{feedbackService: feedbackService}
}

// SubmitFeedback handles POST /feedback (storefront).
func (h *FeedbackHandlers) SubmitFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email"`
		Rating        int    `json:"rating"`
		Message       string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	feedback := &models.Feedback{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Rating:        req.Rating,
		Message:       req.Message,
	}
	if err := h.feedbackService.Submit(ctx, feedback); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Thank you for your feedback",
		"feedback": feedback,
	})
}

// ListFeedback handles GET /admin/feedback.
func (h *FeedbackHandlers) ListFeedback(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" {
		if err := common.ValidateFeedbackStatus(status); err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
	}

	limit, offset := parsePagination(c)
	feedbacks, err := h.feedbackService.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		log.Printf("ERROR: feedback list failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve feedback")
	}
	if feedbacks == nil {
		feedbacks = []*models.Feedback{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"feedback": feedbacks})
}

// UpdateFeedbackStatus handles PUT /admin/feedback/:id/status.
func (h *FeedbackHandlers) UpdateFeedbackStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.feedbackService.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Feedback status updated"})
}
