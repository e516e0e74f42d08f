package handlers

import (
	"log"
	"net/http"

	"scentlab/internal/analytics"
	"scentlab/internal/common"

	"github.com/labstack/echo/v4"
)

type DashboardHandlers struct {
	dashboardSvc *analytics.DashboardService
}

func NewDashboardHandlers(dashboardSvc *analytics.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardSvc: dashboardSvc}
}

// GetStats handles GET /admin/dashboard.
func (h *DashboardHandlers) GetStats(c echo.Context) error {
	stats, err := h.dashboardSvc.Stats(c.Request().Context())
	if err != nil {
		log.Printf("ERROR: dashboard stats failed: %v", err)
		return common.SendServerError(c, "Failed to compute dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}
