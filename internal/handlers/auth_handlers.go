package handlers

import (
	"net/http"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
	"scentlab/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles back-office authentication requests.
type AuthHandlers struct {
	authService services.AuthServiceInterface
	adminRepo   repositories.AdminUserRepository
}

func NewAuthHandlers(authService services.AuthServiceInterface, adminRepo repositories.AdminUserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		adminRepo:   adminRepo,
	}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response.
type LoginResponse struct {
	models.TokenResponse
	User *models.AdminUser `json:"user"`
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	tokenResponse, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		TokenResponse: *tokenResponse,
		User:          user,
	})
}

// Me handles GET /admin/me.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	adminID, ok := common.GetAdminIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.adminRepo.GetByID(ctx, adminID)
	if err != nil || user == nil {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, user)
}
