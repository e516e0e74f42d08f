package services

import (
	"context"
	"fmt"
	"time"

	"scentlab/internal/models"
	"scentlab/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, *models.AdminUser, error)
}

type authService struct {
	adminRepo repositories.AdminUserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(adminRepo repositories.AdminUserRepository, jwtSecret string) AuthServiceInterface {
	return &authService{
		adminRepo: adminRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// Login verifies back-office credentials and issues an HMAC-signed JWT
// carrying the admin ID as subject plus a role claim.
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, *models.AdminUser, error) {
	user, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, user, nil
}
