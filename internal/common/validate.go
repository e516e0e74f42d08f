package common

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	AdminIDKey   contextKey = "admin_id"
	AdminRoleKey contextKey = "admin_role"
)

// GetAdminIDFromContext extracts the authenticated admin user ID.
func GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AdminIDKey).(uuid.UUID)
	return id, ok
}

// GetAdminRoleFromContext extracts the authenticated admin role.
func GetAdminRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(AdminRoleKey).(string)
	return role, ok
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email well-formedness.
func ValidateEmail(email, fieldName string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if len(email) > 255 || !emailPattern.MatchString(email) {
		return fmt.Errorf("%s must be a valid email address", fieldName)
	}
	return nil
}

// ValidateStringLength validates a required string against length bounds.
func ValidateStringLength(value, fieldName string, min, max int) error {
	value = strings.TrimSpace(value)
	if len(value) < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && len(value) > max {
		return fmt.Errorf("%s cannot exceed %d characters", fieldName, max)
	}
	return nil
}

// ValidatePositiveInteger validates positive integer values with an upper bound.
func ValidatePositiveInteger(value int, fieldName string, maxValue int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if value > maxValue {
		return fmt.Errorf("%s cannot exceed %d", fieldName, maxValue)
	}
	return nil
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateOptionalString trims and bounds optional string fields.
func ValidateOptionalString(value *string, fieldName string, maxLength int) error {
	if value != nil {
		if len(*value) > maxLength {
			return fmt.Errorf("%s cannot exceed %d characters", fieldName, maxLength)
		}
		*value = strings.TrimSpace(*value)
	}
	return nil
}

// ValidateOrderStatus validates order status values.
func ValidateOrderStatus(status string) error {
	validStatuses := map[string]bool{
		"pending": true, "paid": true, "shipped": true,
		"delivered": true, "cancelled": true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("order status must be one of: pending, paid, shipped, delivered, cancelled")
	}
	return nil
}

// ValidateFeedbackStatus validates feedback triage status values.
func ValidateFeedbackStatus(status string) error {
	validStatuses := map[string]bool{"new": true, "reviewed": true, "resolved": true}
	if !validStatuses[status] {
		return fmt.Errorf("feedback status must be one of: new, reviewed, resolved")
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a display name.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
