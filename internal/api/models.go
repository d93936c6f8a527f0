package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/store"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateAlertRequest defines the payload for creating a fixed-price alert.
// The threshold arrives as a string so values like "64999.99" survive
// decoding without float rounding.
type CreateAlertRequest struct {
	Symbol    string `json:"symbol"    validate:"required,min=5,max=21"`
	Threshold string `json:"threshold" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=above below"`
}

// UpdateAlertRequest defines the payload for updating an alert. All fields
// are optional; absent fields are left unchanged.
type UpdateAlertRequest struct {
	Threshold *string `json:"threshold,omitempty"`
	Direction *string `json:"direction,omitempty" validate:"omitempty,oneof=above below"`
	Status    *string `json:"status,omitempty"    validate:"omitempty,oneof=pending disabled"`
}

// AlertResponse represents the response data for a single alert.
type AlertResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Symbol      string     `json:"symbol"`
	Threshold   string     `json:"threshold"`
	Direction   string     `json:"direction"`
	Status      string     `json:"status"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AlertListResponse is one page of a user's alerts.
type AlertListResponse struct {
	Items      []AlertResponse `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// alertToResponse converts a domain alert to its API representation.
func alertToResponse(alert *domain.FixedPriceAlert) AlertResponse {
	return AlertResponse{
		ID:          alert.ID.String(),
		UserID:      alert.UserID.String(),
		Symbol:      alert.Symbol,
		Threshold:   alert.Threshold.String(),
		Direction:   string(alert.Direction),
		Status:      string(alert.Status),
		TriggeredAt: alert.TriggeredAt,
		CreatedAt:   alert.CreatedAt,
		UpdatedAt:   alert.UpdatedAt,
	}
}

// alertPageToResponse converts a store page of alerts to its API representation.
func alertPageToResponse(page store.Page[*domain.FixedPriceAlert]) AlertListResponse {
	items := make([]AlertResponse, 0, len(page.Items))
	for _, alert := range page.Items {
		items = append(items, alertToResponse(alert))
	}
	return AlertListResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(),
	}
}
