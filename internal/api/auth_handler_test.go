package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pricewatch/pricewatch-api/internal/api/shared"
	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/mocks"
	"github.com/pricewatch/pricewatch-api/internal/service/auth"
	"github.com/pricewatch/pricewatch-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		userService := &mocks.MockUserService{
			User: &domain.User{ID: userID, Email: "new@example.com"},
		}
		jwtService := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}
		handler := NewAuthHandler(userService, jwtService, time.Hour)

		rec := postJSON(t, handler.Register, "/api/users", RegisterRequest{
			Email:    "new@example.com",
			Password: "a-long-enough-password",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "access", resp.AccessToken)
		assert.Equal(t, "refresh", resp.RefreshToken)
		assert.NotEmpty(t, resp.ExpiresAt)
	})

	t.Run("accumulates all validation errors", func(t *testing.T) {
		handler := NewAuthHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, time.Hour)

		rec := postJSON(t, handler.Register, "/api/users", RegisterRequest{
			Email:    "not-an-email",
			Password: "short",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeErrorResponse(t, rec)
		require.Len(t, resp.Errors, 2)
		fields := map[string]string{}
		for _, fe := range resp.Errors {
			fields[fe.Field] = fe.Message
		}
		assert.Contains(t, fields["email"], "valid email")
		assert.Contains(t, fields["password"], "at least 12")
	})

	t.Run("duplicate email", func(t *testing.T) {
		userService := &mocks.MockUserService{Err: store.ErrEmailExists}
		handler := NewAuthHandler(userService, &mocks.MockJWTService{}, time.Hour)

		rec := postJSON(t, handler.Register, "/api/users", RegisterRequest{
			Email:    "taken@example.com",
			Password: "a-long-enough-password",
		})

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email already exists", decodeErrorResponse(t, rec).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewAuthHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, time.Hour)

		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		userService := &mocks.MockUserService{
			User: &domain.User{ID: userID, Email: "user@example.com"},
		}
		jwtService := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}
		handler := NewAuthHandler(userService, jwtService, time.Hour)

		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "whatever-password",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		userService := &mocks.MockUserService{Err: auth.ErrInvalidCredentials}
		handler := NewAuthHandler(userService, &mocks.MockJWTService{}, time.Hour)

		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "wrong-password",
		})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeErrorResponse(t, rec).Error)
	})

	t.Run("missing fields accumulate", func(t *testing.T) {
		handler := NewAuthHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, time.Hour)

		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, decodeErrorResponse(t, rec).Errors, 2)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{
			Token:        "new-access",
			RefreshToken: "new-refresh",
			ValidateRefreshTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				assert.Equal(t, "old-refresh", tokenString)
				return &auth.Claims{UserID: userID}, nil
			},
		}
		handler := NewAuthHandler(&mocks.MockUserService{}, jwtService, time.Hour)

		rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
			RefreshToken: "old-refresh",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "new-access", resp.AccessToken)
		assert.Equal(t, "new-refresh", resp.RefreshToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{ValidateErr: auth.ErrInvalidRefreshToken}
		handler := NewAuthHandler(&mocks.MockUserService{}, jwtService, time.Hour)

		rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
			RefreshToken: "garbage",
		})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid refresh token", decodeErrorResponse(t, rec).Error)
	})
}
