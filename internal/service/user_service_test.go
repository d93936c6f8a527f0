package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/mocks"
	"github.com/pricewatch/pricewatch-api/internal/service"
	"github.com/pricewatch/pricewatch-api/internal/service/auth"
	"github.com/pricewatch/pricewatch-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user and passes it to the store", func(t *testing.T) {
		t.Parallel()

		var created *domain.User
		userStore := &mocks.MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				created = user
				return nil
			},
		}
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, testLogger())

		user, err := svc.Register(context.Background(), "New.User@Example.com", "correct horse battery")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "new.user@example.com", user.Email, "email is normalized before storage")
		assert.Equal(t, "correct horse battery", user.Password)
		assert.Same(t, user, created)
	})

	t.Run("maps duplicate email to ErrEmailExists", func(t *testing.T) {
		t.Parallel()

		userStore := &mocks.MockUserStore{Err: store.ErrEmailExists}
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, testLogger())

		user, err := svc.Register(context.Background(), "taken@example.com", "correct horse battery")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("wraps domain validation failures", func(t *testing.T) {
		t.Parallel()

		svc := service.NewUserService(&mocks.MockUserStore{}, &mocks.MockPasswordVerifier{}, testLogger())

		user, err := svc.Register(context.Background(), "short@example.com", "tooshort")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("wraps unexpected store errors", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("connection reset")
		userStore := &mocks.MockUserStore{Err: dbErr}
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, testLogger())

		user, err := svc.Register(context.Background(), "user@example.com", "correct horse battery")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	existing := &domain.User{
		Email:          "user@example.com",
		HashedPassword: "$2a$10$fakehash",
	}

	t.Run("returns the user for valid credentials", func(t *testing.T) {
		t.Parallel()

		var comparedHash, comparedPassword string
		verifier := &mocks.MockPasswordVerifier{
			CompareFn: func(hashedPassword, password string) error {
				comparedHash = hashedPassword
				comparedPassword = password
				return nil
			},
		}
		svc := service.NewUserService(&mocks.MockUserStore{User: existing}, verifier, testLogger())

		user, err := svc.Authenticate(context.Background(), "user@example.com", "correct horse battery")
		require.NoError(t, err)
		assert.Same(t, existing, user)
		assert.Equal(t, existing.HashedPassword, comparedHash)
		assert.Equal(t, "correct horse battery", comparedPassword)
	})

	t.Run("unknown email yields ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		compared := 0
		verifier := &mocks.MockPasswordVerifier{
			CompareFn: func(hashedPassword, password string) error {
				compared++
				assert.NotEmpty(t, hashedPassword)
				return errors.New("hash mismatch")
			},
		}
		userStore := &mocks.MockUserStore{Err: store.ErrUserNotFound}
		svc := service.NewUserService(userStore, verifier, testLogger())

		user, err := svc.Authenticate(context.Background(), "nobody@example.com", "correct horse battery")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, 1, compared,
			"the unknown-email path must cost a hash comparison too")
	})

	t.Run("wrong password yields ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		verifier := &mocks.MockPasswordVerifier{Err: errors.New("hash mismatch")}
		svc := service.NewUserService(&mocks.MockUserStore{User: existing}, verifier, testLogger())

		user, err := svc.Authenticate(context.Background(), "user@example.com", "wrong password!")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials,
			"wrong password must be indistinguishable from unknown email")
	})

	t.Run("wraps unexpected store errors", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("connection reset")
		userStore := &mocks.MockUserStore{Err: dbErr}
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, testLogger())

		user, err := svc.Authenticate(context.Background(), "user@example.com", "correct horse battery")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
