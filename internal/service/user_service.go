// Package service contains the application services that orchestrate
// domain entities, stores, and authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/service/auth"
	"github.com/pricewatch/pricewatch-api/internal/store"
)

// UserService provides registration and credential verification.
type UserService interface {
	// Register creates a new user with the given email and password.
	// Returns store.ErrEmailExists when the email is taken and domain
	// validation errors for bad input.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate verifies the email/password pair.
	// Returns auth.ErrInvalidCredentials for an unknown email or a wrong
	// password; the two cases are indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// dummyBcryptHash is compared against when the email is unknown, so the
// unknown-email and wrong-password paths cost roughly the same and response
// timing does not reveal whether an account exists.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore        store.UserStore
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// Ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore:        userStore,
		passwordVerifier: passwordVerifier,
		logger:           logger.With("component", "user_service"),
	}
}

// Register implements UserService.Register.
func (s *UserServiceImpl) Register(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The store hashes the plaintext password before persisting.
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, store.ErrEmailExists
		}
		s.logger.Error("failed to create user",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *UserServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn a hash comparison before answering.
			_ = s.passwordVerifier.Compare(dummyBcryptHash, password)
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user during login", "error", err)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}
