package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/service"
	"github.com/pricewatch/pricewatch-api/internal/store"
	"github.com/shopspring/decimal"
)

// MockUserService implements service.UserService for testing.
type MockUserService struct {
	// RegisterFn allows test cases to mock the Register behavior
	RegisterFn func(ctx context.Context, email, password string) (*domain.User, error)

	// AuthenticateFn allows test cases to mock the Authenticate behavior
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)

	// Default values used when functions aren't explicitly defined
	User *domain.User
	Err  error
}

// Register implements the service.UserService interface.
func (m *MockUserService) Register(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, password)
	}
	return m.User, m.Err
}

// Authenticate implements the service.UserService interface.
func (m *MockUserService) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return m.User, m.Err
}

// MockAlertService implements service.AlertService for testing.
type MockAlertService struct {
	// CreateAlertFn allows test cases to mock the CreateAlert behavior
	CreateAlertFn func(
		ctx context.Context,
		userID uuid.UUID,
		symbol string,
		threshold decimal.Decimal,
		direction domain.AlertDirection,
	) (*domain.FixedPriceAlert, error)

	// GetAlertFn allows test cases to mock the GetAlert behavior
	GetAlertFn func(ctx context.Context, userID, alertID uuid.UUID) (*domain.FixedPriceAlert, error)

	// ListAlertsFn allows test cases to mock the ListAlerts behavior
	ListAlertsFn func(
		ctx context.Context,
		userID uuid.UUID,
		params store.PageParams,
	) (store.Page[*domain.FixedPriceAlert], error)

	// UpdateAlertFn allows test cases to mock the UpdateAlert behavior
	UpdateAlertFn func(
		ctx context.Context,
		userID, alertID uuid.UUID,
		update service.AlertUpdate,
	) (*domain.FixedPriceAlert, error)

	// DeleteAlertFn allows test cases to mock the DeleteAlert behavior
	DeleteAlertFn func(ctx context.Context, userID, alertID uuid.UUID) error

	// EvaluateSymbolFn allows test cases to mock the EvaluateSymbol behavior
	EvaluateSymbolFn func(
		ctx context.Context,
		symbol string,
		price decimal.Decimal,
		quotedAt time.Time,
	) ([]uuid.UUID, error)

	// Default values used when functions aren't explicitly defined
	Alert     *domain.FixedPriceAlert
	Page      store.Page[*domain.FixedPriceAlert]
	Triggered []uuid.UUID
	Err       error
}

// CreateAlert implements the service.AlertService interface.
func (m *MockAlertService) CreateAlert(
	ctx context.Context,
	userID uuid.UUID,
	symbol string,
	threshold decimal.Decimal,
	direction domain.AlertDirection,
) (*domain.FixedPriceAlert, error) {
	if m.CreateAlertFn != nil {
		return m.CreateAlertFn(ctx, userID, symbol, threshold, direction)
	}
	return m.Alert, m.Err
}

// GetAlert implements the service.AlertService interface.
func (m *MockAlertService) GetAlert(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*domain.FixedPriceAlert, error) {
	if m.GetAlertFn != nil {
		return m.GetAlertFn(ctx, userID, alertID)
	}
	return m.Alert, m.Err
}

// ListAlerts implements the service.AlertService interface.
func (m *MockAlertService) ListAlerts(
	ctx context.Context,
	userID uuid.UUID,
	params store.PageParams,
) (store.Page[*domain.FixedPriceAlert], error) {
	if m.ListAlertsFn != nil {
		return m.ListAlertsFn(ctx, userID, params)
	}
	return m.Page, m.Err
}

// UpdateAlert implements the service.AlertService interface.
func (m *MockAlertService) UpdateAlert(
	ctx context.Context,
	userID, alertID uuid.UUID,
	update service.AlertUpdate,
) (*domain.FixedPriceAlert, error) {
	if m.UpdateAlertFn != nil {
		return m.UpdateAlertFn(ctx, userID, alertID, update)
	}
	return m.Alert, m.Err
}

// DeleteAlert implements the service.AlertService interface.
func (m *MockAlertService) DeleteAlert(ctx context.Context, userID, alertID uuid.UUID) error {
	if m.DeleteAlertFn != nil {
		return m.DeleteAlertFn(ctx, userID, alertID)
	}
	return m.Err
}

// EvaluateSymbol implements the service.AlertService interface.
func (m *MockAlertService) EvaluateSymbol(
	ctx context.Context,
	symbol string,
	price decimal.Decimal,
	quotedAt time.Time,
) ([]uuid.UUID, error) {
	if m.EvaluateSymbolFn != nil {
		return m.EvaluateSymbolFn(ctx, symbol, price, quotedAt)
	}
	return m.Triggered, m.Err
}
