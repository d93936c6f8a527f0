package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/store"
)

// MockAlertStore implements store.AlertStore for testing.
type MockAlertStore struct {
	// CreateFn allows test cases to mock the Create behavior
	CreateFn func(ctx context.Context, alert *domain.FixedPriceAlert) error

	// GetForUserFn allows test cases to mock the GetForUser behavior
	GetForUserFn func(ctx context.Context, userID, alertID uuid.UUID) (*domain.FixedPriceAlert, error)

	// ListForUserFn allows test cases to mock the ListForUser behavior
	ListForUserFn func(
		ctx context.Context,
		userID uuid.UUID,
		params store.PageParams,
	) (store.Page[*domain.FixedPriceAlert], error)

	// UpdateFn allows test cases to mock the Update behavior
	UpdateFn func(ctx context.Context, alert *domain.FixedPriceAlert) error

	// DeleteForUserFn allows test cases to mock the DeleteForUser behavior
	DeleteForUserFn func(ctx context.Context, userID, alertID uuid.UUID) error

	// ListPendingBySymbolFn allows test cases to mock the ListPendingBySymbol behavior
	ListPendingBySymbolFn func(ctx context.Context, symbol string) ([]*domain.FixedPriceAlert, error)

	// TriggerPendingFn allows test cases to mock the TriggerPending behavior
	TriggerPendingFn func(ctx context.Context, alertID uuid.UUID, at time.Time) (bool, error)

	// PendingSymbolsFn allows test cases to mock the PendingSymbols behavior
	PendingSymbolsFn func(ctx context.Context) ([]string, error)

	// Default values used when functions aren't explicitly defined
	Alert     *domain.FixedPriceAlert
	Alerts    []*domain.FixedPriceAlert
	Page      store.Page[*domain.FixedPriceAlert]
	Symbols   []string
	Triggered bool
	Err       error
}

// Create implements the store.AlertStore interface.
func (m *MockAlertStore) Create(ctx context.Context, alert *domain.FixedPriceAlert) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, alert)
	}
	return m.Err
}

// GetForUser implements the store.AlertStore interface.
func (m *MockAlertStore) GetForUser(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*domain.FixedPriceAlert, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, userID, alertID)
	}
	return m.Alert, m.Err
}

// ListForUser implements the store.AlertStore interface.
func (m *MockAlertStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	params store.PageParams,
) (store.Page[*domain.FixedPriceAlert], error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, params)
	}
	return m.Page, m.Err
}

// Update implements the store.AlertStore interface.
func (m *MockAlertStore) Update(ctx context.Context, alert *domain.FixedPriceAlert) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, alert)
	}
	return m.Err
}

// DeleteForUser implements the store.AlertStore interface.
func (m *MockAlertStore) DeleteForUser(ctx context.Context, userID, alertID uuid.UUID) error {
	if m.DeleteForUserFn != nil {
		return m.DeleteForUserFn(ctx, userID, alertID)
	}
	return m.Err
}

// ListPendingBySymbol implements the store.AlertStore interface.
func (m *MockAlertStore) ListPendingBySymbol(
	ctx context.Context,
	symbol string,
) ([]*domain.FixedPriceAlert, error) {
	if m.ListPendingBySymbolFn != nil {
		return m.ListPendingBySymbolFn(ctx, symbol)
	}
	return m.Alerts, m.Err
}

// TriggerPending implements the store.AlertStore interface.
func (m *MockAlertStore) TriggerPending(
	ctx context.Context,
	alertID uuid.UUID,
	at time.Time,
) (bool, error) {
	if m.TriggerPendingFn != nil {
		return m.TriggerPendingFn(ctx, alertID, at)
	}
	return m.Triggered, m.Err
}

// PendingSymbols implements the store.AlertStore interface.
func (m *MockAlertStore) PendingSymbols(ctx context.Context) ([]string, error) {
	if m.PendingSymbolsFn != nil {
		return m.PendingSymbolsFn(ctx)
	}
	return m.Symbols, m.Err
}

// WithTx implements the store.AlertStore interface. The mock has no
// transaction state, so it returns itself.
func (m *MockAlertStore) WithTx(tx *sql.Tx) store.AlertStore {
	return m
}
