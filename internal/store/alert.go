package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pricewatch/pricewatch-api/internal/domain"
)

// AlertStore defines the interface for fixed-price alert persistence.
type AlertStore interface {
	// Create saves a new alert to the store.
	// Returns ErrAlertExists when an identical pending alert already exists
	// for the same user, symbol, direction, and threshold.
	// Returns validation errors from the domain alert if data is invalid.
	Create(ctx context.Context, alert *domain.FixedPriceAlert) error

	// GetForUser retrieves an alert by ID, scoped to its owner.
	// Returns ErrAlertNotFound when the alert does not exist OR belongs to
	// a different user, so callers cannot distinguish the two cases.
	GetForUser(ctx context.Context, userID, alertID uuid.UUID) (*domain.FixedPriceAlert, error)

	// ListForUser returns one page of the user's alerts, newest first,
	// together with the total count for that user.
	ListForUser(
		ctx context.Context,
		userID uuid.UUID,
		params PageParams,
	) (Page[*domain.FixedPriceAlert], error)

	// Update persists changes to an existing alert's threshold, direction,
	// status, and trigger timestamp.
	// Returns ErrAlertNotFound if the alert does not exist.
	Update(ctx context.Context, alert *domain.FixedPriceAlert) error

	// DeleteForUser removes an alert by ID, scoped to its owner.
	// Returns ErrAlertNotFound if the alert does not exist or belongs to
	// a different user.
	DeleteForUser(ctx context.Context, userID, alertID uuid.UUID) error

	// ListPendingBySymbol returns all pending alerts for the given symbol,
	// for evaluation against a fresh quote.
	ListPendingBySymbol(ctx context.Context, symbol string) ([]*domain.FixedPriceAlert, error)

	// TriggerPending transitions a pending alert to triggered at the given
	// time. The write is conditional on the alert still being pending;
	// returns false when a concurrent update already moved it to another
	// state, so nothing is clobbered.
	TriggerPending(ctx context.Context, alertID uuid.UUID, at time.Time) (bool, error)

	// PendingSymbols returns the distinct symbols that currently have at
	// least one pending alert. The price feed polls exactly this set.
	PendingSymbols(ctx context.Context) ([]string, error)

	// WithTx returns a new AlertStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AlertStore
}
