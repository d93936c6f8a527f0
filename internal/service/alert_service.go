package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/store"
	"github.com/shopspring/decimal"
)

// AlertUpdate carries the optional fields of an alert update.
// Nil fields are left unchanged.
type AlertUpdate struct {
	Threshold *decimal.Decimal
	Direction *domain.AlertDirection
	Status    *domain.AlertStatus
}

// AlertService provides fixed-price alert management and evaluation.
type AlertService interface {
	// CreateAlert creates a pending alert for the user.
	// Returns store.ErrAlertExists for a duplicate pending alert and
	// domain validation errors for bad input.
	CreateAlert(
		ctx context.Context,
		userID uuid.UUID,
		symbol string,
		threshold decimal.Decimal,
		direction domain.AlertDirection,
	) (*domain.FixedPriceAlert, error)

	// GetAlert returns one of the user's alerts.
	// Returns store.ErrAlertNotFound when absent or owned by someone else.
	GetAlert(ctx context.Context, userID, alertID uuid.UUID) (*domain.FixedPriceAlert, error)

	// ListAlerts returns one page of the user's alerts, newest first.
	ListAlerts(
		ctx context.Context,
		userID uuid.UUID,
		params store.PageParams,
	) (store.Page[*domain.FixedPriceAlert], error)

	// UpdateAlert applies the non-nil fields of update to one of the
	// user's alerts. A status change to "pending" re-arms the alert;
	// "disabled" switches it off. Triggered alerts can be re-armed.
	UpdateAlert(
		ctx context.Context,
		userID, alertID uuid.UUID,
		update AlertUpdate,
	) (*domain.FixedPriceAlert, error)

	// DeleteAlert removes one of the user's alerts.
	DeleteAlert(ctx context.Context, userID, alertID uuid.UUID) error

	// EvaluateSymbol compares the quoted price against every pending alert
	// for the symbol and marks the crossed ones triggered, atomically.
	// Returns the IDs of the alerts that fired.
	EvaluateSymbol(
		ctx context.Context,
		symbol string,
		price decimal.Decimal,
		quotedAt time.Time,
	) ([]uuid.UUID, error)
}

// AlertServiceImpl implements the AlertService interface.
type AlertServiceImpl struct {
	db         *sql.DB
	alertStore store.AlertStore
	logger     *slog.Logger
}

// Ensure AlertServiceImpl implements AlertService
var _ AlertService = (*AlertServiceImpl)(nil)

// NewAlertService creates a new AlertService. The db handle is used for the
// transactional evaluation path; single-statement operations go through the
// store directly.
func NewAlertService(db *sql.DB, alertStore store.AlertStore, logger *slog.Logger) *AlertServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertServiceImpl{
		db:         db,
		alertStore: alertStore,
		logger:     logger.With("component", "alert_service"),
	}
}

// CreateAlert implements AlertService.CreateAlert.
func (s *AlertServiceImpl) CreateAlert(
	ctx context.Context,
	userID uuid.UUID,
	symbol string,
	threshold decimal.Decimal,
	direction domain.AlertDirection,
) (*domain.FixedPriceAlert, error) {
	alert, err := domain.NewFixedPriceAlert(userID, symbol, threshold, direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.alertStore.Create(ctx, alert); err != nil {
		if errors.Is(err, store.ErrAlertExists) {
			return nil, store.ErrAlertExists
		}
		s.logger.Error("failed to create alert",
			"error", err,
			"user_id", userID,
			"symbol", alert.Symbol)
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	return alert, nil
}

// GetAlert implements AlertService.GetAlert.
func (s *AlertServiceImpl) GetAlert(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*domain.FixedPriceAlert, error) {
	return s.alertStore.GetForUser(ctx, userID, alertID)
}

// ListAlerts implements AlertService.ListAlerts.
func (s *AlertServiceImpl) ListAlerts(
	ctx context.Context,
	userID uuid.UUID,
	params store.PageParams,
) (store.Page[*domain.FixedPriceAlert], error) {
	return s.alertStore.ListForUser(ctx, userID, params)
}

// UpdateAlert implements AlertService.UpdateAlert.
func (s *AlertServiceImpl) UpdateAlert(
	ctx context.Context,
	userID, alertID uuid.UUID,
	update AlertUpdate,
) (*domain.FixedPriceAlert, error) {
	alert, err := s.alertStore.GetForUser(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}

	if update.Threshold != nil {
		alert.Threshold = *update.Threshold
	}
	if update.Direction != nil {
		alert.Direction = *update.Direction
	}
	if update.Status != nil {
		alert.Status = *update.Status
		if alert.Status == domain.AlertStatusPending {
			// Re-arming clears the previous trigger.
			alert.TriggeredAt = nil
		}
	}
	alert.UpdatedAt = time.Now().UTC()

	if err := alert.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.alertStore.Update(ctx, alert); err != nil {
		if errors.Is(err, store.ErrAlertNotFound) || errors.Is(err, store.ErrAlertExists) {
			return nil, err
		}
		s.logger.Error("failed to update alert",
			"error", err,
			"alert_id", alertID)
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}

	return alert, nil
}

// DeleteAlert implements AlertService.DeleteAlert.
func (s *AlertServiceImpl) DeleteAlert(ctx context.Context, userID, alertID uuid.UUID) error {
	return s.alertStore.DeleteForUser(ctx, userID, alertID)
}

// EvaluateSymbol implements AlertService.EvaluateSymbol.
// The pending -> triggered transition is a conditional write with a status
// predicate in the database, so an alert that a concurrent evaluation or an
// owner update already moved out of pending is skipped, never clobbered.
func (s *AlertServiceImpl) EvaluateSymbol(
	ctx context.Context,
	symbol string,
	price decimal.Decimal,
	quotedAt time.Time,
) ([]uuid.UUID, error) {
	symbol = domain.NormalizeSymbol(symbol)
	var triggered []uuid.UUID

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.alertStore.WithTx(tx)

		pending, err := txStore.ListPendingBySymbol(ctx, symbol)
		if err != nil {
			return fmt.Errorf("failed to list pending alerts: %w", err)
		}

		for _, alert := range pending {
			if !alert.CrossedBy(price) {
				continue
			}

			ok, err := txStore.TriggerPending(ctx, alert.ID, quotedAt)
			if err != nil {
				return fmt.Errorf("failed to mark alert triggered: %w", err)
			}
			if !ok {
				// Lost the race to a concurrent update; skip rather than
				// fail the batch.
				continue
			}
			triggered = append(triggered, alert.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(triggered) > 0 {
		s.logger.Info("alerts triggered",
			"symbol", symbol,
			"price", price.String(),
			"count", len(triggered))
	}

	return triggered, nil
}
