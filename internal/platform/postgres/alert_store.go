package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/platform/logger"
	"github.com/pricewatch/pricewatch-api/internal/store"
	"github.com/shopspring/decimal"
)

// pendingAlertUniqueConstraint is the partial unique index that forbids two
// identical pending alerts for the same user (see migrations).
const pendingAlertUniqueConstraint = "alerts_pending_unique_idx"

// PostgresAlertStore implements the store.AlertStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAlertStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAlertStore creates a new PostgreSQL implementation of the
// AlertStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresAlertStore(db store.DBTX, logger *slog.Logger) *PostgresAlertStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAlertStore{
		db:     db,
		logger: logger.With(slog.String("component", "alert_store")),
	}
}

// Ensure PostgresAlertStore implements store.AlertStore interface
var _ store.AlertStore = (*PostgresAlertStore)(nil)

// Create implements store.AlertStore.Create
func (s *PostgresAlertStore) Create(ctx context.Context, alert *domain.FixedPriceAlert) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := alert.Validate(); err != nil {
		log.Warn("alert validation failed during create",
			slog.String("error", err.Error()),
			slog.String("alert_id", alert.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO alerts (id, user_id, symbol, threshold, direction, status, triggered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		alert.ID,
		alert.UserID,
		alert.Symbol,
		alert.Threshold.String(),
		alert.Direction,
		alert.Status,
		alert.TriggeredAt,
		alert.CreatedAt,
		alert.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err, pendingAlertUniqueConstraint) {
			log.Debug("duplicate pending alert",
				slog.String("user_id", alert.UserID.String()),
				slog.String("symbol", alert.Symbol))
			return store.ErrAlertExists
		}

		log.Error("failed to create alert",
			slog.String("error", err.Error()),
			slog.String("alert_id", alert.ID.String()))
		return MapError(err)
	}

	log.Info("alert created successfully",
		slog.String("alert_id", alert.ID.String()),
		slog.String("user_id", alert.UserID.String()),
		slog.String("symbol", alert.Symbol))
	return nil
}

// GetForUser implements store.AlertStore.GetForUser
// The user ID is part of the WHERE clause, so a foreign user's alert is
// indistinguishable from a missing one.
func (s *PostgresAlertStore) GetForUser(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*domain.FixedPriceAlert, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, symbol, threshold, direction, status, triggered_at, created_at, updated_at
		FROM alerts
		WHERE id = $1 AND user_id = $2
	`

	alert, err := scanAlert(s.db.QueryRowContext(ctx, query, alertID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("alert not found",
				slog.String("alert_id", alertID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrAlertNotFound
		}
		log.Error("failed to get alert",
			slog.String("error", err.Error()),
			slog.String("alert_id", alertID.String()))
		return nil, MapError(err)
	}

	return alert, nil
}

// ListForUser implements store.AlertStore.ListForUser
// Results are ordered newest first. The total count for the user is fetched
// in the same call so handlers can report total_pages.
func (s *PostgresAlertStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	params store.PageParams,
) (store.Page[*domain.FixedPriceAlert], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page := store.Page[*domain.FixedPriceAlert]{Page: params.Page, Limit: params.Limit}

	countQuery := `SELECT COUNT(*) FROM alerts WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&page.TotalCount); err != nil {
		log.Error("failed to count alerts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return page, MapError(err)
	}

	query := `
		SELECT id, user_id, symbol, threshold, direction, status, triggered_at, created_at, updated_at
		FROM alerts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, params.Limit, params.Offset())
	if err != nil {
		log.Error("failed to list alerts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return page, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	page.Items = make([]*domain.FixedPriceAlert, 0, params.Limit)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			log.Error("failed to scan alert row",
				slog.String("error", err.Error()))
			return page, MapError(err)
		}
		page.Items = append(page.Items, alert)
	}
	if err := rows.Err(); err != nil {
		return page, MapError(err)
	}

	log.Debug("alerts listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(page.Items)),
		slog.Int("total", page.TotalCount))
	return page, nil
}

// Update implements store.AlertStore.Update
func (s *PostgresAlertStore) Update(ctx context.Context, alert *domain.FixedPriceAlert) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := alert.Validate(); err != nil {
		log.Warn("alert validation failed during update",
			slog.String("error", err.Error()),
			slog.String("alert_id", alert.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE alerts
		SET threshold = $1, direction = $2, status = $3, triggered_at = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		alert.Threshold.String(),
		alert.Direction,
		alert.Status,
		alert.TriggeredAt,
		alert.UpdatedAt,
		alert.ID,
	)

	if err != nil {
		if IsUniqueViolation(err, pendingAlertUniqueConstraint) {
			return store.ErrAlertExists
		}
		log.Error("failed to update alert",
			slog.String("error", err.Error()),
			slog.String("alert_id", alert.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrAlertNotFound); err != nil {
		log.Debug("alert not found for update",
			slog.String("alert_id", alert.ID.String()))
		return err
	}

	log.Info("alert updated successfully",
		slog.String("alert_id", alert.ID.String()),
		slog.String("status", string(alert.Status)))
	return nil
}

// DeleteForUser implements store.AlertStore.DeleteForUser
func (s *PostgresAlertStore) DeleteForUser(ctx context.Context, userID, alertID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM alerts WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, alertID, userID)
	if err != nil {
		log.Error("failed to delete alert",
			slog.String("error", err.Error()),
			slog.String("alert_id", alertID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrAlertNotFound); err != nil {
		log.Debug("alert not found for delete",
			slog.String("alert_id", alertID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("alert deleted",
		slog.String("alert_id", alertID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ListPendingBySymbol implements store.AlertStore.ListPendingBySymbol
func (s *PostgresAlertStore) ListPendingBySymbol(
	ctx context.Context,
	symbol string,
) ([]*domain.FixedPriceAlert, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, symbol, threshold, direction, status, triggered_at, created_at, updated_at
		FROM alerts
		WHERE symbol = $1 AND status = $2
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, symbol, domain.AlertStatusPending)
	if err != nil {
		log.Error("failed to list pending alerts",
			slog.String("error", err.Error()),
			slog.String("symbol", symbol))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var alerts []*domain.FixedPriceAlert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, MapError(err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return alerts, nil
}

// TriggerPending implements store.AlertStore.TriggerPending
// The status predicate makes the transition conditional at the database:
// under read committed, an alert that a concurrent request already disabled
// or triggered matches zero rows and is left untouched.
func (s *PostgresAlertStore) TriggerPending(
	ctx context.Context,
	alertID uuid.UUID,
	at time.Time,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE alerts
		SET status = $1, triggered_at = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		domain.AlertStatusTriggered,
		at.UTC(),
		time.Now().UTC(),
		alertID,
		domain.AlertStatusPending,
	)
	if err != nil {
		log.Error("failed to trigger alert",
			slog.String("error", err.Error()),
			slog.String("alert_id", alertID.String()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		log.Debug("alert no longer pending, trigger skipped",
			slog.String("alert_id", alertID.String()))
		return false, nil
	}

	log.Info("alert triggered",
		slog.String("alert_id", alertID.String()))
	return true, nil
}

// PendingSymbols implements store.AlertStore.PendingSymbols
func (s *PostgresAlertStore) PendingSymbols(ctx context.Context) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT DISTINCT symbol FROM alerts WHERE status = $1`

	rows, err := s.db.QueryContext(ctx, query, domain.AlertStatusPending)
	if err != nil {
		log.Error("failed to list pending symbols",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, MapError(err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return symbols, nil
}

// WithTx implements store.AlertStore.WithTx
func (s *PostgresAlertStore) WithTx(tx *sql.Tx) store.AlertStore {
	return &PostgresAlertStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAlert reads one alert row. The threshold column is NUMERIC and is
// scanned through its text form into a decimal.
func scanAlert(row rowScanner) (*domain.FixedPriceAlert, error) {
	var (
		alert     domain.FixedPriceAlert
		threshold string
		direction string
		status    string
	)

	err := row.Scan(
		&alert.ID,
		&alert.UserID,
		&alert.Symbol,
		&threshold,
		&direction,
		&status,
		&alert.TriggeredAt,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	alert.Threshold, err = decimal.NewFromString(threshold)
	if err != nil {
		return nil, fmt.Errorf("invalid threshold in row: %w", err)
	}
	alert.Direction = domain.AlertDirection(direction)
	alert.Status = domain.AlertStatus(status)

	return &alert, nil
}
