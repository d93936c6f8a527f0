package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewatch/pricewatch-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPostgresAlertStore_TriggerPending(t *testing.T) {
	alertID := uuid.New()
	quotedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expectTrigger := func(mock sqlmock.Sqlmock) *sqlmock.ExpectedExec {
		return mock.ExpectExec("UPDATE alerts").
			WithArgs(
				string(domain.AlertStatusTriggered),
				quotedAt,
				sqlmock.AnyArg(),
				alertID.String(),
				string(domain.AlertStatusPending),
			)
	}

	t.Run("marks a pending alert triggered", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		expectTrigger(mock).WillReturnResult(sqlmock.NewResult(0, 1))

		s := NewPostgresAlertStore(db, testLogger())
		ok, err := s.TriggerPending(context.Background(), alertID, quotedAt)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("leaves a non-pending alert untouched", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		// The status predicate matches zero rows when a concurrent update
		// already disabled or triggered the alert. That must surface as a
		// skip, not as a write or an error.
		expectTrigger(mock).WillReturnResult(sqlmock.NewResult(0, 0))

		s := NewPostgresAlertStore(db, testLogger())
		ok, err := s.TriggerPending(context.Background(), alertID, quotedAt)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
