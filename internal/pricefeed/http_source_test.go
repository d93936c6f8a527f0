package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPQuoteSource_FetchQuote(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/quotes", r.URL.Path)
				assert.Equal(t, "BTC/USD", r.URL.Query().Get("symbol"))
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(
					[]byte(`{"symbol":"BTC/USD","price":"42000.50","timestamp":"2026-08-28T12:00:00Z"}`),
				)
			}),
		)
		defer server.Close()

		source := NewHTTPQuoteSource(server.URL, "test-key")
		quote, err := source.FetchQuote(context.Background(), "BTC/USD")
		require.NoError(t, err)

		assert.Equal(t, "BTC/USD", quote.Symbol)
		assert.True(t, decimal.RequireFromString("42000.50").Equal(quote.Price))
		assert.Equal(t, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC), quote.QuotedAt)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}),
		)
		defer server.Close()

		source := NewHTTPQuoteSource(server.URL, "")
		_, err := source.FetchQuote(context.Background(), "NOPE/USD")
		assert.ErrorIs(t, err, ErrSymbolUnavailable)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				_, _ = w.Write([]byte(`{"symbol":"ETH/USD","price":"3100"}`))
			}),
		)
		defer server.Close()

		source := NewHTTPQuoteSource(server.URL, "",
			WithRetries(2, time.Millisecond))
		quote, err := source.FetchQuote(context.Background(), "ETH/USD")
		require.NoError(t, err)

		assert.Equal(t, int32(2), calls.Load())
		assert.True(t, decimal.RequireFromString("3100").Equal(quote.Price))
		// Missing timestamp falls back to the receive time.
		assert.WithinDuration(t, time.Now(), quote.QuotedAt, 2*time.Second)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusBadRequest)
			}),
		)
		defer server.Close()

		source := NewHTTPQuoteSource(server.URL, "",
			WithRetries(3, time.Millisecond))
		_, err := source.FetchQuote(context.Background(), "BTC/USD")
		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("malformed price", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"symbol":"BTC/USD","price":"not-a-number"}`))
			}),
		)
		defer server.Close()

		source := NewHTTPQuoteSource(server.URL, "")
		_, err := source.FetchQuote(context.Background(), "BTC/USD")
		assert.Error(t, err)
	})
}
