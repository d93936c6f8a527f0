package pricefeed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pricewatch/pricewatch-api/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSymbolSource struct {
	symbols []string
	err     error
}

func (s *staticSymbolSource) PendingSymbols(ctx context.Context) ([]string, error) {
	return s.symbols, s.err
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) emitted() []*events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*events.Event, len(e.events))
	copy(out, e.events)
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoller_EmitsQuoteEvents(t *testing.T) {
	source := QuoteSourceFunc(func(ctx context.Context, symbol string) (Quote, error) {
		return Quote{
			Symbol:   symbol,
			Price:    decimal.RequireFromString("42000"),
			QuotedAt: time.Now().UTC(),
		}, nil
	})
	symbols := &staticSymbolSource{symbols: []string{"BTC/USD", "ETH/USD"}}
	emitter := &recordingEmitter{}

	// Long interval so only the immediate startup poll runs.
	poller := New(Config{Interval: time.Hour}, source, symbols, emitter, discardLogger())
	require.NoError(t, poller.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(emitter.emitted()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, poller.Stop(stopCtx))

	seen := make(map[string]bool)
	for _, event := range emitter.emitted() {
		assert.Equal(t, events.EventTypeQuoteReceived, event.Type)
		var payload events.QuotePayload
		require.NoError(t, event.UnmarshalPayload(&payload))
		seen[payload.Symbol] = true
	}
	assert.True(t, seen["BTC/USD"])
	assert.True(t, seen["ETH/USD"])
}

func TestPoller_SkipsFailedSymbols(t *testing.T) {
	source := QuoteSourceFunc(func(ctx context.Context, symbol string) (Quote, error) {
		if symbol == "BAD/USD" {
			return Quote{}, errors.New("provider down")
		}
		return Quote{
			Symbol:   symbol,
			Price:    decimal.RequireFromString("1"),
			QuotedAt: time.Now(),
		}, nil
	})
	symbols := &staticSymbolSource{symbols: []string{"BAD/USD", "BTC/USD"}}
	emitter := &recordingEmitter{}

	poller := New(Config{Interval: time.Hour}, source, symbols, emitter, discardLogger())
	require.NoError(t, poller.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(emitter.emitted()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, poller.Stop(stopCtx))

	var payload events.QuotePayload
	require.NoError(t, emitter.emitted()[0].UnmarshalPayload(&payload))
	assert.Equal(t, "BTC/USD", payload.Symbol)
}

func TestPoller_NoSymbols(t *testing.T) {
	var fetches int32
	source := QuoteSourceFunc(func(ctx context.Context, symbol string) (Quote, error) {
		atomic.AddInt32(&fetches, 1)
		return Quote{}, nil
	})
	emitter := &recordingEmitter{}

	poller := New(Config{Interval: time.Hour}, source, &staticSymbolSource{}, emitter, discardLogger())
	require.NoError(t, poller.Start(context.Background()))

	time.Sleep(50 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, poller.Stop(stopCtx))

	assert.Empty(t, emitter.emitted())
	assert.Zero(t, atomic.LoadInt32(&fetches))
}
