package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuoteEvent(t *testing.T) {
	price := decimal.RequireFromString("42050.25")
	quotedAt := time.Now().UTC()

	event, err := NewQuoteEvent("BTC/USD", price, quotedAt)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, EventTypeQuoteReceived, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var payload QuotePayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "BTC/USD", payload.Symbol)
	assert.True(t, price.Equal(payload.Price))
	assert.True(t, quotedAt.Equal(payload.QuotedAt))
}

func TestNewEvent_UnserializablePayload(t *testing.T) {
	_, err := NewEvent("bad", func() {})
	assert.Error(t, err)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}
