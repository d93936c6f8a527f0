package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeQuoteReceived is emitted by the price feed poller whenever a
// fresh quote for a watched symbol arrives.
const EventTypeQuoteReceived = "quote.received"

// QuotePayload carries the quote data for an EventTypeQuoteReceived event.
// The price travels as a decimal to avoid float rounding on the way to
// threshold comparison.
type QuotePayload struct {
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	QuotedAt time.Time       `json:"quoted_at"`
}

// Event is a typed message published by one component and consumed by
// handlers registered on an EventEmitter. The payload is serialized JSON so
// emitters and handlers do not need to share concrete types.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what the payload contains
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// NewQuoteEvent creates an EventTypeQuoteReceived event for the given quote.
func NewQuoteEvent(symbol string, price decimal.Decimal, quotedAt time.Time) (*Event, error) {
	return NewEvent(EventTypeQuoteReceived, QuotePayload{
		Symbol:   symbol,
		Price:    price,
		QuotedAt: quotedAt,
	})
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the price feed to publish quotes without direct knowledge of
// the handlers that evaluate them.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
