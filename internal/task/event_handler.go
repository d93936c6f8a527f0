package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pricewatch/pricewatch-api/internal/events"
)

// QuoteEventHandler implements the events.EventHandler interface. It turns
// quote events from the price feed into alert evaluation tasks and submits
// them to the task runner.
type QuoteEventHandler struct {
	evaluator AlertEvaluator
	runner    *TaskRunner
	logger    *slog.Logger
}

// NewQuoteEventHandler creates a new event handler that builds evaluation
// tasks for incoming quotes and submits them to the provided task runner.
func NewQuoteEventHandler(
	evaluator AlertEvaluator,
	runner *TaskRunner,
	logger *slog.Logger,
) *QuoteEventHandler {
	return &QuoteEventHandler{
		evaluator: evaluator,
		runner:    runner,
		logger:    logger.With("component", "quote_event_handler"),
	}
}

// HandleEvent processes quote events by creating and submitting evaluation
// tasks. Events of other types are ignored.
func (h *QuoteEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.EventTypeQuoteReceived {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload events.QuotePayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	evalTask, err := NewAlertEvaluationTask(
		payload.Symbol,
		payload.Price,
		payload.QuotedAt,
		h.evaluator,
		h.logger,
	)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"symbol", payload.Symbol,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, evalTask); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", evalTask.ID(),
			"symbol", payload.Symbol,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Debug("task submitted",
		"task_id", evalTask.ID(),
		"symbol", payload.Symbol,
		"event_id", event.ID)
	return nil
}

// Ensure QuoteEventHandler implements events.EventHandler
var _ events.EventHandler = (*QuoteEventHandler)(nil)
