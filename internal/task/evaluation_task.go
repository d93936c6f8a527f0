package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilEvaluator = errors.New("evaluator cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
	ErrEmptySymbol  = errors.New("symbol cannot be empty")
)

// AlertEvaluator defines the evaluation operation the task depends on.
// It is satisfied by service.AlertService.
type AlertEvaluator interface {
	// EvaluateSymbol marks the pending alerts crossed by the quoted price
	// as triggered and returns the IDs of the alerts that fired.
	EvaluateSymbol(
		ctx context.Context,
		symbol string,
		price decimal.Decimal,
		quotedAt time.Time,
	) ([]uuid.UUID, error)
}

// evaluationPayload represents the serialized data carried by the task
type evaluationPayload struct {
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	QuotedAt time.Time       `json:"quoted_at"`
}

// AlertEvaluationTask implements the Task interface. It compares one quote
// against every pending alert for the symbol.
type AlertEvaluationTask struct {
	id        uuid.UUID
	symbol    string
	price     decimal.Decimal
	quotedAt  time.Time
	evaluator AlertEvaluator
	logger    *slog.Logger
	status    TaskStatus
}

// NewAlertEvaluationTask creates a new alert evaluation task
func NewAlertEvaluationTask(
	symbol string,
	price decimal.Decimal,
	quotedAt time.Time,
	evaluator AlertEvaluator,
	logger *slog.Logger,
) (*AlertEvaluationTask, error) {
	if evaluator == nil {
		return nil, ErrNilEvaluator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	return &AlertEvaluationTask{
		id:        uuid.New(),
		symbol:    symbol,
		price:     price,
		quotedAt:  quotedAt,
		evaluator: evaluator,
		logger:    logger.With("task_type", TaskTypeAlertEvaluation, "symbol", symbol),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *AlertEvaluationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *AlertEvaluationTask) Type() string {
	return TaskTypeAlertEvaluation
}

// Payload returns the task data as a byte slice
func (t *AlertEvaluationTask) Payload() []byte {
	payload, err := json.Marshal(evaluationPayload{
		Symbol:   t.symbol,
		Price:    t.price,
		QuotedAt: t.quotedAt,
	})
	if err != nil {
		return nil
	}
	return payload
}

// Status returns the current task status
func (t *AlertEvaluationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the evaluation against the alert service
func (t *AlertEvaluationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	triggered, err := t.evaluator.EvaluateSymbol(ctx, t.symbol, t.price, t.quotedAt)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to evaluate symbol %s: %w", t.symbol, err)
	}

	t.status = TaskStatusCompleted
	if len(triggered) > 0 {
		t.logger.Info("alerts triggered",
			"count", len(triggered),
			"price", t.price.String())
	}
	return nil
}
