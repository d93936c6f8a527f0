package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Alert-specific validation errors
var (
	// ErrAlertIDEmpty is returned when an alert ID is empty or nil.
	ErrAlertIDEmpty = errors.New("alert ID cannot be empty")

	// ErrAlertUserIDEmpty is returned when an alert's user ID is empty or nil.
	ErrAlertUserIDEmpty = errors.New("alert user ID cannot be empty")

	// ErrAlertSymbolInvalid is returned when an alert's symbol is not in BASE/QUOTE form.
	ErrAlertSymbolInvalid = errors.New("alert symbol must be of the form BASE/QUOTE")

	// ErrAlertThresholdInvalid is returned when an alert's threshold is not positive.
	ErrAlertThresholdInvalid = errors.New("alert threshold must be greater than zero")

	// ErrAlertDirectionInvalid is returned when an alert's direction is unknown.
	ErrAlertDirectionInvalid = errors.New("alert direction must be \"above\" or \"below\"")

	// ErrAlertStatusInvalid is returned when an alert's status is unknown.
	ErrAlertStatusInvalid = errors.New("invalid alert status")

	// ErrAlertNotPending is returned when a trigger is attempted on an
	// alert that is not in the pending state.
	ErrAlertNotPending = errors.New("alert is not pending")
)

// AlertDirection determines on which side of the threshold an alert fires.
type AlertDirection string

const (
	// DirectionAbove fires when the observed price reaches or exceeds the threshold.
	DirectionAbove AlertDirection = "above"

	// DirectionBelow fires when the observed price reaches or falls below the threshold.
	DirectionBelow AlertDirection = "below"
)

// AlertStatus represents the lifecycle state of an alert.
type AlertStatus string

const (
	// AlertStatusPending indicates the alert is armed and awaiting a crossing.
	AlertStatusPending AlertStatus = "pending"

	// AlertStatusTriggered indicates the threshold has been crossed.
	AlertStatusTriggered AlertStatus = "triggered"

	// AlertStatusDisabled indicates the owner has switched the alert off.
	AlertStatusDisabled AlertStatus = "disabled"
)

// symbolPattern matches instrument symbols written as BASE/QUOTE with
// 2-10 alphanumeric characters per leg, e.g. "BTC/USD".
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}/[A-Z0-9]{2,10}$`)

// NormalizeSymbol canonicalizes an instrument symbol for storage and
// comparison: trimmed and upper-cased.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsValidSymbol reports whether the symbol, after normalization, is in
// BASE/QUOTE form.
func IsValidSymbol(symbol string) bool {
	return symbolPattern.MatchString(NormalizeSymbol(symbol))
}

// FixedPriceAlert represents a user's request to be notified when an
// instrument's price crosses a fixed threshold in a given direction.
type FixedPriceAlert struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Symbol      string          `json:"symbol"`
	Threshold   decimal.Decimal `json:"threshold"`
	Direction   AlertDirection  `json:"direction"`
	Status      AlertStatus     `json:"status"`
	TriggeredAt *time.Time      `json:"triggered_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewFixedPriceAlert creates a pending alert for the given owner.
// It generates a new UUID for the alert ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewFixedPriceAlert(
	userID uuid.UUID,
	symbol string,
	threshold decimal.Decimal,
	direction AlertDirection,
) (*FixedPriceAlert, error) {
	alert := &FixedPriceAlert{
		ID:        uuid.New(),
		UserID:    userID,
		Symbol:    NormalizeSymbol(symbol),
		Threshold: threshold,
		Direction: direction,
		Status:    AlertStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := alert.Validate(); err != nil {
		return nil, err
	}

	return alert, nil
}

// Validate checks if the FixedPriceAlert has valid data.
// Returns an error if any field fails validation.
func (a *FixedPriceAlert) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAlertIDEmpty
	}

	if a.UserID == uuid.Nil {
		return ErrAlertUserIDEmpty
	}

	if !symbolPattern.MatchString(a.Symbol) {
		return ErrAlertSymbolInvalid
	}

	if !a.Threshold.IsPositive() {
		return ErrAlertThresholdInvalid
	}

	switch a.Direction {
	case DirectionAbove, DirectionBelow:
	default:
		return ErrAlertDirectionInvalid
	}

	switch a.Status {
	case AlertStatusPending, AlertStatusTriggered, AlertStatusDisabled:
	default:
		return ErrAlertStatusInvalid
	}

	return nil
}

// CrossedBy reports whether the given price satisfies the alert's
// threshold condition. Comparison is exact decimal comparison, never float.
func (a *FixedPriceAlert) CrossedBy(price decimal.Decimal) bool {
	switch a.Direction {
	case DirectionAbove:
		return price.GreaterThanOrEqual(a.Threshold)
	case DirectionBelow:
		return price.LessThanOrEqual(a.Threshold)
	default:
		return false
	}
}

// Trigger transitions a pending alert to triggered at the given time.
// Returns ErrAlertNotPending for alerts in any other state, which keeps
// repeated evaluation of the same quote idempotent.
func (a *FixedPriceAlert) Trigger(at time.Time) error {
	if a.Status != AlertStatusPending {
		return ErrAlertNotPending
	}

	at = at.UTC()
	a.Status = AlertStatusTriggered
	a.TriggeredAt = &at
	a.UpdatedAt = time.Now().UTC()
	return nil
}
