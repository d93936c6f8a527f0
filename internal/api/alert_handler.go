package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pricewatch/pricewatch-api/internal/api/shared"
	"github.com/pricewatch/pricewatch-api/internal/domain"
	"github.com/pricewatch/pricewatch-api/internal/platform/logger"
	"github.com/pricewatch/pricewatch-api/internal/service"
	"github.com/shopspring/decimal"
)

// AlertHandler handles fixed-price alert HTTP requests.
type AlertHandler struct {
	alertService service.AlertService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService, log *slog.Logger) *AlertHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AlertHandler{
		alertService: alertService,
		validator:    newJSONTagValidator(),
		logger:       log.With(slog.String("component", "alert_handler")),
	}
}

// CreateAlert handles POST /api/fixed-price-alerts requests.
// Validation failures are accumulated: structural tag failures and semantic
// failures (bad threshold, bad symbol) are collected before responding, so
// one round trip reports everything wrong with the payload.
func (h *AlertHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateAlertRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var fieldErrors []shared.FieldError
	if err := h.validator.Struct(req); err != nil {
		fieldErrors = collectFieldErrors(err)
	}

	// Semantic checks on fields the tags cannot express. Only fields that
	// passed tag validation are inspected, so each field is reported once.
	if req.Symbol != "" && !hasFieldError(fieldErrors, "symbol") && !domain.IsValidSymbol(req.Symbol) {
		fieldErrors = append(fieldErrors, shared.FieldError{
			Field: "symbol", Message: "must be of the form BASE/QUOTE",
		})
	}

	threshold, thresholdErr := decimal.NewFromString(req.Threshold)
	if req.Threshold != "" {
		if thresholdErr != nil {
			fieldErrors = append(fieldErrors, shared.FieldError{
				Field: "threshold", Message: "must be a decimal number",
			})
		} else if !threshold.IsPositive() {
			fieldErrors = append(fieldErrors, shared.FieldError{
				Field: "threshold", Message: "must be greater than 0",
			})
		}
	}

	if len(fieldErrors) > 0 {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation failed", fieldErrors)
		return
	}

	alert, err := h.alertService.CreateAlert(
		r.Context(),
		userID,
		req.Symbol,
		threshold,
		domain.AlertDirection(req.Direction),
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("alert created",
		slog.String("alert_id", alert.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("symbol", alert.Symbol))
	shared.RespondWithJSON(w, r, http.StatusCreated, alertToResponse(alert))
}

// ListAlerts handles GET /api/fixed-price-alerts requests.
// Results are paginated via page/limit query parameters; an out-of-range
// page yields an empty items list, not an error.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	page, err := h.alertService.ListAlerts(r.Context(), userID, getPageParams(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list alerts")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, alertPageToResponse(page))
}

// GetAlert handles GET /api/fixed-price-alerts/{id} requests.
func (h *AlertHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	userID, alertID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	alert, err := h.alertService.GetAlert(r.Context(), userID, alertID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, alertToResponse(alert))
}

// UpdateAlert handles PATCH /api/fixed-price-alerts/{id} requests.
func (h *AlertHandler) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, alertID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateAlertRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var fieldErrors []shared.FieldError
	if err := h.validator.Struct(req); err != nil {
		fieldErrors = collectFieldErrors(err)
	}

	update := service.AlertUpdate{}
	if req.Threshold != nil {
		threshold, err := decimal.NewFromString(*req.Threshold)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, shared.FieldError{
				Field: "threshold", Message: "must be a decimal number",
			})
		case !threshold.IsPositive():
			fieldErrors = append(fieldErrors, shared.FieldError{
				Field: "threshold", Message: "must be greater than 0",
			})
		default:
			update.Threshold = &threshold
		}
	}
	if req.Direction != nil {
		direction := domain.AlertDirection(*req.Direction)
		update.Direction = &direction
	}
	if req.Status != nil {
		status := domain.AlertStatus(*req.Status)
		update.Status = &status
	}

	if len(fieldErrors) > 0 {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation failed", fieldErrors)
		return
	}

	alert, err := h.alertService.UpdateAlert(r.Context(), userID, alertID, update)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("alert updated",
		slog.String("alert_id", alertID.String()),
		slog.String("status", string(alert.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, alertToResponse(alert))
}

// DeleteAlert handles DELETE /api/fixed-price-alerts/{id} requests.
func (h *AlertHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	userID, alertID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.alertService.DeleteAlert(r.Context(), userID, alertID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
