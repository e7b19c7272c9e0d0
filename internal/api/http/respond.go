package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

// writeError maps domain errors onto stable HTTP codes. Provider failures are
// deliberately opaque: the gateway's message never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	var providerErr *domain.ProviderError

	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		writeErrorCode(w, http.StatusBadRequest, "invalid_date_range", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		writeErrorCode(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrInvalidRefundAmount):
		writeErrorCode(w, http.StatusBadRequest, "invalid_refund_amount", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeErrorCode(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, domain.ErrInsufficientPoints):
		writeErrorCode(w, http.StatusConflict, "insufficient_points", err.Error())
	case errors.Is(err, domain.ErrPaymentNotCompleted):
		writeErrorCode(w, http.StatusConflict, "payment_not_completed", err.Error())
	case errors.As(err, &stockErr):
		writeErrorCode(w, http.StatusConflict, "insufficient_stock", stockErr.Error())
	case errors.Is(err, domain.ErrAmountMismatch):
		writeErrorCode(w, http.StatusUnprocessableEntity, "amount_mismatch", err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		writeErrorCode(w, http.StatusNotFound, "listing_not_found", err.Error())
	case errors.Is(err, domain.ErrBookingNotFound):
		writeErrorCode(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, domain.ErrPaymentNotFound):
		writeErrorCode(w, http.StatusNotFound, "payment_not_found", err.Error())
	case errors.Is(err, domain.ErrNoPendingPayment):
		writeErrorCode(w, http.StatusNotFound, "no_pending_payment", err.Error())
	case errors.As(err, &providerErr):
		logger.Error("payment provider failure", "provider", providerErr.Provider, "op", providerErr.Op, "error", providerErr.Err)
		writeErrorCode(w, http.StatusBadGateway, "provider_error", "payment provider is unavailable, please retry")
	case errors.Is(err, domain.ErrCheckoutFailed):
		logger.Error("checkout persistence failure", "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "checkout_failed", "checkout could not be completed")
	default:
		logger.Error("unhandled request error", "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decodeBody reads a JSON request body into dst, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
		return false
	}
	return true
}
