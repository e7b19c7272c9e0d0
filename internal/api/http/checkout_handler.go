package http

import (
	"net/http"

	"selfstore-backend/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Quote prices the user's cart for a date range without touching any state.
// The client shows this summary before the user picks a payment method.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	summary, err := h.checkout.Quote(r.Context(), UserIDFrom(r.Context()), req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
