package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"selfstore-backend/internal/service"
)

type WalletHandler struct {
	wallet service.WalletService
}

func NewWalletHandler(wallet service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.wallet.Balance(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance_cents": balance})
}

func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := int32(0)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 0 {
			writeErrorCode(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = int32(parsed)
	}
	transactions, err := h.wallet.History(r.Context(), UserIDFrom(r.Context()), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

// InitiateTopup starts a wallet top-up through the same provider flows as
// checkout: Stripe redirect, PayPal approval, NETS QR.
func (h *WalletHandler) InitiateTopup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountCents int64  `json:"amount_cents"`
		Method      string `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.wallet.InitiateTopup(r.Context(), UserIDFrom(r.Context()), req.AmountCents, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *WalletHandler) StripeTopupSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeErrorCode(w, http.StatusBadRequest, "missing_session_id", "session_id query parameter is required")
		return
	}
	credited, err := h.wallet.ConfirmStripeTopup(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"credited_cents": credited})
}

func (h *WalletHandler) CapturePayPalTopup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		writeErrorCode(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}
	credited, err := h.wallet.CapturePayPalTopup(r.Context(), UserIDFrom(r.Context()), req.OrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"credited_cents": credited})
}

// NetsTopupStatus is a JSON poll endpoint; the top-up amount is small and
// short-lived enough that the client polls instead of holding an SSE stream.
func (h *WalletHandler) NetsTopupStatus(w http.ResponseWriter, r *http.Request) {
	retrievalRef := mux.Vars(r)["retrievalRef"]
	status, credited, err := h.wallet.CheckNetsTopup(r.Context(), retrievalRef, 0)
	if err != nil && status != service.NetsStatusFailed {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         status,
		"credited_cents": credited,
	})
}
