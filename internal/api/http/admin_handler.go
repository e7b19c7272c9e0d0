package http

import (
	"net/http"

	"selfstore-backend/internal/service"
)

type AdminHandler struct {
	refunds service.RefundService
}

func NewAdminHandler(refunds service.RefundService) *AdminHandler {
	return &AdminHandler{refunds: refunds}
}

// Refund records a partial or full refund on a captured payment. Crediting
// the wallet and returning stock are explicit opt-ins in the request body.
func (h *AdminHandler) Refund(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AmountCents  int64  `json:"amount_cents"`
		Reason       string `json:"reason"`
		CreditWallet bool   `json:"credit_wallet"`
		Restock      bool   `json:"restock"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.refunds.Refund(r.Context(), service.RefundRequest{
		PaymentID:    paymentID,
		AdminUserID:  UserIDFrom(r.Context()),
		AmountCents:  req.AmountCents,
		Reason:       req.Reason,
		CreditWallet: req.CreditWallet,
		Restock:      req.Restock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *AdminHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	refunds, err := h.refunds.ListRefunds(r.Context(), paymentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"refunds": refunds})
}
