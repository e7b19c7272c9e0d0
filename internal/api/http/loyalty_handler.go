package http

import (
	"net/http"

	"selfstore-backend/internal/service"
)

type LoyaltyHandler struct {
	loyalty service.LoyaltyService
}

func NewLoyaltyHandler(loyalty service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyalty: loyalty}
}

func (h *LoyaltyHandler) Info(w http.ResponseWriter, r *http.Request) {
	profile, transactions, err := h.loyalty.Info(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":      profile,
		"transactions": transactions,
	})
}

func (h *LoyaltyHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.loyalty.Tiers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiers": tiers})
}

// CalculateReward previews how many points a purchase amount would earn at
// the user's current tier.
func (h *LoyaltyHandler) CalculateReward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	points, err := h.loyalty.CalculateReward(r.Context(), UserIDFrom(r.Context()), req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"points": points})
}

// Redeem burns points and credits the equivalent discount to the wallet.
func (h *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points      int64  `json:"points"`
		ReferenceID string `json:"reference_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	discountCents, err := h.loyalty.Redeem(r.Context(), UserIDFrom(r.Context()), req.Points, req.ReferenceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"discount_cents": discountCents})
}
