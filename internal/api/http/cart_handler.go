package http

import (
	"net/http"

	"selfstore-backend/internal/service"
)

type CartHandler struct {
	cart service.CartService
}

func NewCartHandler(cart service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	items, err := h.cart.GetCart(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID int64 `json:"listing_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ListingID <= 0 {
		writeErrorCode(w, http.StatusBadRequest, "invalid_listing_id", "listing_id must be a positive integer")
		return
	}
	if err := h.cart.AddItem(r.Context(), UserIDFrom(r.Context()), req.ListingID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": true})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	listingID, ok := pathID(w, r, "listingID")
	if !ok {
		return
	}
	var req struct {
		Quantity int32 `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.cart.UpdateQuantity(r.Context(), UserIDFrom(r.Context()), listingID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	listingID, ok := pathID(w, r, "listingID")
	if !ok {
		return
	}
	if err := h.cart.RemoveItem(r.Context(), UserIDFrom(r.Context()), listingID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
