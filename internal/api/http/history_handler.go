package http

import (
	"net/http"

	"selfstore-backend/internal/service"
)

type HistoryHandler struct {
	bookings service.BookingService
}

func NewHistoryHandler(bookings service.BookingService) *HistoryHandler {
	return &HistoryHandler{bookings: bookings}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, payments, err := h.bookings.History(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"payments": payments,
	})
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(w, r, "bookingID")
	if !ok {
		return
	}
	booking, err := h.bookings.GetBooking(r.Context(), UserIDFrom(r.Context()), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
