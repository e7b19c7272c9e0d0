package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/service"
)

type PaymentHandler struct {
	payments     service.PaymentService
	pollInterval time.Duration
	pollCeiling  time.Duration
}

func NewPaymentHandler(payments service.PaymentService, pollInterval, pollCeiling time.Duration) *PaymentHandler {
	return &PaymentHandler{
		payments:     payments,
		pollInterval: pollInterval,
		pollCeiling:  pollCeiling,
	}
}

// Initiate starts a checkout payment. Wallet settles inline and returns the
// invoice; Stripe returns a redirect URL; PayPal defers to the client SDK
// flow; NETS returns a QR payload plus the retrieval ref to poll.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Method    string `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.payments.InitiatePayment(r.Context(), UserIDFrom(r.Context()), req.Method, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.CancelPending(r.Context(), UserIDFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

func (h *PaymentHandler) CreatePayPalOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.payments.CreatePayPalOrder(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *PaymentHandler) CapturePayPalOrder(w http.ResponseWriter, r *http.Request) {
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
	invoice, err := h.payments.CapturePayPalOrder(r.Context(), UserIDFrom(r.Context()), req.OrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// StripeSuccess is the browser return URL after a paid Stripe Checkout
// session. The session id is the only credential; confirmation re-verifies
// payment state and amount against Stripe before booking.
func (h *PaymentHandler) StripeSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeErrorCode(w, http.StatusBadRequest, "missing_session_id", "session_id query parameter is required")
		return
	}
	invoice, err := h.payments.ConfirmStripeSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (h *PaymentHandler) StripeCancel(w http.ResponseWriter, r *http.Request) {
	// The pending row stays until the user retries, cancels explicitly, or
	// the expiry sweep claims it.
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// NetsWebhook handles provider callbacks for NETS QR payments. It always
// answers 200 so the provider stops retrying; the confirmation latch makes
// redelivery harmless.
func (h *PaymentHandler) NetsWebhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	var payload struct {
		RetrievalRef string `json:"txn_retrieval_ref"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.RetrievalRef == "" {
		logger.Warn("nets webhook with unusable payload", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	status, _, err := h.payments.CheckNetsStatus(r.Context(), payload.RetrievalRef, 0)
	if err != nil {
		logger.Warn("nets webhook processing failed", "retrieval_ref", payload.RetrievalRef, "error", err)
	} else {
		logger.Info("nets webhook processed", "retrieval_ref", payload.RetrievalRef, "status", status)
	}
	w.WriteHeader(http.StatusOK)
}

// StreamPaymentStatus is the SSE channel a client opens after scanning a NETS
// QR. It emits a pending event per poll tick and exactly one terminal event,
// then closes. The loop is bound to the request context, so a client
// disconnect stops provider polling immediately.
func (h *PaymentHandler) StreamPaymentStatus(w http.ResponseWriter, r *http.Request) {
	retrievalRef := mux.Vars(r)["retrievalRef"]
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorCode(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	deadline := time.Now().Add(h.pollCeiling)
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	send := func(event any) {
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	for {
		frontendTimeout := 0
		if !time.Now().Before(deadline) {
			// Last tick: tell the provider the frontend has timed out so it
			// can finalize, then report whatever we see.
			frontendTimeout = 1
		}

		status, invoice, err := h.payments.CheckNetsStatus(ctx, retrievalRef, frontendTimeout)
		switch {
		case status == service.NetsStatusPaid:
			event := map[string]any{"success": true}
			if invoice != nil {
				event["invoice_ref"] = invoice.Header.InvoiceRef
			}
			send(event)
			return
		case status == service.NetsStatusFailed:
			send(map[string]any{"fail": true, "reason": "payment failed"})
			return
		case err != nil:
			// Transient provider trouble reads as pending; the ceiling still
			// bounds the whole wait.
			logger.Warn("nets status poll failed", "retrieval_ref", retrievalRef, "error", err)
		}

		if frontendTimeout == 1 {
			send(map[string]any{"fail": true, "reason": "timeout"})
			return
		}
		send(map[string]any{"pending": true})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
