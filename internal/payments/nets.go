package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"selfstore-backend/internal/config"
	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
)

// NetsClient talks to the NETS QR sandbox gateway. A QR request returns a
// base64 PNG plus a retrieval reference; the reference is then polled (or
// pushed via webhook) until the buyer scans and pays.
type NetsClient struct {
	cfg        config.NetsConfig
	httpClient *http.Client
}

func NewNetsClient(cfg config.NetsConfig) *NetsClient {
	return &NetsClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type NetsQR struct {
	// QRCodeDataURL is a data:image/png;base64 URL ready for an <img> tag.
	QRCodeDataURL string
	RetrievalRef  string
}

type NetsQueryResult struct {
	ResponseCode string
	TxnStatus    int
}

// Paid requires both fields: the gateway can return response_code "00" on a
// still-pending transaction, so txn_status must also report completion.
func (r *NetsQueryResult) Paid() bool {
	return r.ResponseCode == "00" && r.TxnStatus == 1
}

func (c *NetsClient) RequestQR(ctx context.Context, amountCents int64, txnID string) (*NetsQR, error) {
	logger.ExternalServiceCall("nets", "request_qr", "amount_cents", amountCents, "txn_id", txnID)

	if txnID == "" {
		txnID = "sandbox_nets|m|" + uuid.NewString()
	}
	payload := map[string]any{
		"txn_id":         txnID,
		"amt_in_dollars": float64(amountCents) / 100,
		"notify_mobile":  0,
	}

	var body struct {
		Result struct {
			Data struct {
				QRCode          string `json:"qr_code"`
				TxnRetrievalRef string `json:"txn_retrieval_ref"`
			} `json:"data"`
		} `json:"result"`
	}
	if err := c.post(ctx, c.cfg.RequestPath, payload, &body); err != nil {
		logger.ExternalServiceResult("nets", "request_qr", err)
		return nil, err
	}
	if body.Result.Data.TxnRetrievalRef == "" {
		err := &domain.ProviderError{Provider: "nets", Op: "request_qr",
			Err: fmt.Errorf("gateway returned no retrieval reference")}
		logger.ExternalServiceResult("nets", "request_qr", err)
		return nil, err
	}

	qr := &NetsQR{RetrievalRef: body.Result.Data.TxnRetrievalRef}
	if body.Result.Data.QRCode != "" {
		qr.QRCodeDataURL = "data:image/png;base64," + body.Result.Data.QRCode
	}
	logger.ExternalServiceResult("nets", "request_qr", nil, "retrieval_ref", qr.RetrievalRef)
	return qr, nil
}

// QueryTxn asks the gateway for the current state of a QR transaction.
// frontendTimeout of 1 tells the gateway the client-side wait has expired.
func (c *NetsClient) QueryTxn(ctx context.Context, retrievalRef string, frontendTimeout int) (*NetsQueryResult, error) {
	logger.ExternalServiceCall("nets", "query_txn", "retrieval_ref", retrievalRef)

	payload := map[string]any{
		"txn_retrieval_ref":       retrievalRef,
		"frontend_timeout_status": frontendTimeout,
	}

	var body struct {
		Result struct {
			Data struct {
				ResponseCode string `json:"response_code"`
				TxnStatus    int    `json:"txn_status"`
			} `json:"data"`
		} `json:"result"`
	}
	if err := c.post(ctx, c.cfg.QueryPath, payload, &body); err != nil {
		logger.ExternalServiceResult("nets", "query_txn", err)
		return nil, err
	}

	result := &NetsQueryResult{
		ResponseCode: body.Result.Data.ResponseCode,
		TxnStatus:    body.Result.Data.TxnStatus,
	}
	logger.ExternalServiceResult("nets", "query_txn", nil,
		"response_code", result.ResponseCode, "txn_status", result.TxnStatus)
	return result, nil
}

func (c *NetsClient) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", strings.TrimSpace(c.cfg.APIKey))
	req.Header.Set("project-id", strings.TrimSpace(c.cfg.ProjectID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ProviderError{Provider: "nets", Op: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.ProviderError{Provider: "nets", Op: path,
			Err: fmt.Errorf("gateway status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ProviderError{Provider: "nets", Op: path, Err: err}
	}
	return nil
}
