package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"selfstore-backend/internal/config"
	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/logger"
)

// PayPalClient talks to the PayPal Orders v2 REST API. An access token is
// fetched per call with the client-credentials grant; PayPal caches tokens
// server-side so this stays cheap at our volumes.
type PayPalClient struct {
	cfg        config.PayPalConfig
	currency   string
	httpClient *http.Client
}

func NewPayPalClient(cfg config.PayPalConfig, currency string) *PayPalClient {
	return &PayPalClient{
		cfg:        cfg,
		currency:   currency,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PayPalOrder is the subset of a created order the caller needs: the order id
// to capture later and the approve link to redirect the buyer to.
type PayPalOrder struct {
	OrderID    string
	Status     string
	ApproveURL string
}

// PayPalCapture reports the outcome of capturing an approved order.
type PayPalCapture struct {
	OrderID     string
	CaptureID   string
	Status      string
	AmountCents int64
}

func (c *PayPalClient) baseURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/")
}

func (c *PayPalClient) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL()+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.ProviderError{Provider: "paypal", Op: "token", Err: err}
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken      string `json:"access_token"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &domain.ProviderError{Provider: "paypal", Op: "token", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &domain.ProviderError{Provider: "paypal", Op: "token",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, body.ErrorDescription)}
	}
	return body.AccessToken, nil
}

func (c *PayPalClient) CreateOrder(ctx context.Context, amountCents int64, referenceID, returnURL, cancelURL string) (*PayPalOrder, error) {
	logger.ExternalServiceCall("paypal", "create_order", "amount_cents", amountCents, "reference_id", referenceID)

	token, err := c.accessToken(ctx)
	if err != nil {
		logger.ExternalServiceResult("paypal", "create_order", err)
		return nil, err
	}

	unit := map[string]any{
		"amount": map[string]string{
			"currency_code": c.currency,
			"value":         CentsToDollarString(amountCents),
		},
	}
	if referenceID != "" {
		unit["reference_id"] = referenceID
	}
	payload := map[string]any{
		"intent":         "CAPTURE",
		"purchase_units": []any{unit},
	}
	if returnURL != "" && cancelURL != "" {
		payload["application_context"] = map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		}
	}

	var body struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Message string `json:"message"`
		Links   []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := c.postJSON(ctx, "/v2/checkout/orders", token, payload, &body); err != nil {
		logger.ExternalServiceResult("paypal", "create_order", err)
		return nil, err
	}
	if body.ID == "" {
		err := &domain.ProviderError{Provider: "paypal", Op: "create_order",
			Err: fmt.Errorf("order rejected: %s", body.Message)}
		logger.ExternalServiceResult("paypal", "create_order", err)
		return nil, err
	}

	order := &PayPalOrder{OrderID: body.ID, Status: body.Status}
	for _, link := range body.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
		}
	}
	logger.ExternalServiceResult("paypal", "create_order", nil, "order_id", order.OrderID, "status", order.Status)
	return order, nil
}

// CaptureOrder captures an approved order and reads back the captured amount
// so the caller can verify it against the expected total.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*PayPalCapture, error) {
	logger.ExternalServiceCall("paypal", "capture_order", "order_id", orderID)

	token, err := c.accessToken(ctx)
	if err != nil {
		logger.ExternalServiceResult("paypal", "capture_order", err)
		return nil, err
	}

	var body struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		Message       string `json:"message"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID     string `json:"id"`
					Status string `json:"status"`
					Amount struct {
						Value string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := c.postJSON(ctx, "/v2/checkout/orders/"+orderID+"/capture", token, nil, &body); err != nil {
		logger.ExternalServiceResult("paypal", "capture_order", err)
		return nil, err
	}
	if body.ID == "" {
		err := &domain.ProviderError{Provider: "paypal", Op: "capture_order",
			Err: fmt.Errorf("capture rejected: %s", body.Message)}
		logger.ExternalServiceResult("paypal", "capture_order", err)
		return nil, err
	}

	capture := &PayPalCapture{OrderID: body.ID, Status: body.Status}
	for _, pu := range body.PurchaseUnits {
		for _, cp := range pu.Payments.Captures {
			capture.CaptureID = cp.ID
			dollars, parseErr := strconv.ParseFloat(cp.Amount.Value, 64)
			if parseErr == nil {
				capture.AmountCents += DollarsToCents(dollars)
			}
		}
	}
	logger.ExternalServiceResult("paypal", "capture_order", nil,
		"order_id", capture.OrderID, "status", capture.Status, "amount_cents", capture.AmountCents)
	return capture, nil
}

func (c *PayPalClient) postJSON(ctx context.Context, path, token string, payload, out any) error {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ProviderError{Provider: "paypal", Op: path, Err: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ProviderError{Provider: "paypal", Op: path, Err: err}
	}
	return nil
}
