package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
)

// payPalGateway implements the SDK flow: Initiate creates a PayPal order and
// returns its id for the storefront's PayPal buttons; the storefront posts the
// approved id back and Capture finalizes the payment server-side.
type payPalGateway struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
	logger       *logrus.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalGateway creates the PayPal SDK gateway
func NewPayPalGateway(cfg config.GatewayConfig, client *http.Client, logger *logrus.Logger) PaymentGateway {
	return &payPalGateway{
		baseURL:      cfg.PayPalBaseURL,
		clientID:     cfg.PayPalClientID,
		clientSecret: cfg.PayPalClientSecret,
		client:       client,
		logger:       logger,
	}
}

func (g *payPalGateway) Method() models.PaymentMethod {
	return models.MethodPayPal
}

// token returns a cached OAuth access token, refreshing when expired
func (g *payPalGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(g.clientID, g.clientSecret)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	g.accessToken = tokenResp.AccessToken
	// refresh a minute early
	g.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return g.accessToken, nil
}

func (g *payPalGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, newError(models.MethodPayPal, "AUTH_FAILED", "failed to obtain access token", err)
	}

	orderReq := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"reference_id": req.OrderNumber,
				"amount": map[string]string{
					"currency_code": req.Currency,
					"value":         fmt.Sprintf("%.2f", req.Amount),
				},
			},
		},
	}
	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, newError(models.MethodPayPal, "ENCODE_FAILED", "failed to encode order request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return nil, newError(models.MethodPayPal, "REQUEST_FAILED", "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, newError(models.MethodPayPal, "GATEWAY_UNREACHABLE", "create order failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(models.MethodPayPal, "READ_FAILED", "failed to read response", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		g.logger.WithField("status", resp.StatusCode).Error("PayPal create order rejected")
		return nil, newError(models.MethodPayPal, "CREATE_FAILED",
			fmt.Sprintf("create order returned %d", resp.StatusCode), nil)
	}

	var orderResp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(respBody, &orderResp); err != nil {
		return nil, newError(models.MethodPayPal, "DECODE_FAILED", "failed to decode response", err)
	}
	if orderResp.ID == "" {
		return nil, newError(models.MethodPayPal, "NO_ORDER_ID", "gateway returned no order id", nil)
	}

	return &InitiateResult{
		PaymentStatus:   models.PaymentStatusPending,
		GatewayOrderID:  orderResp.ID,
		RequiresCapture: true,
	}, nil
}

func (g *payPalGateway) Capture(ctx context.Context, gatewayOrderID string) (*CaptureResult, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, newError(models.MethodPayPal, "AUTH_FAILED", "failed to obtain access token", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v2/checkout/orders/%s/capture", g.baseURL, gatewayOrderID), nil)
	if err != nil {
		return nil, newError(models.MethodPayPal, "REQUEST_FAILED", "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, newError(models.MethodPayPal, "GATEWAY_UNREACHABLE", "capture failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(models.MethodPayPal, "READ_FAILED", "failed to read response", err)
	}

	var captureResp struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.Unmarshal(respBody, &captureResp); err != nil {
		return nil, newError(models.MethodPayPal, "DECODE_FAILED", "failed to decode response", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, newError(models.MethodPayPal, "CAPTURE_REJECTED",
			fmt.Sprintf("capture returned %d", resp.StatusCode), nil)
	}
	if captureResp.Status != "COMPLETED" {
		return &CaptureResult{PaymentStatus: models.PaymentStatusUnpaid}, nil
	}

	transactionID := captureResp.ID
	if len(captureResp.PurchaseUnits) > 0 && len(captureResp.PurchaseUnits[0].Payments.Captures) > 0 {
		transactionID = captureResp.PurchaseUnits[0].Payments.Captures[0].ID
	}

	return &CaptureResult{
		PaymentStatus: models.PaymentStatusPaid,
		TransactionID: transactionID,
	}, nil
}

// VerifyCallback authenticates a return notification by fetching the order
// from PayPal instead of trusting posted fields. The reference id must match
// the order number the callback claims to settle.
func (g *payPalGateway) VerifyCallback(ctx context.Context, payload CallbackPayload) (*CaptureResult, error) {
	gatewayOrderID := payload.Fields["token"]
	if gatewayOrderID == "" {
		gatewayOrderID = payload.Fields["gateway_order_id"]
	}
	if gatewayOrderID == "" {
		return nil, newError(models.MethodPayPal, "INVALID_CALLBACK", "missing gateway order id", nil)
	}

	token, err := g.token(ctx)
	if err != nil {
		return nil, newError(models.MethodPayPal, "AUTH_FAILED", "failed to obtain access token", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/checkout/orders/%s", g.baseURL, gatewayOrderID), nil)
	if err != nil {
		return nil, newError(models.MethodPayPal, "REQUEST_FAILED", "failed to build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, newError(models.MethodPayPal, "GATEWAY_UNREACHABLE", "order lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(models.MethodPayPal, "ORDER_NOT_FOUND",
			fmt.Sprintf("order lookup returned %d", resp.StatusCode), nil)
	}

	var orderResp struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			ReferenceID string `json:"reference_id"`
		} `json:"purchase_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, newError(models.MethodPayPal, "DECODE_FAILED", "failed to decode response", err)
	}
	if len(orderResp.PurchaseUnits) == 0 || orderResp.PurchaseUnits[0].ReferenceID != payload.OrderNumber {
		return nil, newError(models.MethodPayPal, "ORDER_MISMATCH",
			"gateway order does not reference this order", nil)
	}

	status := models.PaymentStatusUnpaid
	if orderResp.Status == "COMPLETED" {
		status = models.PaymentStatusPaid
	}
	return &CaptureResult{PaymentStatus: status, TransactionID: orderResp.ID}, nil
}
