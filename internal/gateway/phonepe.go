package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
)

const phonePePayPath = "/pg/v1/pay"

// phonePeGateway implements the redirect flow against the PhonePe PG API:
// the signed pay request returns a hosted page URL the customer is sent to,
// and PhonePe redirects back to the storefront when done.
type phonePeGateway struct {
	baseURL    string
	merchantID string
	apiKey     string
	saltIndex  string
	client     *http.Client
	logger     *logrus.Logger
}

// NewPhonePeGateway creates the PhonePe redirect gateway
func NewPhonePeGateway(cfg config.GatewayConfig, client *http.Client, logger *logrus.Logger) PaymentGateway {
	return &phonePeGateway{
		baseURL:    cfg.PhonePeBaseURL,
		merchantID: cfg.PhonePeMerchantID,
		apiKey:     cfg.PhonePeAPIKey,
		saltIndex:  "1",
		client:     client,
		logger:     logger,
	}
}

func (g *phonePeGateway) Method() models.PaymentMethod {
	return models.MethodPhonePe
}

type phonePePayRequest struct {
	MerchantID            string `json:"merchantId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	Amount                int64  `json:"amount"` // paise
	RedirectURL           string `json:"redirectUrl"`
	RedirectMode          string `json:"redirectMode"`
	CallbackURL           string `json:"callbackUrl"`
	MobileNumber          string `json:"mobileNumber,omitempty"`
	PaymentInstrument     struct {
		Type string `json:"type"`
	} `json:"paymentInstrument"`
}

type phonePePayResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		InstrumentResponse    struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

func (g *phonePeGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	payReq := phonePePayRequest{
		MerchantID:            g.merchantID,
		MerchantTransactionID: req.OrderNumber,
		Amount:                int64(req.Amount * 100),
		RedirectURL:           req.ReturnURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           req.ReturnURL,
		MobileNumber:          req.CustomerPhone,
	}
	payReq.PaymentInstrument.Type = "PAY_PAGE"

	payload, err := json.Marshal(payReq)
	if err != nil {
		return nil, newError(models.MethodPhonePe, "ENCODE_FAILED", "failed to encode pay request", err)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return nil, newError(models.MethodPhonePe, "ENCODE_FAILED", "failed to encode request body", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+phonePePayPath, bytes.NewReader(body))
	if err != nil {
		return nil, newError(models.MethodPhonePe, "REQUEST_FAILED", "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", g.checksum(encoded))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, newError(models.MethodPhonePe, "GATEWAY_UNREACHABLE", "pay request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(models.MethodPhonePe, "READ_FAILED", "failed to read response", err)
	}

	var payResp phonePePayResponse
	if err := json.Unmarshal(respBody, &payResp); err != nil {
		return nil, newError(models.MethodPhonePe, "DECODE_FAILED", "failed to decode response", err)
	}
	if !payResp.Success || resp.StatusCode != http.StatusOK {
		g.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"code":   payResp.Code,
		}).Error("PhonePe pay request rejected")
		return nil, newError(models.MethodPhonePe, payResp.Code, payResp.Message, nil)
	}

	redirectURL := payResp.Data.InstrumentResponse.RedirectInfo.URL
	if redirectURL == "" {
		return nil, newError(models.MethodPhonePe, "NO_REDIRECT_URL", "gateway returned no redirect url", nil)
	}

	return &InitiateResult{
		PaymentStatus: models.PaymentStatusPending,
		RedirectURL:   redirectURL,
		TransactionID: payResp.Data.MerchantTransactionID,
	}, nil
}

// checksum signs the base64 payload per the PhonePe spec:
// SHA256(base64Payload + path + saltKey) + "###" + saltIndex
func (g *phonePeGateway) checksum(encodedPayload string) string {
	sum := sha256.Sum256([]byte(encodedPayload + phonePePayPath + g.apiKey))
	return fmt.Sprintf("%s###%s", hex.EncodeToString(sum[:]), g.saltIndex)
}

func (g *phonePeGateway) Capture(ctx context.Context, gatewayOrderID string) (*CaptureResult, error) {
	return nil, ErrCaptureNotSupported
}

// VerifyCallback authenticates the server-to-server notification: the body
// carries a base64 response and X-VERIFY is
// SHA256(base64Response + saltKey) + "###" + saltIndex.
func (g *phonePeGateway) VerifyCallback(ctx context.Context, payload CallbackPayload) (*CaptureResult, error) {
	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(payload.Body, &envelope); err != nil || envelope.Response == "" {
		return nil, newError(models.MethodPhonePe, "INVALID_CALLBACK", "malformed callback body", err)
	}

	sum := sha256.Sum256([]byte(envelope.Response + g.apiKey))
	expected := fmt.Sprintf("%s###%s", hex.EncodeToString(sum[:]), g.saltIndex)
	if !hmac.Equal([]byte(payload.Signature), []byte(expected)) {
		return nil, newError(models.MethodPhonePe, "SIGNATURE_MISMATCH", "callback signature verification failed", nil)
	}

	decoded, err := base64.StdEncoding.DecodeString(envelope.Response)
	if err != nil {
		return nil, newError(models.MethodPhonePe, "INVALID_CALLBACK", "callback response is not base64", err)
	}
	var notification struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Data    struct {
			TransactionID string `json:"transactionId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(decoded, &notification); err != nil {
		return nil, newError(models.MethodPhonePe, "DECODE_FAILED", "failed to decode callback response", err)
	}

	status := models.PaymentStatusUnpaid
	if notification.Success && notification.Code == "PAYMENT_SUCCESS" {
		status = models.PaymentStatusPaid
	}
	return &CaptureResult{PaymentStatus: status, TransactionID: notification.Data.TransactionID}, nil
}
