package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	razorpayLib "github.com/razorpay/razorpay-go"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
)

// razorpayGateway implements the redirect flow using Razorpay payment links:
// a link is created per order and the customer is sent to its hosted page.
type razorpayGateway struct {
	client    *razorpayLib.Client
	keySecret string
	logger    *logrus.Logger
}

// NewRazorpayGateway creates the Razorpay redirect gateway
func NewRazorpayGateway(cfg config.GatewayConfig, logger *logrus.Logger) PaymentGateway {
	return &razorpayGateway{
		client:    razorpayLib.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		keySecret: cfg.RazorpayKeySecret,
		logger:    logger,
	}
}

func (g *razorpayGateway) Method() models.PaymentMethod {
	return models.MethodRazorpay
}

func (g *razorpayGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	linkData := map[string]interface{}{
		"amount":          int64(req.Amount * 100), // paise
		"currency":        strings.ToUpper(req.Currency),
		"reference_id":    req.OrderNumber,
		"description":     fmt.Sprintf("Payment for order %s", req.OrderNumber),
		"callback_url":    req.ReturnURL,
		"callback_method": "get",
		"notes": map[string]interface{}{
			"order_id": req.OrderID.String(),
		},
	}
	if req.CustomerEmail != "" {
		customer := map[string]interface{}{"email": req.CustomerEmail}
		if req.CustomerPhone != "" {
			customer["contact"] = req.CustomerPhone
		}
		linkData["customer"] = customer
	}

	link, err := g.client.PaymentLink.Create(linkData, nil)
	if err != nil {
		g.logger.WithError(err).Error("Razorpay payment link rejected")
		return nil, newError(models.MethodRazorpay, "LINK_CREATE_FAILED", "payment link creation failed", err)
	}

	shortURL, _ := link["short_url"].(string)
	linkID, _ := link["id"].(string)
	if shortURL == "" {
		return nil, newError(models.MethodRazorpay, "NO_REDIRECT_URL", "gateway returned no payment link url", nil)
	}

	return &InitiateResult{
		PaymentStatus: models.PaymentStatusPending,
		RedirectURL:   shortURL,
		TransactionID: linkID,
	}, nil
}

func (g *razorpayGateway) Capture(ctx context.Context, gatewayOrderID string) (*CaptureResult, error) {
	return nil, ErrCaptureNotSupported
}

// VerifyCallback authenticates the payment-link callback. Razorpay signs
// payment_link_id|payment_link_reference_id|payment_link_status|payment_id
// with the key secret.
func (g *razorpayGateway) VerifyCallback(ctx context.Context, payload CallbackPayload) (*CaptureResult, error) {
	linkID := payload.Fields["razorpay_payment_link_id"]
	referenceID := payload.Fields["razorpay_payment_link_reference_id"]
	linkStatus := payload.Fields["razorpay_payment_link_status"]
	paymentID := payload.Fields["razorpay_payment_id"]
	if linkID == "" || payload.Signature == "" {
		return nil, newError(models.MethodRazorpay, "INVALID_CALLBACK", "missing payment link fields", nil)
	}

	signed := strings.Join([]string{linkID, referenceID, linkStatus, paymentID}, "|")
	if !hmac.Equal([]byte(payload.Signature), []byte(g.computeHMAC(signed))) {
		return nil, newError(models.MethodRazorpay, "SIGNATURE_MISMATCH", "callback signature verification failed", nil)
	}

	status := models.PaymentStatusUnpaid
	if linkStatus == "paid" {
		status = models.PaymentStatusPaid
	}
	return &CaptureResult{PaymentStatus: status, TransactionID: paymentID}, nil
}

func (g *razorpayGateway) computeHMAC(payload string) string {
	h := hmac.New(sha256.New, []byte(g.keySecret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
