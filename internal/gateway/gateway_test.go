package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRegistryWithoutCredentials(t *testing.T) {
	registry := NewRegistry(config.GatewayConfig{}, testLogger())

	_, err := registry.Get(models.MethodCOD)
	assert.NoError(t, err)
	_, err = registry.Get(models.MethodManual)
	assert.NoError(t, err)

	// hosted gateways need credentials
	_, err = registry.Get(models.MethodPhonePe)
	assert.Error(t, err)
	_, err = registry.Get(models.MethodPayPal)
	assert.Error(t, err)
}

func TestRegistryWithCredentials(t *testing.T) {
	registry := NewRegistry(config.GatewayConfig{
		PhonePeMerchantID:  "m",
		PhonePeAPIKey:      "k",
		RazorpayKeyID:      "id",
		RazorpayKeySecret:  "secret",
		PayPalClientID:     "cid",
		PayPalClientSecret: "csecret",
	}, testLogger())

	assert.Len(t, registry.Methods(), 5)
}

func TestCODSettlesImmediately(t *testing.T) {
	gw := NewCODGateway()

	result, err := gw.Initiate(context.Background(), InitiateRequest{Amount: 50, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCOD, result.PaymentStatus)
	assert.Empty(t, result.RedirectURL)
	assert.False(t, result.RequiresCapture)

	_, err = gw.Capture(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCaptureNotSupported)
}

func TestManualRequiresTransactionRef(t *testing.T) {
	gw := NewManualGateway()

	_, err := gw.Initiate(context.Background(), InitiateRequest{Amount: 50})
	require.Error(t, err)
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "PROOF_REQUIRED", gwErr.Code)

	result, err := gw.Initiate(context.Background(), InitiateRequest{
		Amount: 50,
		Proof:  &models.ManualPaymentProof{TransactionRef: "TXN-9"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, result.PaymentStatus)
	assert.Equal(t, "TXN-9", result.TransactionID)
}

func TestOfflineGatewaysRejectCallbacks(t *testing.T) {
	_, err := NewCODGateway().VerifyCallback(context.Background(), CallbackPayload{})
	assert.ErrorIs(t, err, ErrCallbackNotSupported)

	_, err = NewManualGateway().VerifyCallback(context.Background(), CallbackPayload{})
	assert.ErrorIs(t, err, ErrCallbackNotSupported)
}

func TestPhonePeVerifyCallback(t *testing.T) {
	saltKey := "salt-key"
	gw := NewPhonePeGateway(config.GatewayConfig{
		PhonePeBaseURL:    "https://example.invalid",
		PhonePeMerchantID: "MERCHANT1",
		PhonePeAPIKey:     saltKey,
	}, nil, testLogger())

	notification := `{"success":true,"code":"PAYMENT_SUCCESS","data":{"transactionId":"T-42"}}`
	encoded := base64.StdEncoding.EncodeToString([]byte(notification))
	body := []byte(`{"response":"` + encoded + `"}`)
	sum := sha256.Sum256([]byte(encoded + saltKey))
	signature := fmt.Sprintf("%s###1", hex.EncodeToString(sum[:]))

	result, err := gw.VerifyCallback(context.Background(), CallbackPayload{
		OrderNumber: "ORD-1",
		Signature:   signature,
		Body:        body,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)
	assert.Equal(t, "T-42", result.TransactionID)

	// a tampered body no longer matches the signature
	tampered := base64.StdEncoding.EncodeToString([]byte(
		`{"success":true,"code":"PAYMENT_SUCCESS","data":{"transactionId":"T-43"}}`))
	_, err = gw.VerifyCallback(context.Background(), CallbackPayload{
		OrderNumber: "ORD-1",
		Signature:   signature,
		Body:        []byte(`{"response":"` + tampered + `"}`),
	})
	require.Error(t, err)
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "SIGNATURE_MISMATCH", gwErr.Code)
}

func TestPhonePeVerifyCallbackFailedPayment(t *testing.T) {
	saltKey := "salt-key"
	gw := NewPhonePeGateway(config.GatewayConfig{
		PhonePeMerchantID: "MERCHANT1",
		PhonePeAPIKey:     saltKey,
	}, nil, testLogger())

	notification := `{"success":false,"code":"PAYMENT_ERROR","data":{"transactionId":"T-42"}}`
	encoded := base64.StdEncoding.EncodeToString([]byte(notification))
	sum := sha256.Sum256([]byte(encoded + saltKey))

	result, err := gw.VerifyCallback(context.Background(), CallbackPayload{
		Signature: fmt.Sprintf("%s###1", hex.EncodeToString(sum[:])),
		Body:      []byte(`{"response":"` + encoded + `"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusUnpaid, result.PaymentStatus)
}

func TestRazorpayVerifyCallback(t *testing.T) {
	secret := "secret"
	gw := NewRazorpayGateway(config.GatewayConfig{
		RazorpayKeyID:     "rzp_test",
		RazorpayKeySecret: secret,
	}, testLogger())

	fields := map[string]string{
		"razorpay_payment_link_id":           "plink_1",
		"razorpay_payment_link_reference_id": "ORD-1",
		"razorpay_payment_link_status":       "paid",
		"razorpay_payment_id":                "pay_9",
	}
	signed := strings.Join([]string{"plink_1", "ORD-1", "paid", "pay_9"}, "|")
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signed))
	signature := hex.EncodeToString(mac.Sum(nil))

	result, err := gw.VerifyCallback(context.Background(), CallbackPayload{
		OrderNumber: "ORD-1",
		Signature:   signature,
		Fields:      fields,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)
	assert.Equal(t, "pay_9", result.TransactionID)

	_, err = gw.VerifyCallback(context.Background(), CallbackPayload{
		OrderNumber: "ORD-1",
		Signature:   "forged",
		Fields:      fields,
	})
	require.Error(t, err)
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "SIGNATURE_MISMATCH", gwErr.Code)
}
