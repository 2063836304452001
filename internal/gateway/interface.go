package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"storefront-service/internal/models"
)

// InitiateRequest carries everything a gateway needs to start a payment.
// Amounts are in major currency units; gateways convert to minor units where
// their APIs require it.
type InitiateRequest struct {
	OrderID       uuid.UUID
	OrderNumber   string
	Amount        float64
	Currency      string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
	CancelURL     string

	// Proof is set for offline methods that attach payment evidence at
	// checkout time.
	Proof *models.ManualPaymentProof
}

// InitiateResult describes what checkout should do after a gateway accepted
// the payment initiation.
type InitiateResult struct {
	// PaymentStatus to stamp on the order (COD settles immediately, redirect
	// and SDK methods stay PENDING).
	PaymentStatus models.PaymentStatus

	// RedirectURL is set by redirect-family gateways; the storefront sends the
	// customer there to complete payment.
	RedirectURL string

	// GatewayOrderID is set by SDK-family gateways; the storefront hands it to
	// the gateway's client widget and posts it back for capture.
	GatewayOrderID string

	// RequiresCapture is true when a later server-side capture call finalizes
	// the payment.
	RequiresCapture bool

	TransactionID string
}

// CaptureResult is the outcome of finalizing an SDK-family payment.
type CaptureResult struct {
	PaymentStatus models.PaymentStatus
	TransactionID string
}

// CallbackPayload carries a gateway's payment notification together with the
// material needed to authenticate it.
type CallbackPayload struct {
	OrderNumber string

	// Signature is the transport signature (X-VERIFY for PhonePe, the
	// razorpay_signature for Razorpay payment links).
	Signature string

	// Body is the raw notification body for gateways that sign the body.
	Body []byte

	// Fields holds query/form parameters for gateways that sign a field
	// concatenation instead of the body.
	Fields map[string]string
}

// PaymentGateway is implemented once per payment method. Implementations are
// stateless and safe for concurrent use.
type PaymentGateway interface {
	Method() models.PaymentMethod
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	// Capture finalizes an SDK-family payment. Gateways that settle at
	// initiation return ErrCaptureNotSupported.
	Capture(ctx context.Context, gatewayOrderID string) (*CaptureResult, error)
	// VerifyCallback authenticates a payment notification before any payment
	// status moves. An unauthenticated payload must come back as an error,
	// never as an UNPAID result.
	VerifyCallback(ctx context.Context, payload CallbackPayload) (*CaptureResult, error)
}

// ErrCaptureNotSupported is returned by gateways that have no capture phase
var ErrCaptureNotSupported = fmt.Errorf("gateway does not support capture")

// ErrCallbackNotSupported is returned by gateways that never notify
var ErrCallbackNotSupported = fmt.Errorf("gateway does not send payment callbacks")

// Error wraps a gateway failure with the method and a stable code so handlers
// can map it to the error envelope without string matching.
type Error struct {
	Method  models.PaymentMethod
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s gateway: %s: %v", e.Method, e.Message, e.Err)
	}
	return fmt.Sprintf("%s gateway: %s", e.Method, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(method models.PaymentMethod, code, message string, err error) *Error {
	return &Error{Method: method, Code: code, Message: message, Err: err}
}
