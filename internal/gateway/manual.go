package gateway

import (
	"context"

	"storefront-service/internal/models"
)

// manualGateway accepts offline transfers. The customer submits proof
// (transaction reference, optional screenshot) and the order stays PENDING
// until staff verify it and mark it paid.
type manualGateway struct{}

// NewManualGateway creates the manual/offline payment gateway
func NewManualGateway() PaymentGateway {
	return &manualGateway{}
}

func (g *manualGateway) Method() models.PaymentMethod {
	return models.MethodManual
}

func (g *manualGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	if req.Proof == nil || req.Proof.TransactionRef == "" {
		return nil, newError(models.MethodManual, "PROOF_REQUIRED",
			"manual payment requires a transaction reference", nil)
	}
	return &InitiateResult{
		PaymentStatus: models.PaymentStatusPending,
		TransactionID: req.Proof.TransactionRef,
	}, nil
}

func (g *manualGateway) Capture(ctx context.Context, gatewayOrderID string) (*CaptureResult, error) {
	return nil, ErrCaptureNotSupported
}

func (g *manualGateway) VerifyCallback(ctx context.Context, payload CallbackPayload) (*CaptureResult, error) {
	// staff verify the submitted proof by hand, there is no gateway to call back
	return nil, ErrCallbackNotSupported
}
