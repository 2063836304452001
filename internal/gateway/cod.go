package gateway

import (
	"context"

	"storefront-service/internal/models"
)

// codGateway settles immediately: no external call, the order carries payment
// status COD until cash is collected at delivery.
type codGateway struct{}

// NewCODGateway creates the cash-on-delivery gateway
func NewCODGateway() PaymentGateway {
	return &codGateway{}
}

func (g *codGateway) Method() models.PaymentMethod {
	return models.MethodCOD
}

func (g *codGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	return &InitiateResult{
		PaymentStatus: models.PaymentStatusCOD,
	}, nil
}

func (g *codGateway) Capture(ctx context.Context, gatewayOrderID string) (*CaptureResult, error) {
	return nil, ErrCaptureNotSupported
}

func (g *codGateway) VerifyCallback(ctx context.Context, payload CallbackPayload) (*CaptureResult, error) {
	return nil, ErrCallbackNotSupported
}
