package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
)

// Registry holds the configured payment gateways keyed by method
type Registry struct {
	gateways map[models.PaymentMethod]PaymentGateway
	logger   *logrus.Logger
}

// NewRegistry builds the gateway registry from configuration. COD and manual
// are always available; hosted gateways are registered only when their
// credentials are present.
func NewRegistry(cfg config.GatewayConfig, logger *logrus.Logger) *Registry {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	r := &Registry{
		gateways: make(map[models.PaymentMethod]PaymentGateway),
		logger:   logger,
	}

	r.register(NewCODGateway())
	r.register(NewManualGateway())

	if cfg.PhonePeMerchantID != "" && cfg.PhonePeAPIKey != "" {
		r.register(NewPhonePeGateway(cfg, httpClient, logger))
	}
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		r.register(NewRazorpayGateway(cfg, logger))
	}
	if cfg.PayPalClientID != "" && cfg.PayPalClientSecret != "" {
		r.register(NewPayPalGateway(cfg, httpClient, logger))
	}

	return r
}

func (r *Registry) register(g PaymentGateway) {
	r.gateways[g.Method()] = g
	r.logger.WithField("method", g.Method()).Info("Payment gateway registered")
}

// Get returns the gateway for a payment method
func (r *Registry) Get(method models.PaymentMethod) (PaymentGateway, error) {
	g, ok := r.gateways[method]
	if !ok {
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}
	return g, nil
}

// Methods lists the registered payment methods
func (r *Registry) Methods() []models.PaymentMethod {
	methods := make([]models.PaymentMethod, 0, len(r.gateways))
	for m := range r.gateways {
		methods = append(methods, m)
	}
	return methods
}
