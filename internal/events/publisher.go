package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/models"
)

// Event subjects published by this service
const (
	SubjectOrderCreated       = "storefront.order.created"
	SubjectOrderStatusChanged = "storefront.order.status_changed"
	SubjectOrderCancelled     = "storefront.order.cancelled"
	SubjectPaymentUpdated     = "storefront.order.payment_updated"
	SubjectCouponRedeemed     = "storefront.coupon.redeemed"
)

// Publisher emits domain events to NATS. A nil connection disables publishing
// without affecting request handling; events are best-effort notifications,
// never part of the write path's durability story.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Logger
}

// NewPublisher connects to NATS. An empty URL or a failed connection yields a
// disabled publisher and a warning, not an error.
func NewPublisher(natsURL string, logger *logrus.Logger) *Publisher {
	if natsURL == "" {
		logger.Warn("NATS URL not configured, event publishing disabled")
		return &Publisher{logger: logger}
	}

	conn, err := nats.Connect(natsURL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		logger.WithError(err).Warn("NATS connection failed, event publishing disabled")
		return &Publisher{logger: logger}
	}

	logger.WithField("url", natsURL).Info("Connected to NATS")
	return &Publisher{conn: conn, logger: logger}
}

// Close drains the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

func (p *Publisher) publish(subject string, payload interface{}) {
	if p.conn == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to encode event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to publish event")
	}
}

// OrderCreated publishes the order-created event
func (p *Publisher) OrderCreated(order *models.Order) {
	p.publish(SubjectOrderCreated, map[string]interface{}{
		"orderId":       order.ID,
		"orderNumber":   order.OrderNumber,
		"customerId":    order.CustomerID,
		"total":         order.Total,
		"currency":      order.Currency,
		"paymentMethod": order.PaymentMethod,
		"timestamp":     time.Now().UTC(),
	})
}

// OrderStatusChanged publishes a fulfillment status transition
func (p *Publisher) OrderStatusChanged(order *models.Order, from, to models.OrderStatus) {
	p.publish(SubjectOrderStatusChanged, map[string]interface{}{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"from":        from,
		"to":          to,
		"timestamp":   time.Now().UTC(),
	})
}

// OrderCancelled publishes an order cancellation
func (p *Publisher) OrderCancelled(order *models.Order, reason string) {
	p.publish(SubjectOrderCancelled, map[string]interface{}{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"reason":      reason,
		"timestamp":   time.Now().UTC(),
	})
}

// PaymentUpdated publishes a payment status transition
func (p *Publisher) PaymentUpdated(order *models.Order, from, to models.PaymentStatus) {
	p.publish(SubjectPaymentUpdated, map[string]interface{}{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"from":        from,
		"to":          to,
		"timestamp":   time.Now().UTC(),
	})
}

// CouponRedeemed publishes a coupon redemption
func (p *Publisher) CouponRedeemed(couponID uuid.UUID, code string, orderID *uuid.UUID, discount float64) {
	p.publish(SubjectCouponRedeemed, map[string]interface{}{
		"couponId":  couponID,
		"code":      code,
		"orderId":   orderID,
		"discount":  discount,
		"timestamp": time.Now().UTC(),
	})
}
