package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/gateway"
	"storefront-service/internal/services"
)

// PaymentHandler receives gateway payment notifications for redirect-family
// payments. Every notification is authenticated against the gateway before
// any payment status moves.
type PaymentHandler struct {
	orders   services.OrderService
	gateways *gateway.Registry
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(orders services.OrderService, gateways *gateway.Registry, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{orders: orders, gateways: gateways, logger: logger}
}

// Callback godoc
// @Summary Process a gateway payment notification
// @Description Verifies the gateway signature, then moves payment status to PAID or UNPAID; fulfillment status is never touched here
// @Tags payments
// @Accept json
// @Produce json
// @Param orderNumber path string true "Order number"
// @Success 200 {object} models.Order
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /payments/callback/{orderNumber} [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	order, err := h.orders.GetByOrderNumber(orderNumber)
	if err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
		return
	}

	gw, err := h.gateways.Get(order.PaymentMethod)
	if err != nil {
		respondError(c, http.StatusBadRequest, "CALLBACK_NOT_SUPPORTED", err.Error())
		return
	}

	body, _ := io.ReadAll(c.Request.Body)
	fields := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	signature := c.GetHeader("X-VERIFY")
	if signature == "" {
		signature = c.GetHeader("X-Razorpay-Signature")
	}
	if signature == "" {
		signature = fields["razorpay_signature"]
	}

	outcome, err := gw.VerifyCallback(c.Request.Context(), gateway.CallbackPayload{
		OrderNumber: orderNumber,
		Signature:   signature,
		Body:        body,
		Fields:      fields,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrCallbackNotSupported) {
			respondError(c, http.StatusBadRequest, "CALLBACK_NOT_SUPPORTED",
				"this payment method does not send callbacks")
			return
		}
		h.logger.WithError(err).WithField("order_number", orderNumber).Warn("Gateway callback rejected")
		respondError(c, http.StatusUnauthorized, "CALLBACK_REJECTED",
			"callback could not be authenticated")
		return
	}

	updated, err := h.orders.UpdatePaymentStatus(order.ID, outcome.PaymentStatus, outcome.TransactionID, "gateway")
	if err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_number": orderNumber,
		"status":       outcome.PaymentStatus,
	}).Info("Gateway callback processed")

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}
