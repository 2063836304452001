package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"
)

// CheckoutHandler serves the storefront checkout surface
type CheckoutHandler struct {
	checkout   services.CheckoutService
	configRepo repository.PaymentConfigRepository
	cartStore  repository.CartStore
	logger     *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout services.CheckoutService, configRepo repository.PaymentConfigRepository, cartStore repository.CartStore, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:   checkout,
		configRepo: configRepo,
		cartStore:  cartStore,
		logger:     logger,
	}
}

// Checkout godoc
// @Summary Place an order
// @Description Validates the draft, prices the cart, initiates payment and creates the order
// @Tags storefront
// @Accept json
// @Produce json
// @Param X-Idempotency-Key header string false "Idempotency key for safe retries"
// @Param draft body models.CheckoutDraft true "Checkout draft"
// @Success 201 {object} models.CheckoutResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /storefront/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var draft models.CheckoutDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// The token, not the request body, decides who the customer is.
	draft.CustomerID = middleware.CustomerIDFromContext(c)
	draft.IdempotencyKey = c.GetHeader("X-Idempotency-Key")

	if draft.CustomerID != nil && !middleware.EmailVerifiedFromContext(c) {
		respondError(c, http.StatusForbidden, "EMAIL_NOT_VERIFIED",
			"verify your email address before placing an order")
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), &draft)
	if err != nil {
		// A hosted gateway can fail after the order row is written; the order
		// stands and the customer is told to retry payment.
		if result != nil && result.Order != nil {
			h.logger.WithError(err).WithField("order_id", result.Order.ID).Error("Payment initiation failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error": models.Error{
					Code:    "GATEWAY_INITIATION_FAILED",
					Message: "the order was created but payment could not be started; retry payment",
				},
				"data": result,
			})
			return
		}
		h.logger.WithError(err).Warn("Checkout rejected")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CapturePayment godoc
// @Summary Capture an SDK-flow payment
// @Description Finalizes a gateway payment after the storefront widget reports approval
// @Tags storefront
// @Accept json
// @Produce json
// @Param request body models.CaptureRequest true "Capture request"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /storefront/checkout/capture [post]
func (h *CheckoutHandler) CapturePayment(c *gin.Context) {
	var req models.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := h.checkout.CapturePayment(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Error("Payment capture failed")
		respondError(c, http.StatusBadGateway, "CAPTURE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, order)
}

// SaveCartRequest replaces the server-side cart contents
type SaveCartRequest struct {
	Lines []models.CartLine `json:"lines" binding:"required"`
}

// GetCart godoc
// @Summary Fetch the server-side cart
// @Tags storefront
// @Produce json
// @Param cartId path string true "Cart ID"
// @Success 200 {object} repository.Cart
// @Router /storefront/cart/{cartId} [get]
func (h *CheckoutHandler) GetCart(c *gin.Context) {
	cart, err := h.cartStore.Get(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if cart == nil {
		cart = &repository.Cart{Lines: []models.CartLine{}}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
}

// SaveCart godoc
// @Summary Replace the server-side cart
// @Tags storefront
// @Accept json
// @Produce json
// @Param cartId path string true "Cart ID"
// @Param request body SaveCartRequest true "Cart lines"
// @Success 200 {object} repository.Cart
// @Failure 400 {object} models.ErrorResponse
// @Router /storefront/cart/{cartId} [put]
func (h *CheckoutHandler) SaveCart(c *gin.Context) {
	var req SaveCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cart := &repository.Cart{Lines: req.Lines}
	if err := h.cartStore.Save(c.Request.Context(), c.Param("cartId"), cart); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
}

// ListPaymentMethods godoc
// @Summary List enabled payment methods
// @Tags storefront
// @Produce json
// @Success 200 {array} models.PaymentMethodConfig
// @Router /storefront/payment-methods [get]
func (h *CheckoutHandler) ListPaymentMethods(c *gin.Context) {
	configs, err := h.configRepo.List(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": configs})
}
