package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/config"
	"storefront-service/internal/events"
	"storefront-service/internal/gateway"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// ValidationError rejects a checkout before any order row is written. The
// code is stable and safe to show in the storefront.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func validationErr(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// CheckoutService orchestrates the checkout sequence: validate, price,
// persist the order, initiate payment, redeem the coupon, clear the cart.
type CheckoutService interface {
	Checkout(ctx context.Context, draft *models.CheckoutDraft) (*models.CheckoutResult, error)
	CapturePayment(ctx context.Context, req *models.CaptureRequest) (*models.Order, error)
}

type checkoutService struct {
	orderRepo  repository.OrderRepository
	configRepo repository.PaymentConfigRepository
	cartStore  repository.CartStore
	coupons    CouponService
	shipping   ShippingService
	pricing    PricingService
	gateways   *gateway.Registry
	publisher  *events.Publisher
	appCfg     config.AppConfig
	logger     *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	configRepo repository.PaymentConfigRepository,
	cartStore repository.CartStore,
	coupons CouponService,
	shipping ShippingService,
	pricing PricingService,
	gateways *gateway.Registry,
	publisher *events.Publisher,
	appCfg config.AppConfig,
	logger *logrus.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:  orderRepo,
		configRepo: configRepo,
		cartStore:  cartStore,
		coupons:    coupons,
		shipping:   shipping,
		pricing:    pricing,
		gateways:   gateways,
		publisher:  publisher,
		appCfg:     appCfg,
		logger:     logger,
	}
}

// Checkout runs the full checkout sequence. The order row is created before
// coupon redemption and cart clearing, so those side effects only ever happen
// for an order that demonstrably exists. A coupon redemption failure after
// creation is reported as ORDER_CREATED_COUPON_FAILED rather than unwinding
// the order.
func (s *checkoutService) Checkout(ctx context.Context, draft *models.CheckoutDraft) (*models.CheckoutResult, error) {
	if err := s.validateDraft(draft); err != nil {
		return &models.CheckoutResult{State: models.CheckoutCreationFailed}, err
	}

	// Idempotent replay: a retried request with the same key returns the
	// original order without re-running any side effects.
	if draft.IdempotencyKey != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(draft.IdempotencyKey)
		if err != nil {
			return &models.CheckoutResult{State: models.CheckoutCreationFailed},
				fmt.Errorf("idempotency lookup failed: %w", err)
		}
		if existing != nil {
			return &models.CheckoutResult{State: models.CheckoutOrderCreated, Order: existing}, nil
		}
	}

	subtotal := s.pricing.Subtotal(draft.Items)
	if subtotal <= 0 {
		return &models.CheckoutResult{State: models.CheckoutCreationFailed},
			validationErr("EMPTY_CART", "cart subtotal must be positive")
	}

	resolution, err := s.shipping.ResolveCharge(draft.ShippingRateID, subtotal)
	if err != nil {
		return &models.CheckoutResult{State: models.CheckoutCreationFailed}, err
	}

	// Coupon pre-validation happens before anything is written. A rejected
	// coupon never blocks the order: the checkout proceeds at full price and
	// the typed reason travels back so the storefront can tell the customer.
	var coupon *models.Coupon
	var discount float64
	var couponRejection *ValidationOutcome
	if draft.CouponCode != "" {
		outcome, err := s.coupons.Validate(draft.CouponCode, draft.CustomerID, draft.Items, subtotal)
		if err != nil {
			return &models.CheckoutResult{State: models.CheckoutCreationFailed}, err
		}
		if outcome.Valid {
			coupon = outcome.Coupon
			discount = outcome.DiscountAmount
		} else {
			couponRejection = outcome
			s.logger.WithFields(logrus.Fields{
				"coupon": draft.CouponCode,
				"reason": outcome.ReasonCode,
			}).Info("Coupon rejected, checkout proceeds without it")
		}
	}

	totals := s.pricing.Totals(draft.Items, coupon, resolution.Charge)

	gw, err := s.gateways.Get(draft.PaymentMethod)
	if err != nil {
		return &models.CheckoutResult{State: models.CheckoutCreationFailed},
			validationErr("UNSUPPORTED_PAYMENT_METHOD", err.Error())
	}

	orderNumber := fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	currency := draft.Currency
	if currency == "" {
		currency = s.appCfg.Currency
	}
	initReq := gateway.InitiateRequest{
		OrderNumber:   orderNumber,
		Amount:        totals.Total,
		Currency:      currency,
		CustomerEmail: draft.Contact.Email,
		CustomerPhone: draft.Contact.Phone,
		ReturnURL:     fmt.Sprintf("%s/checkout/result/%s", s.appCfg.StorefrontBaseURL, orderNumber),
		CancelURL:     fmt.Sprintf("%s/checkout", s.appCfg.StorefrontBaseURL),
		Proof:         draft.PaymentProof,
	}

	// Offline methods settle (or validate their proof) without an external
	// call, so they run before the order row is written. Hosted gateways are
	// called after creation: their failure leaves a pending order the customer
	// can retry, never a charge without an order.
	var initResult *gateway.InitiateResult
	hosted := draft.PaymentMethod != models.MethodCOD && draft.PaymentMethod != models.MethodManual
	if !hosted {
		initResult, err = gw.Initiate(ctx, initReq)
		if err != nil {
			return &models.CheckoutResult{State: models.CheckoutCreationFailed}, err
		}
	}

	order := s.buildOrder(draft, orderNumber, currency, coupon, discount, totals, resolution, initResult)
	if err := s.orderRepo.Create(order); err != nil {
		return &models.CheckoutResult{State: models.CheckoutCreationFailed},
			fmt.Errorf("failed to create order: %w", err)
	}

	_ = s.orderRepo.AddTimelineEvent(order.ID, "order_created",
		fmt.Sprintf("Order placed via %s", draft.PaymentMethod), "storefront")

	result := &models.CheckoutResult{
		State: models.CheckoutOrderCreated,
		Order: order,
	}
	if couponRejection != nil {
		result.CouponRejection = couponRejection.ReasonCode
		result.CouponError = couponRejection.Message
	}

	if coupon != nil {
		if err := s.coupons.Redeem(coupon, draft.CustomerID, &order.ID, discount, totals.Total); err != nil {
			// The order stands; flag it for review instead of unwinding.
			result.State = models.CheckoutOrderCreatedCouponFailed
			result.CouponError = err.Error()
			_ = s.orderRepo.AddTimelineEvent(order.ID, "coupon_redemption_failed",
				fmt.Sprintf("Coupon %s applied but redemption bookkeeping failed", coupon.Code), "system")
			s.logger.WithFields(logrus.Fields{
				"order_id": order.ID,
				"coupon":   coupon.Code,
			}).WithError(err).Warn("Order created but coupon redemption failed")
		} else {
			s.publisher.CouponRedeemed(coupon.ID, coupon.Code, &order.ID, discount)
		}
	}

	if hosted {
		initReq.OrderID = order.ID
		initResult, err = gw.Initiate(ctx, initReq)
		if err != nil {
			// Order stays pending and the cart is kept so the customer can
			// retry payment.
			_ = s.orderRepo.AddTimelineEvent(order.ID, "payment_initiation_failed",
				fmt.Sprintf("Payment initiation via %s failed", draft.PaymentMethod), "system")
			s.logger.WithFields(logrus.Fields{
				"order_id": order.ID,
				"method":   draft.PaymentMethod,
			}).WithError(err).Error("Payment initiation failed after order creation")
			s.publisher.OrderCreated(order)
			return result, err
		}
		if initResult.TransactionID != "" {
			if err := s.orderRepo.UpdatePaymentStatus(order.ID, order.PaymentStatus, initResult.TransactionID); err != nil {
				s.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to store gateway transaction id")
			} else {
				order.TransactionID = initResult.TransactionID
			}
		}
		result.RedirectURL = initResult.RedirectURL
		result.GatewayOrderID = initResult.GatewayOrderID
	}

	// The cart is only cleared once the order exists and payment is underway,
	// and never for buy-now purchases that bypassed it.
	if !draft.BuyNow && draft.CartID != "" {
		if err := s.cartStore.Clear(ctx, draft.CartID); err != nil {
			s.logger.WithError(err).WithField("cart_id", draft.CartID).Warn("Failed to clear cart")
		} else {
			result.CartCleared = true
		}
	}

	s.publisher.OrderCreated(order)
	return result, nil
}

func (s *checkoutService) validateDraft(draft *models.CheckoutDraft) error {
	if len(draft.Items) == 0 {
		return validationErr("EMPTY_CART", "at least one item is required")
	}
	for _, line := range draft.Items {
		if line.Quantity < 1 {
			return validationErr("INVALID_QUANTITY", "item quantities must be at least 1")
		}
		if line.UnitPrice < 0 {
			return validationErr("INVALID_PRICE", "item prices cannot be negative")
		}
	}
	if strings.TrimSpace(draft.Contact.Email) == "" {
		return validationErr("CONTACT_REQUIRED", "a contact email is required")
	}
	if strings.TrimSpace(draft.Address.Address) == "" {
		return validationErr("ADDRESS_REQUIRED", "a delivery address is required")
	}
	if draft.CustomerID == nil && !s.appCfg.AllowGuestCheckout {
		return validationErr("GUEST_CHECKOUT_DISABLED", "sign in to place an order")
	}

	cfg, err := s.configRepo.GetByCode(draft.PaymentMethod)
	if err != nil {
		return validationErr("UNSUPPORTED_PAYMENT_METHOD",
			fmt.Sprintf("payment method %s is not available", draft.PaymentMethod))
	}
	if !cfg.IsEnabled {
		return validationErr("PAYMENT_METHOD_DISABLED",
			fmt.Sprintf("payment method %s is currently disabled", draft.PaymentMethod))
	}
	return nil
}

func (s *checkoutService) buildOrder(
	draft *models.CheckoutDraft,
	orderNumber, currency string,
	coupon *models.Coupon,
	discount float64,
	totals Totals,
	resolution *ShippingResolution,
	initResult *gateway.InitiateResult,
) *models.Order {
	// Hosted gateways are initiated after creation, so the order starts out
	// awaiting payment. COD settles on delivery and is confirmed immediately.
	status := models.OrderStatusPending
	paymentStatus := models.PaymentStatusPending
	transactionID := ""
	if initResult != nil {
		paymentStatus = initResult.PaymentStatus
		transactionID = initResult.TransactionID
		if paymentStatus == models.PaymentStatusCOD {
			status = models.OrderStatusConfirmed
		}
	}

	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    orderNumber,
		CustomerID:     draft.CustomerID,
		Status:         status,
		PaymentStatus:  paymentStatus,
		PaymentMethod:  draft.PaymentMethod,
		Currency:       currency,
		Subtotal:       totals.Subtotal,
		ShippingCost:   totals.ShippingCost,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		TransactionID:  transactionID,
		Notes:          draft.Notes,
	}

	if draft.IdempotencyKey != "" {
		key := draft.IdempotencyKey
		order.IdempotencyKey = &key
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
		order.CouponID = &coupon.ID
	}
	if draft.PaymentProof != nil {
		if data, err := json.Marshal(draft.PaymentProof); err == nil {
			order.PaymentProof = models.JSONB(data)
		}
	}

	for _, line := range draft.Items {
		name := draft.ItemNames[line.ProductID.String()]
		if name == "" {
			name = line.ProductID.String()
		}
		order.Items = append(order.Items, models.OrderLineItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  float64(line.Quantity) * line.UnitPrice,
		})
	}

	order.Customer = &models.OrderCustomer{
		ID:        uuid.New(),
		OrderID:   order.ID,
		FirstName: draft.Contact.FirstName,
		LastName:  draft.Contact.LastName,
		Email:     draft.Contact.Email,
		Phone:     draft.Contact.Phone,
	}

	order.Shipping = &models.OrderShipping{
		ID:                uuid.New(),
		OrderID:           order.ID,
		Address:           draft.Address.Address,
		City:              draft.Address.City,
		ZoneName:          resolution.ZoneName,
		AreaName:          resolution.AreaName,
		RateID:            resolution.RateID,
		Charge:            resolution.Charge,
		FreeOverThreshold: resolution.FreeOverThreshold,
	}

	return order
}

// CapturePayment finalizes an SDK-family payment after the storefront's
// gateway widget reports approval.
func (s *checkoutService) CapturePayment(ctx context.Context, req *models.CaptureRequest) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(req.OrderID)
	if err != nil {
		return nil, err
	}

	gw, err := s.gateways.Get(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	capture, err := gw.Capture(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, err
	}

	if err := models.ValidatePaymentStatusTransition(order.PaymentStatus, capture.PaymentStatus); err != nil {
		return nil, err
	}

	from := order.PaymentStatus
	if err := s.orderRepo.UpdatePaymentStatus(order.ID, capture.PaymentStatus, capture.TransactionID); err != nil {
		return nil, err
	}
	_ = s.orderRepo.AddTimelineEvent(order.ID, "payment_captured",
		fmt.Sprintf("Payment %s via %s", capture.PaymentStatus, order.PaymentMethod), "gateway")

	order.PaymentStatus = capture.PaymentStatus
	order.TransactionID = capture.TransactionID
	s.publisher.PaymentUpdated(order, from, capture.PaymentStatus)

	return order, nil
}
