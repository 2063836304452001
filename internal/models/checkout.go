package models

import (
	"github.com/google/uuid"
)

// CheckoutDraft is the in-memory, not-yet-persisted representation of a
// checkout in progress. The storefront UI is a thin adapter that fills this
// value object; all validation and pricing runs against it.
type CheckoutDraft struct {
	CustomerID     *uuid.UUID          `json:"customerId,omitempty"`
	Contact        CheckoutContact     `json:"contact" binding:"required"`
	Items          []CartLine          `json:"items" binding:"required,min=1"`
	ItemNames      map[string]string   `json:"-"` // productID -> display name, filled by the handler
	Address        CheckoutAddress     `json:"address" binding:"required"`
	ShippingRateID *uuid.UUID          `json:"shippingRateId,omitempty"`
	CouponCode     string              `json:"couponCode,omitempty"`
	PaymentMethod  PaymentMethod       `json:"paymentMethod" binding:"required"`
	PaymentProof   *ManualPaymentProof `json:"paymentProof,omitempty"`
	Currency       string              `json:"currency,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	// BuyNow marks a single-item purchase that bypassed the cart; the cart is
	// never cleared for these.
	BuyNow bool `json:"buyNow,omitempty"`
	// CartID identifies the Redis-backed cart to clear after a successful
	// cart checkout.
	CartID string `json:"cartId,omitempty"`
	// IdempotencyKey is set from the X-Idempotency-Key header.
	IdempotencyKey string `json:"-"`
}

// CheckoutContact is the contact snapshot for the order
type CheckoutContact struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

// CheckoutAddress is the delivery address for the order
type CheckoutAddress struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city"`
}

// CheckoutState discriminates the outcome of the two-phase
// create-order-then-redeem-coupon sequence. The partial-failure window is an
// explicit, testable state rather than an accident of call ordering.
type CheckoutState string

const (
	CheckoutOrderCreated             CheckoutState = "ORDER_CREATED"
	CheckoutOrderCreatedCouponFailed CheckoutState = "ORDER_CREATED_COUPON_FAILED"
	CheckoutCreationFailed           CheckoutState = "CREATION_FAILED"
)

// CheckoutResult is returned by the checkout orchestration.
type CheckoutResult struct {
	State CheckoutState `json:"state"`
	Order *Order        `json:"order,omitempty"`

	// Gateway outcome for the chosen payment method.
	RedirectURL    string `json:"redirectUrl,omitempty"`    // redirect family
	GatewayOrderID string `json:"gatewayOrderId,omitempty"` // SDK family handle

	// CartCleared reports whether the customer's cart was cleared. It is only
	// ever true after the order demonstrably exists.
	CartCleared bool `json:"cartCleared"`

	// CouponRejection carries the validation reason code when the submitted
	// coupon was rejected and the order proceeded at full price.
	CouponRejection string `json:"couponRejection,omitempty"`

	// CouponError carries the human-readable coupon failure: the rejection
	// message, or the redemption failure when State is
	// ORDER_CREATED_COUPON_FAILED.
	CouponError string `json:"couponError,omitempty"`
}

// CaptureRequest finalizes an SDK-driven payment: the gateway-native handle
// plus the internal order id.
type CaptureRequest struct {
	OrderID        uuid.UUID `json:"orderId" binding:"required"`
	GatewayOrderID string    `json:"gatewayOrderId" binding:"required"`
}
