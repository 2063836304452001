package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONB is a custom type for PostgreSQL JSONB fields
type JSONB json.RawMessage

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
		return nil
	case string:
		*j = JSONB([]byte(v))
		return nil
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler
func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONB) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		*j = nil
		return nil
	}
	*j = JSONB(data)
	return nil
}

// OrderStatus represents the fulfillment lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"    // Order created, awaiting payment or review
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"  // Payment settled or COD accepted
	OrderStatusProcessing OrderStatus = "PROCESSING" // Being picked/packed
	OrderStatusShipped    OrderStatus = "SHIPPED"    // Handed to courier
	OrderStatusDelivered  OrderStatus = "DELIVERED"  // Successfully delivered
	OrderStatusReturned   OrderStatus = "RETURNED"   // Came back from the customer
	OrderStatusCancelled  OrderStatus = "CANCELLED"  // Cancelled before fulfillment
)

// OrderStatusSendToCourier is a deprecated alias for SHIPPED kept for older
// admin clients. NormalizeOrderStatus folds it into the canonical value.
const OrderStatusSendToCourier OrderStatus = "SEND_TO_COURIER"

// PaymentStatus represents the money flow status, tracked independently of the
// fulfillment status (a DELIVERED order can still be COD pending collection).
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"  // Awaiting payment
	PaymentStatusPaid     PaymentStatus = "PAID"     // Payment received
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"   // Gateway reported failure
	PaymentStatusCOD      PaymentStatus = "COD"      // Cash on delivery, collected at the door
	PaymentStatusRefunded PaymentStatus = "REFUNDED" // Fully refunded
)

// PaymentMethod identifies a checkout payment method. Each method maps to a
// gateway variant in internal/gateway.
type PaymentMethod string

const (
	MethodCOD      PaymentMethod = "cod"      // Cash on delivery, immediate settlement
	MethodManual   PaymentMethod = "manual"   // Offline bank/mobile transfer with proof
	MethodPhonePe  PaymentMethod = "phonepe"  // Redirect-based mobile banking
	MethodRazorpay PaymentMethod = "razorpay" // Redirect-based hosted card checkout
	MethodPayPal   PaymentMethod = "paypal"   // SDK button flow with server-side capture
)

// Order represents the durable order record created at checkout.
// Total, discount and the shipping snapshot are fixed at creation time and
// never recomputed; corrections happen through refunds or cancellation.
type Order struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderNumber   string        `json:"orderNumber" gorm:"not null;uniqueIndex:idx_orders_order_number"`
	CustomerID    *uuid.UUID    `json:"customerId,omitempty" gorm:"type:uuid;index:idx_orders_customer"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index:idx_orders_status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(20);not null"`
	Currency      string        `json:"currency" gorm:"type:varchar(3);not null;default:'USD'"`

	Subtotal       float64 `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	ShippingCost   float64 `json:"shippingCost" gorm:"type:decimal(10,2);default:0"`
	DiscountAmount float64 `json:"discountAmount" gorm:"type:decimal(10,2);default:0"`
	Total          float64 `json:"total" gorm:"type:decimal(10,2);not null"`

	// Coupon snapshot: the discount is frozen at checkout time and never
	// recomputed from the live coupon configuration.
	CouponCode string     `json:"couponCode,omitempty" gorm:"type:varchar(50)"`
	CouponID   *uuid.UUID `json:"couponId,omitempty" gorm:"type:uuid"`

	// Structured proof payload for manual/offline payments
	PaymentProof  JSONB  `json:"paymentProof,omitempty" gorm:"type:jsonb"`
	TransactionID string `json:"transactionId,omitempty" gorm:"type:varchar(255)"`

	Notes string `json:"notes,omitempty" gorm:"type:text"`

	// Idempotency key for duplicate order prevention (nullable, unique)
	IdempotencyKey *string `json:"idempotencyKey,omitempty" gorm:"type:varchar(255);uniqueIndex:idx_orders_idempotency_key"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_orders_created,sort:desc"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Items    []OrderLineItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Customer *OrderCustomer  `json:"customer,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping *OrderShipping  `json:"shipping,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Timeline []OrderTimeline `json:"timeline,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLineItem is a denormalized snapshot of a product at time of purchase.
// Catalog price changes must never retroactively alter a placed order.
type OrderLineItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID     uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index:idx_order_items_order"`
	ProductID   uuid.UUID `json:"productId" gorm:"type:uuid;not null"`
	ProductName string    `json:"productName" gorm:"not null"`
	SKU         string    `json:"sku"`
	Variation   string    `json:"variation,omitempty" gorm:"type:varchar(255)"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	TotalPrice  float64   `json:"totalPrice" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OrderCustomer is the contact snapshot captured at checkout. Guests have no
// CustomerID on the order but always have a contact snapshot.
type OrderCustomer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID   uuid.UUID `json:"orderId" gorm:"type:uuid;not null;unique"`
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email" gorm:"not null"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderShipping is the shipping snapshot: the resolved zone/area names and the
// delivery charge are copied from the rates catalog at checkout time.
type OrderShipping struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID           uuid.UUID  `json:"orderId" gorm:"type:uuid;not null;unique"`
	Address           string     `json:"address" gorm:"type:text;not null"`
	City              string     `json:"city"`
	ZoneName          string     `json:"zoneName"`
	AreaName          string     `json:"areaName"`
	RateID            *uuid.UUID `json:"rateId,omitempty" gorm:"type:uuid"`
	Charge            float64    `json:"charge" gorm:"type:decimal(10,2);not null"`
	FreeOverThreshold bool       `json:"freeOverThreshold" gorm:"default:false"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// OrderTimeline represents audit events recorded against an order
type OrderTimeline struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID     uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index:idx_order_timeline_order"`
	Event       string    `json:"event" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ManualPaymentProof is the structured payload stored in Order.PaymentProof
// for offline proof-of-payment checkouts.
type ManualPaymentProof struct {
	AccountReference string `json:"accountReference"`
	TransactionRef   string `json:"transactionRef"`
	ScreenshotURL    string `json:"screenshotUrl,omitempty"`
	SubmittedAt      string `json:"submittedAt"`
}

// BeforeCreate hook to generate order number
func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.OrderNumber == "" {
		o.OrderNumber = generateOrderNumber()
	}
	return
}

// generateOrderNumber creates a unique order number
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}
