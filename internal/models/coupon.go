package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountType represents the type of discount
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// CouponAppliesTo restricts which carts or customers a coupon is valid for
type CouponAppliesTo string

const (
	AppliesToAll               CouponAppliesTo = "ALL"
	AppliesToNewCustomers      CouponAppliesTo = "NEW_CUSTOMERS"
	AppliesToSelectedCustomers CouponAppliesTo = "SELECTED_CUSTOMERS"
	AppliesToSelectedProducts  CouponAppliesTo = "SELECTED_PRODUCTS"
)

// Coupon validation reason codes. Each rejection rule maps to a distinct,
// user-displayable code; "coupon not applicable" is a normal return value,
// never an error.
const (
	CouponReasonValid               = "VALID"
	CouponReasonNotFound            = "NOT_FOUND"
	CouponReasonInactive            = "INACTIVE"
	CouponReasonExpired             = "EXPIRED"
	CouponReasonNotYetActive        = "NOT_YET_ACTIVE"
	CouponReasonUsageLimitReached   = "USAGE_LIMIT_REACHED"
	CouponReasonBelowMinimum        = "BELOW_MINIMUM"
	CouponReasonPerUserLimitReached = "PER_USER_LIMIT_REACHED"
	CouponReasonNewCustomersOnly    = "NEW_CUSTOMERS_ONLY"
	CouponReasonCustomerNotEligible = "CUSTOMER_NOT_ELIGIBLE"
	CouponReasonProductNotEligible  = "PRODUCT_NOT_ELIGIBLE"
)

// Coupon represents a promotional coupon. UsageCount only ever increases, and
// only as a side effect of a CouponUsage row being recorded.
type Coupon struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code        string    `json:"code" gorm:"not null;uniqueIndex:idx_coupons_code"`
	Description string    `json:"description,omitempty"`

	DiscountType  DiscountType `json:"discountType" gorm:"type:varchar(20);not null"`
	DiscountValue float64      `json:"discountValue" gorm:"not null"`

	MaxDiscountAmount *float64 `json:"maxDiscountAmount,omitempty"`
	MinOrderAmount    *float64 `json:"minOrderAmount,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	UsageLimit   *int `json:"usageLimit,omitempty"`
	PerUserLimit *int `json:"perUserLimit,omitempty"`
	UsageCount   int  `json:"usageCount" gorm:"default:0"`

	AppliesTo  CouponAppliesTo `json:"appliesTo" gorm:"type:varchar(30);not null;default:'ALL'"`
	AppliesIDs JSONB           `json:"appliesIds,omitempty" gorm:"type:jsonb"` // customer or product id set, per AppliesTo

	IsActive bool `json:"isActive" gorm:"default:true"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// BeforeSave normalizes the code so lookups are case-insensitive
func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return nil
}

// AppliesIDSet decodes the AppliesIDs JSONB array into a lookup set
func (c *Coupon) AppliesIDSet() map[string]bool {
	set := make(map[string]bool)
	if len(c.AppliesIDs) == 0 {
		return set
	}
	var ids []string
	if err := json.Unmarshal([]byte(c.AppliesIDs), &ids); err != nil {
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// CouponUsage is the append-only redemption ledger. Per-user limits are
// enforced by counting these rows, never from a cached counter.
type CouponUsage struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CouponID   uuid.UUID  `json:"couponId" gorm:"type:uuid;not null;index:idx_coupon_usage_coupon"`
	CustomerID *uuid.UUID `json:"customerId,omitempty" gorm:"type:uuid;index:idx_coupon_usage_customer"`
	OrderID    *uuid.UUID `json:"orderId,omitempty" gorm:"type:uuid"`

	DiscountAmount float64 `json:"discountAmount" gorm:"not null"`
	OrderValue     float64 `json:"orderValue" gorm:"not null"`

	UsedAt    time.Time `json:"usedAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	Coupon Coupon `json:"coupon,omitempty" gorm:"foreignKey:CouponID"`
}

// CreateCouponRequest represents a request to create a new coupon
type CreateCouponRequest struct {
	Code              string          `json:"code" binding:"required"`
	Description       string          `json:"description,omitempty"`
	DiscountType      DiscountType    `json:"discountType" binding:"required"`
	DiscountValue     float64         `json:"discountValue" binding:"required,gt=0"`
	MaxDiscountAmount *float64        `json:"maxDiscountAmount,omitempty"`
	MinOrderAmount    *float64        `json:"minOrderAmount,omitempty"`
	StartDate         *time.Time      `json:"startDate,omitempty"`
	EndDate           *time.Time      `json:"endDate,omitempty"`
	UsageLimit        *int            `json:"usageLimit,omitempty"`
	PerUserLimit      *int            `json:"perUserLimit,omitempty"`
	AppliesTo         CouponAppliesTo `json:"appliesTo,omitempty"`
	AppliesIDs        []string        `json:"appliesIds,omitempty"`
	IsActive          *bool           `json:"isActive,omitempty"`
}

// UpdateCouponRequest represents a request to update a coupon
type UpdateCouponRequest struct {
	Description       *string          `json:"description,omitempty"`
	DiscountValue     *float64         `json:"discountValue,omitempty"`
	MaxDiscountAmount *float64         `json:"maxDiscountAmount,omitempty"`
	MinOrderAmount    *float64         `json:"minOrderAmount,omitempty"`
	StartDate         *time.Time       `json:"startDate,omitempty"`
	EndDate           *time.Time       `json:"endDate,omitempty"`
	UsageLimit        *int             `json:"usageLimit,omitempty"`
	PerUserLimit      *int             `json:"perUserLimit,omitempty"`
	AppliesTo         *CouponAppliesTo `json:"appliesTo,omitempty"`
	AppliesIDs        []string         `json:"appliesIds,omitempty"`
	IsActive          *bool            `json:"isActive,omitempty"`
}

// CartLine is one line of the cart presented for coupon validation
type CartLine struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	UnitPrice float64   `json:"unitPrice" binding:"min=0"`
}

// ValidateCouponRequest represents a request to validate a coupon against a cart
type ValidateCouponRequest struct {
	Code     string     `json:"code" binding:"required"`
	Subtotal float64    `json:"subtotal" binding:"required,gt=0"`
	Items    []CartLine `json:"items,omitempty"`
}

// CouponValidationResponse reports the outcome of validating a coupon.
// Valid=false with a ReasonCode is the expected shape for rejections.
type CouponValidationResponse struct {
	Success        bool     `json:"success"`
	Valid          bool     `json:"valid"`
	DiscountAmount *float64 `json:"discountAmount,omitempty"`
	ReasonCode     *string  `json:"reasonCode,omitempty"`
	Message        *string  `json:"message,omitempty"`
	Coupon         *Coupon  `json:"coupon,omitempty"`
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// TableName returns the table name for the CouponUsage model
func (CouponUsage) TableName() string {
	return "coupon_usage"
}
