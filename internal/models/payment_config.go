package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PaymentMethodConfig represents a configurable payment method offered at
// checkout. This is seeded reference data; the storefront only shows enabled
// methods, and checkout refuses a method that is not enabled.
type PaymentMethodConfig struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code                PaymentMethod  `json:"code" gorm:"type:varchar(50);not null;unique"`
	Name                string         `json:"name" gorm:"type:varchar(100);not null"`
	Description         string         `json:"description" gorm:"type:text"`
	SupportedCurrencies pq.StringArray `json:"supportedCurrencies" gorm:"type:text[]"`
	// Instructions shown to the customer for offline/manual methods
	// (e.g. the bank account to transfer to).
	Instructions string `json:"instructions,omitempty" gorm:"type:text"`
	IsTestMode   bool   `json:"isTestMode" gorm:"default:true"`
	IsEnabled    bool   `json:"isEnabled" gorm:"default:false"`
	DisplayOrder int    `json:"displayOrder" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdatePaymentConfigRequest updates a payment method's storefront settings
type UpdatePaymentConfigRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	IsTestMode   *bool   `json:"isTestMode,omitempty"`
	IsEnabled    *bool   `json:"isEnabled,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
}

// TableName specifies the table name for PaymentMethodConfig
func (PaymentMethodConfig) TableName() string {
	return "payment_method_configs"
}
