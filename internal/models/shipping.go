package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingZone is a named grouping of delivery areas (e.g. a city or region).
// Zones and rates are read-only at checkout: the selected rate's charge is
// copied into the order's shipping snapshot.
type ShippingZone struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string          `json:"name" gorm:"not null;uniqueIndex:idx_shipping_zones_name"`
	IsActive  bool            `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	Rates []ShippingRate `json:"rates,omitempty" gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
}

// ShippingRate is a delivery option within a zone. A rate with a
// FreeShippingThreshold charges nothing once the cart subtotal reaches it.
type ShippingRate struct {
	ID                    uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ZoneID                uuid.UUID       `json:"zoneId" gorm:"type:uuid;not null;index:idx_shipping_rates_zone"`
	AreaName              string          `json:"areaName" gorm:"not null"`
	Charge                float64         `json:"charge" gorm:"type:decimal(10,2);not null"`
	FreeShippingThreshold *float64        `json:"freeShippingThreshold,omitempty" gorm:"type:decimal(10,2)"`
	IsActive              bool            `json:"isActive" gorm:"default:true"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	DeletedAt             *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	Zone *ShippingZone `json:"zone,omitempty" gorm:"foreignKey:ZoneID"`
}

// CreateShippingZoneRequest represents a request to create a shipping zone
type CreateShippingZoneRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// CreateShippingRateRequest represents a request to add a rate to a zone
type CreateShippingRateRequest struct {
	AreaName              string   `json:"areaName" binding:"required"`
	Charge                float64  `json:"charge" binding:"min=0"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold,omitempty"`
	IsActive              *bool    `json:"isActive,omitempty"`
}

// TableName returns the table name for the ShippingZone model
func (ShippingZone) TableName() string {
	return "shipping_zones"
}

// TableName returns the table name for the ShippingRate model
func (ShippingRate) TableName() string {
	return "shipping_rates"
}
