package repository

import (
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storefront-service/internal/models"
)

// SeedPaymentMethods inserts the default payment method catalog if missing.
// COD and manual transfer ship enabled; gateway methods stay disabled until
// credentials are configured.
func SeedPaymentMethods(db *gorm.DB, logger *logrus.Logger) error {
	repo := NewPaymentConfigRepository(db)

	defaults := []models.PaymentMethodConfig{
		{
			Code:                models.MethodCOD,
			Name:                "Cash on Delivery",
			Description:         "Pay in cash when your order arrives",
			SupportedCurrencies: pq.StringArray{"USD", "INR", "BDT"},
			IsTestMode:          false,
			IsEnabled:           true,
			DisplayOrder:        1,
		},
		{
			Code:                models.MethodManual,
			Name:                "Bank Transfer",
			Description:         "Transfer to our account and submit the reference",
			SupportedCurrencies: pq.StringArray{"USD", "INR", "BDT"},
			Instructions:        "Transfer the order total and enter the transaction reference at checkout.",
			IsTestMode:          false,
			IsEnabled:           true,
			DisplayOrder:        2,
		},
		{
			Code:                models.MethodPhonePe,
			Name:                "PhonePe",
			Description:         "UPI, cards and wallets via PhonePe",
			SupportedCurrencies: pq.StringArray{"INR"},
			IsTestMode:          true,
			IsEnabled:           false,
			DisplayOrder:        3,
		},
		{
			Code:                models.MethodRazorpay,
			Name:                "Razorpay",
			Description:         "Cards, UPI and netbanking via Razorpay",
			SupportedCurrencies: pq.StringArray{"INR"},
			IsTestMode:          true,
			IsEnabled:           false,
			DisplayOrder:        4,
		},
		{
			Code:                models.MethodPayPal,
			Name:                "PayPal",
			Description:         "Pay with your PayPal balance or linked cards",
			SupportedCurrencies: pq.StringArray{"USD", "EUR", "GBP"},
			IsTestMode:          true,
			IsEnabled:           false,
			DisplayOrder:        5,
		},
	}

	for i := range defaults {
		if err := repo.Upsert(&defaults[i]); err != nil {
			return err
		}
	}

	logger.Info("Payment method catalog seeded")
	return nil
}

// SeedShippingZones creates a default zone and rate when no active zones
// exist. It only runs when explicitly enabled: with no zones at all, checkout
// falls back to free shipping, and seeding a zero-charge zone on every boot
// would make that fallback unreachable.
func SeedShippingZones(db *gorm.DB, logger *logrus.Logger) error {
	repo := NewShippingRepository(db)

	count, err := repo.CountZones()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	zone := models.ShippingZone{
		Name:     "Default Zone",
		IsActive: true,
	}
	if err := repo.CreateZone(&zone); err != nil {
		return err
	}

	rate := models.ShippingRate{
		ZoneID:   zone.ID,
		AreaName: "Standard Delivery",
		Charge:   0,
		IsActive: true,
	}
	if err := repo.CreateRate(&rate); err != nil {
		return err
	}

	logger.WithField("zone_id", zone.ID).Info("Default shipping zone seeded")
	return nil
}
