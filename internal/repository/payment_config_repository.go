package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-service/internal/models"
)

// PaymentConfigRepository defines the interface for payment method configuration
type PaymentConfigRepository interface {
	List(enabledOnly bool) ([]models.PaymentMethodConfig, error)
	GetByCode(code models.PaymentMethod) (*models.PaymentMethodConfig, error)
	Update(config *models.PaymentMethodConfig) error
	Upsert(config *models.PaymentMethodConfig) error
}

type paymentConfigRepository struct {
	db *gorm.DB
}

// NewPaymentConfigRepository creates a new payment config repository
func NewPaymentConfigRepository(db *gorm.DB) PaymentConfigRepository {
	return &paymentConfigRepository{db: db}
}

func (r *paymentConfigRepository) List(enabledOnly bool) ([]models.PaymentMethodConfig, error) {
	var configs []models.PaymentMethodConfig
	query := r.db.Model(&models.PaymentMethodConfig{})
	if enabledOnly {
		query = query.Where("is_enabled = ?", true)
	}
	err := query.Order("display_order ASC, name ASC").Find(&configs).Error
	return configs, err
}

func (r *paymentConfigRepository) GetByCode(code models.PaymentMethod) (*models.PaymentMethodConfig, error) {
	var config models.PaymentMethodConfig
	err := r.db.First(&config, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment method not configured: %s", code)
		}
		return nil, err
	}
	return &config, nil
}

func (r *paymentConfigRepository) Update(config *models.PaymentMethodConfig) error {
	return r.db.Save(config).Error
}

// Upsert inserts the config if its code is not present yet; used by seeding
func (r *paymentConfigRepository) Upsert(config *models.PaymentMethodConfig) error {
	var existing models.PaymentMethodConfig
	err := r.db.First(&existing, "code = ?", config.Code).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(config).Error
}
