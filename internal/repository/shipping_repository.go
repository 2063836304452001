package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-service/internal/models"
)

// ShippingRepository defines the interface for shipping zone and rate data
type ShippingRepository interface {
	CreateZone(zone *models.ShippingZone) error
	GetZone(id uuid.UUID) (*models.ShippingZone, error)
	ListZones(activeOnly bool) ([]models.ShippingZone, error)
	UpdateZone(zone *models.ShippingZone) error
	DeleteZone(id uuid.UUID) error
	CountZones() (int64, error)

	CreateRate(rate *models.ShippingRate) error
	GetRate(id uuid.UUID) (*models.ShippingRate, error)
	ListRatesByZone(zoneID uuid.UUID) ([]models.ShippingRate, error)
	UpdateRate(rate *models.ShippingRate) error
	DeleteRate(id uuid.UUID) error
}

type shippingRepository struct {
	db *gorm.DB
}

// NewShippingRepository creates a new shipping repository
func NewShippingRepository(db *gorm.DB) ShippingRepository {
	return &shippingRepository{db: db}
}

func (r *shippingRepository) CreateZone(zone *models.ShippingZone) error {
	return r.db.Create(zone).Error
}

func (r *shippingRepository) GetZone(id uuid.UUID) (*models.ShippingZone, error) {
	var zone models.ShippingZone
	err := r.db.Preload("Rates").First(&zone, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shipping zone not found: %s", id)
		}
		return nil, err
	}
	return &zone, nil
}

func (r *shippingRepository) ListZones(activeOnly bool) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	query := r.db.Preload("Rates", func(db *gorm.DB) *gorm.DB {
		return db.Order("area_name ASC")
	})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&zones).Error
	return zones, err
}

func (r *shippingRepository) UpdateZone(zone *models.ShippingZone) error {
	return r.db.Save(zone).Error
}

func (r *shippingRepository) DeleteZone(id uuid.UUID) error {
	if err := r.db.Where("zone_id = ?", id).Delete(&models.ShippingRate{}).Error; err != nil {
		return fmt.Errorf("failed to delete zone rates: %w", err)
	}
	result := r.db.Delete(&models.ShippingZone{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("shipping zone not found: %s", id)
	}
	return nil
}

func (r *shippingRepository) CountZones() (int64, error) {
	var count int64
	err := r.db.Model(&models.ShippingZone{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *shippingRepository) CreateRate(rate *models.ShippingRate) error {
	return r.db.Create(rate).Error
}

func (r *shippingRepository) GetRate(id uuid.UUID) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	err := r.db.Preload("Zone").First(&rate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shipping rate not found: %s", id)
		}
		return nil, err
	}
	return &rate, nil
}

func (r *shippingRepository) ListRatesByZone(zoneID uuid.UUID) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	err := r.db.Where("zone_id = ? AND is_active = ?", zoneID, true).
		Order("area_name ASC").
		Find(&rates).Error
	return rates, err
}

func (r *shippingRepository) UpdateRate(rate *models.ShippingRate) error {
	return r.db.Save(rate).Error
}

func (r *shippingRepository) DeleteRate(id uuid.UUID) error {
	result := r.db.Delete(&models.ShippingRate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("shipping rate not found: %s", id)
	}
	return nil
}
