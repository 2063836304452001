package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-service/internal/models"
)

// CouponRepository defines the interface for coupon data operations
type CouponRepository interface {
	Create(coupon *models.Coupon) error
	GetByID(id uuid.UUID) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	List(page, limit int, activeOnly bool) ([]models.Coupon, int64, error)
	Update(coupon *models.Coupon) error
	Delete(id uuid.UUID) error
	IncrementUsage(id uuid.UUID) error
	RecordUsage(usage *models.CouponUsage) error
	CountUsage(couponID uuid.UUID) (int64, error)
	CountUsageByCustomer(couponID, customerID uuid.UUID) (int64, error)
	ListUsage(couponID uuid.UUID, page, limit int) ([]models.CouponUsage, int64, error)
}

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *couponRepository) GetByID(id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.First(&coupon, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon not found: %s", id)
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode looks up a coupon case-insensitively. Codes are stored uppercase;
// the input is normalized rather than relying on collation.
func (r *couponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.First(&coupon, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) List(page, limit int, activeOnly bool) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	var total int64

	query := r.db.Model(&models.Coupon{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&coupons).Error
	if err != nil {
		return nil, 0, err
	}

	return coupons, total, nil
}

func (r *couponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

func (r *couponRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("coupon not found: %s", id)
	}
	return nil
}

// IncrementUsage bumps the usage counter atomically in the database. Using a
// SQL expression instead of read-modify-write keeps concurrent redemptions
// from losing increments.
func (r *couponRepository) IncrementUsage(id uuid.UUID) error {
	result := r.db.Model(&models.Coupon{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("coupon not found: %s", id)
	}
	return nil
}

// RecordUsage appends a row to the usage ledger
func (r *couponRepository) RecordUsage(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

func (r *couponRepository) CountUsage(couponID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", couponID).Count(&count).Error
	return count, err
}

func (r *couponRepository) CountUsageByCustomer(couponID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND customer_id = ?", couponID, customerID).
		Count(&count).Error
	return count, err
}

func (r *couponRepository) ListUsage(couponID uuid.UUID, page, limit int) ([]models.CouponUsage, int64, error) {
	var usages []models.CouponUsage
	var total int64

	query := r.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", couponID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	err := query.
		Order("used_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&usages).Error
	if err != nil {
		return nil, 0, err
	}

	return usages, total, nil
}
