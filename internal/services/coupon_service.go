package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// ValidationOutcome is the result of checking a coupon against a cart.
// Rejections are ordinary outcomes carrying a reason code, not errors; the
// error return of Validate is reserved for storage failures.
type ValidationOutcome struct {
	Valid          bool
	ReasonCode     string
	Message        string
	DiscountAmount float64
	Coupon         *models.Coupon
}

// CouponService validates, redeems and administers coupons
type CouponService interface {
	Validate(code string, customerID *uuid.UUID, items []models.CartLine, subtotal float64) (*ValidationOutcome, error)
	Redeem(coupon *models.Coupon, customerID, orderID *uuid.UUID, discountAmount, orderValue float64) error

	Create(req *models.CreateCouponRequest) (*models.Coupon, error)
	GetByID(id uuid.UUID) (*models.Coupon, error)
	List(page, limit int, activeOnly bool) ([]models.Coupon, int64, error)
	Update(id uuid.UUID, req *models.UpdateCouponRequest) (*models.Coupon, error)
	Delete(id uuid.UUID) error
	ListUsage(couponID uuid.UUID, page, limit int) ([]models.CouponUsage, int64, error)
}

type couponService struct {
	repo      repository.CouponRepository
	orderRepo repository.OrderRepository
	pricing   PricingService
	logger    *logrus.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(
	repo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	pricing PricingService,
	logger *logrus.Logger,
) CouponService {
	return &couponService{
		repo:      repo,
		orderRepo: orderRepo,
		pricing:   pricing,
		logger:    logger,
	}
}

func rejected(code, message string) *ValidationOutcome {
	return &ValidationOutcome{Valid: false, ReasonCode: code, Message: message}
}

// Validate runs the coupon rule chain in a fixed order so the customer always
// sees the same rejection for the same cart. The rules that need extra
// queries (per-user limit, order history) run last.
func (s *couponService) Validate(code string, customerID *uuid.UUID, items []models.CartLine, subtotal float64) (*ValidationOutcome, error) {
	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if coupon == nil {
		return rejected(models.CouponReasonNotFound, "Coupon code not found"), nil
	}

	if !coupon.IsActive {
		return rejected(models.CouponReasonInactive, "This coupon is not active"), nil
	}

	now := time.Now()
	if coupon.EndDate != nil && now.After(*coupon.EndDate) {
		return rejected(models.CouponReasonExpired, "This coupon has expired"), nil
	}
	if coupon.StartDate != nil && now.Before(*coupon.StartDate) {
		return rejected(models.CouponReasonNotYetActive, "This coupon is not active yet"), nil
	}

	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return rejected(models.CouponReasonUsageLimitReached, "This coupon has reached its usage limit"), nil
	}

	if coupon.MinOrderAmount != nil && subtotal < *coupon.MinOrderAmount {
		return rejected(models.CouponReasonBelowMinimum,
			fmt.Sprintf("Order must be at least %.2f to use this coupon", *coupon.MinOrderAmount)), nil
	}

	if coupon.PerUserLimit != nil {
		if customerID == nil {
			// per-user limits cannot be enforced for guests, so the coupon is
			// reserved for signed-in customers
			return rejected(models.CouponReasonPerUserLimitReached, "Sign in to use this coupon"), nil
		}
		used, err := s.repo.CountUsageByCustomer(coupon.ID, *customerID)
		if err != nil {
			return nil, fmt.Errorf("failed to count coupon usage: %w", err)
		}
		if used >= int64(*coupon.PerUserLimit) {
			return rejected(models.CouponReasonPerUserLimitReached, "You have already used this coupon"), nil
		}
	}

	switch coupon.AppliesTo {
	case models.AppliesToNewCustomers:
		if customerID == nil {
			return rejected(models.CouponReasonNewCustomersOnly, "Sign in to use this coupon"), nil
		}
		orders, err := s.orderRepo.CountByCustomer(*customerID)
		if err != nil {
			return nil, fmt.Errorf("failed to count customer orders: %w", err)
		}
		if orders > 0 {
			return rejected(models.CouponReasonNewCustomersOnly, "This coupon is for new customers only"), nil
		}
	case models.AppliesToSelectedCustomers:
		if customerID == nil || !coupon.AppliesIDSet()[customerID.String()] {
			return rejected(models.CouponReasonCustomerNotEligible, "This coupon is not available for your account"), nil
		}
	case models.AppliesToSelectedProducts:
		eligible := coupon.AppliesIDSet()
		found := false
		for _, line := range items {
			if eligible[line.ProductID.String()] {
				found = true
				break
			}
		}
		if !found {
			return rejected(models.CouponReasonProductNotEligible, "This coupon does not apply to the items in your cart"), nil
		}
	}

	discount := s.pricing.Discount(coupon, subtotal)
	return &ValidationOutcome{
		Valid:          true,
		ReasonCode:     models.CouponReasonValid,
		DiscountAmount: discount,
		Coupon:         coupon,
	}, nil
}

// Redeem records a usage ledger row and then bumps the counter. The two
// writes are ordered so a crash between them leaves the ledger authoritative
// and the counter conservative (an uncounted row, never a phantom count).
func (s *couponService) Redeem(coupon *models.Coupon, customerID, orderID *uuid.UUID, discountAmount, orderValue float64) error {
	usage := &models.CouponUsage{
		ID:             uuid.New(),
		CouponID:       coupon.ID,
		CustomerID:     customerID,
		OrderID:        orderID,
		DiscountAmount: discountAmount,
		OrderValue:     orderValue,
		UsedAt:         time.Now(),
	}
	if err := s.repo.RecordUsage(usage); err != nil {
		return fmt.Errorf("failed to record coupon usage: %w", err)
	}

	if err := s.repo.IncrementUsage(coupon.ID); err != nil {
		// ledger row exists; log and surface so the caller can flag the order
		s.logger.WithFields(logrus.Fields{
			"coupon_id": coupon.ID,
			"usage_id":  usage.ID,
		}).WithError(err).Error("Coupon counter increment failed after ledger write")
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	return nil
}

func (s *couponService) Create(req *models.CreateCouponRequest) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderAmount:    req.MinOrderAmount,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		UsageLimit:        req.UsageLimit,
		PerUserLimit:      req.PerUserLimit,
		AppliesTo:         models.AppliesToAll,
		IsActive:          true,
	}
	if req.AppliesTo != "" {
		coupon.AppliesTo = req.AppliesTo
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if len(req.AppliesIDs) > 0 {
		data, err := json.Marshal(req.AppliesIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode applies ids: %w", err)
		}
		coupon.AppliesIDs = models.JSONB(data)
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	s.logger.WithField("code", coupon.Code).Info("Coupon created")
	return coupon, nil
}

func (s *couponService) GetByID(id uuid.UUID) (*models.Coupon, error) {
	return s.repo.GetByID(id)
}

func (s *couponService) List(page, limit int, activeOnly bool) ([]models.Coupon, int64, error) {
	return s.repo.List(page, limit, activeOnly)
}

func (s *couponService) Update(id uuid.UUID, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		coupon.Description = *req.Description
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MaxDiscountAmount != nil {
		coupon.MaxDiscountAmount = req.MaxDiscountAmount
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = req.MinOrderAmount
	}
	if req.StartDate != nil {
		coupon.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		coupon.EndDate = req.EndDate
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = req.UsageLimit
	}
	if req.PerUserLimit != nil {
		coupon.PerUserLimit = req.PerUserLimit
	}
	if req.AppliesTo != nil {
		coupon.AppliesTo = *req.AppliesTo
	}
	if req.AppliesIDs != nil {
		data, err := json.Marshal(req.AppliesIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode applies ids: %w", err)
		}
		coupon.AppliesIDs = models.JSONB(data)
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.repo.Update(coupon); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	return coupon, nil
}

func (s *couponService) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}

func (s *couponService) ListUsage(couponID uuid.UUID, page, limit int) ([]models.CouponUsage, int64, error) {
	return s.repo.ListUsage(couponID, page, limit)
}
