package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	return m.Called(order).Error(0)
}

func (m *MockOrderRepository) GetByID(id uuid.UUID) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	args := m.Called(orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIdempotencyKey(key string) (*models.Order, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(filters repository.OrderFilters) ([]models.Order, int64, error) {
	args := m.Called(filters)
	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Update(order *models.Order) error {
	return m.Called(order).Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id uuid.UUID, status models.OrderStatus, notes string) error {
	return m.Called(id, status, notes).Error(0)
}

func (m *MockOrderRepository) UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus, transactionID string) error {
	return m.Called(id, status, transactionID).Error(0)
}

func (m *MockOrderRepository) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *MockOrderRepository) CountByCustomer(customerID uuid.UUID) (int64, error) {
	args := m.Called(customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) AddTimelineEvent(orderID uuid.UUID, event, description, createdBy string) error {
	return m.Called(orderID, event, description, createdBy).Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(coupon *models.Coupon) error {
	return m.Called(coupon).Error(0)
}

func (m *MockCouponRepository) GetByID(id uuid.UUID) (*models.Coupon, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) List(page, limit int, activeOnly bool) ([]models.Coupon, int64, error) {
	args := m.Called(page, limit, activeOnly)
	var coupons []models.Coupon
	if args.Get(0) != nil {
		coupons = args.Get(0).([]models.Coupon)
	}
	return coupons, args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponRepository) Update(coupon *models.Coupon) error {
	return m.Called(coupon).Error(0)
}

func (m *MockCouponRepository) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *MockCouponRepository) IncrementUsage(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *MockCouponRepository) RecordUsage(usage *models.CouponUsage) error {
	return m.Called(usage).Error(0)
}

func (m *MockCouponRepository) CountUsage(couponID uuid.UUID) (int64, error) {
	args := m.Called(couponID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCouponRepository) CountUsageByCustomer(couponID, customerID uuid.UUID) (int64, error) {
	args := m.Called(couponID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCouponRepository) ListUsage(couponID uuid.UUID, page, limit int) ([]models.CouponUsage, int64, error) {
	args := m.Called(couponID, page, limit)
	var usages []models.CouponUsage
	if args.Get(0) != nil {
		usages = args.Get(0).([]models.CouponUsage)
	}
	return usages, args.Get(1).(int64), args.Error(2)
}

type MockShippingRepository struct {
	mock.Mock
}

func (m *MockShippingRepository) CreateZone(zone *models.ShippingZone) error {
	return m.Called(zone).Error(0)
}

func (m *MockShippingRepository) GetZone(id uuid.UUID) (*models.ShippingZone, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingZone), args.Error(1)
}

func (m *MockShippingRepository) ListZones(activeOnly bool) ([]models.ShippingZone, error) {
	args := m.Called(activeOnly)
	var zones []models.ShippingZone
	if args.Get(0) != nil {
		zones = args.Get(0).([]models.ShippingZone)
	}
	return zones, args.Error(1)
}

func (m *MockShippingRepository) UpdateZone(zone *models.ShippingZone) error {
	return m.Called(zone).Error(0)
}

func (m *MockShippingRepository) DeleteZone(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *MockShippingRepository) CountZones() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShippingRepository) CreateRate(rate *models.ShippingRate) error {
	return m.Called(rate).Error(0)
}

func (m *MockShippingRepository) GetRate(id uuid.UUID) (*models.ShippingRate, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingRate), args.Error(1)
}

func (m *MockShippingRepository) ListRatesByZone(zoneID uuid.UUID) ([]models.ShippingRate, error) {
	args := m.Called(zoneID)
	var rates []models.ShippingRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]models.ShippingRate)
	}
	return rates, args.Error(1)
}

func (m *MockShippingRepository) UpdateRate(rate *models.ShippingRate) error {
	return m.Called(rate).Error(0)
}

func (m *MockShippingRepository) DeleteRate(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

type MockPaymentConfigRepository struct {
	mock.Mock
}

func (m *MockPaymentConfigRepository) List(enabledOnly bool) ([]models.PaymentMethodConfig, error) {
	args := m.Called(enabledOnly)
	var configs []models.PaymentMethodConfig
	if args.Get(0) != nil {
		configs = args.Get(0).([]models.PaymentMethodConfig)
	}
	return configs, args.Error(1)
}

func (m *MockPaymentConfigRepository) GetByCode(code models.PaymentMethod) (*models.PaymentMethodConfig, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentMethodConfig), args.Error(1)
}

func (m *MockPaymentConfigRepository) Update(config *models.PaymentMethodConfig) error {
	return m.Called(config).Error(0)
}

func (m *MockPaymentConfigRepository) Upsert(config *models.PaymentMethodConfig) error {
	return m.Called(config).Error(0)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, cartID string) (*repository.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Cart), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, cartID string, cart *repository.Cart) error {
	return m.Called(ctx, cartID, cart).Error(0)
}

func (m *MockCartStore) Clear(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) Validate(code string, customerID *uuid.UUID, items []models.CartLine, subtotal float64) (*ValidationOutcome, error) {
	args := m.Called(code, customerID, items, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ValidationOutcome), args.Error(1)
}

func (m *MockCouponService) Redeem(coupon *models.Coupon, customerID, orderID *uuid.UUID, discountAmount, orderValue float64) error {
	return m.Called(coupon, customerID, orderID, discountAmount, orderValue).Error(0)
}

func (m *MockCouponService) Create(req *models.CreateCouponRequest) (*models.Coupon, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponService) GetByID(id uuid.UUID) (*models.Coupon, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponService) List(page, limit int, activeOnly bool) ([]models.Coupon, int64, error) {
	args := m.Called(page, limit, activeOnly)
	var coupons []models.Coupon
	if args.Get(0) != nil {
		coupons = args.Get(0).([]models.Coupon)
	}
	return coupons, args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponService) Update(id uuid.UUID, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponService) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *MockCouponService) ListUsage(couponID uuid.UUID, page, limit int) ([]models.CouponUsage, int64, error) {
	args := m.Called(couponID, page, limit)
	var usages []models.CouponUsage
	if args.Get(0) != nil {
		usages = args.Get(0).([]models.CouponUsage)
	}
	return usages, args.Get(1).(int64), args.Error(2)
}

type MockShippingService struct {
	mock.Mock
}

func (m *MockShippingService) ResolveCharge(rateID *uuid.UUID, subtotal float64) (*ShippingResolution, error) {
	args := m.Called(rateID, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShippingResolution), args.Error(1)
}

func (m *MockShippingService) ListZones(activeOnly bool) ([]models.ShippingZone, error) {
	args := m.Called(activeOnly)
	var zones []models.ShippingZone
	if args.Get(0) != nil {
		zones = args.Get(0).([]models.ShippingZone)
	}
	return zones, args.Error(1)
}

func (m *MockShippingService) CreateZone(req *models.CreateShippingZoneRequest) (*models.ShippingZone, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingZone), args.Error(1)
}

func (m *MockShippingService) UpdateZone(id uuid.UUID, req *models.CreateShippingZoneRequest) (*models.ShippingZone, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingZone), args.Error(1)
}

func (m *MockShippingService) DeleteZone(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *MockShippingService) CreateRate(zoneID uuid.UUID, req *models.CreateShippingRateRequest) (*models.ShippingRate, error) {
	args := m.Called(zoneID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingRate), args.Error(1)
}

func (m *MockShippingService) DeleteRate(id uuid.UUID) error {
	return m.Called(id).Error(0)
}
