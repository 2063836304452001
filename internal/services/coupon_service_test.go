package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func newCouponServiceForTest() (*MockCouponRepository, *MockOrderRepository, CouponService) {
	couponRepo := new(MockCouponRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewCouponService(couponRepo, orderRepo, NewPricingService(), testLogger())
	return couponRepo, orderRepo, svc
}

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		AppliesTo:     models.AppliesToAll,
		IsActive:      true,
	}
}

func TestValidateCouponNotFound(t *testing.T) {
	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", "MISSING").Return(nil, nil)

	outcome, err := svc.Validate("MISSING", nil, nil, 100)
	require.NoError(t, err)
	assert.False(t, outcome.Valid)
	assert.Equal(t, models.CouponReasonNotFound, outcome.ReasonCode)
}

func TestValidateCouponInactiveBeforeDates(t *testing.T) {
	// an inactive coupon that is also expired reports INACTIVE: the rule
	// chain runs in a fixed order
	coupon := activeCoupon()
	coupon.IsActive = false
	coupon.EndDate = timePtr(time.Now().Add(-time.Hour))

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)

	outcome, err := svc.Validate(coupon.Code, nil, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonInactive, outcome.ReasonCode)
}

func TestValidateCouponDateWindow(t *testing.T) {
	couponRepo, _, svc := newCouponServiceForTest()

	early := activeCoupon()
	early.Code = "EARLY"
	early.StartDate = timePtr(time.Now().Add(time.Hour))
	couponRepo.On("GetByCode", "EARLY").Return(early, nil)

	late := activeCoupon()
	late.Code = "LATE"
	late.EndDate = timePtr(time.Now().Add(-time.Hour))
	couponRepo.On("GetByCode", "LATE").Return(late, nil)

	outcome, err := svc.Validate("EARLY", nil, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonNotYetActive, outcome.ReasonCode)

	outcome, err = svc.Validate("LATE", nil, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonExpired, outcome.ReasonCode)
}

func TestValidateCouponExpiredBeatsNotYetActive(t *testing.T) {
	// a coupon with both dates outside the window reports EXPIRED: the end
	// date is checked before the start date
	coupon := activeCoupon()
	coupon.StartDate = timePtr(time.Now().Add(48 * time.Hour))
	coupon.EndDate = timePtr(time.Now().Add(-48 * time.Hour))

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)

	outcome, err := svc.Validate(coupon.Code, nil, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonExpired, outcome.ReasonCode)
}

func TestValidateCouponUsageLimit(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = intPtr(5)
	coupon.UsageCount = 5

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)

	outcome, err := svc.Validate(coupon.Code, nil, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonUsageLimitReached, outcome.ReasonCode)
}

func TestValidateCouponBelowMinimum(t *testing.T) {
	coupon := activeCoupon()
	coupon.MinOrderAmount = floatPtr(50)

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)

	outcome, err := svc.Validate(coupon.Code, nil, nil, 49.99)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonBelowMinimum, outcome.ReasonCode)
}

func TestValidateCouponAtExactMinimum(t *testing.T) {
	// the threshold is inclusive: a subtotal equal to the minimum qualifies
	coupon := activeCoupon()
	coupon.MinOrderAmount = floatPtr(50)

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)

	outcome, err := svc.Validate(coupon.Code, nil, nil, 50.00)
	require.NoError(t, err)
	assert.True(t, outcome.Valid)
	assert.Equal(t, models.CouponReasonValid, outcome.ReasonCode)
	assert.Equal(t, 5.0, outcome.DiscountAmount)
}

func TestValidateCouponPerUserLimit(t *testing.T) {
	coupon := activeCoupon()
	coupon.PerUserLimit = intPtr(1)
	customerID := uuid.New()

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)
	couponRepo.On("CountUsageByCustomer", coupon.ID, customerID).Return(int64(1), nil)

	// guests cannot prove their usage count
	outcome, err := svc.Validate(coupon.Code, nil, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonPerUserLimitReached, outcome.ReasonCode)

	// customer at the limit
	outcome, err = svc.Validate(coupon.Code, &customerID, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonPerUserLimitReached, outcome.ReasonCode)
}

func TestValidateCouponNewCustomersOnly(t *testing.T) {
	coupon := activeCoupon()
	coupon.AppliesTo = models.AppliesToNewCustomers
	returning := uuid.New()
	fresh := uuid.New()

	couponRepo, orderRepo, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)
	orderRepo.On("CountByCustomer", returning).Return(int64(3), nil)
	orderRepo.On("CountByCustomer", fresh).Return(int64(0), nil)

	outcome, err := svc.Validate(coupon.Code, &returning, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonNewCustomersOnly, outcome.ReasonCode)

	outcome, err = svc.Validate(coupon.Code, &fresh, nil, 100)
	require.NoError(t, err)
	assert.True(t, outcome.Valid)
}

func TestValidateCouponSelectedProducts(t *testing.T) {
	eligible := uuid.New()
	coupon := activeCoupon()
	coupon.AppliesTo = models.AppliesToSelectedProducts
	coupon.AppliesIDs = models.JSONB(`["` + eligible.String() + `"]`)

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)

	other := cart(cartLine(1, 100))
	outcome, err := svc.Validate(coupon.Code, nil, other, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CouponReasonProductNotEligible, outcome.ReasonCode)

	matching := []models.CartLine{{ProductID: eligible, Quantity: 1, UnitPrice: 100}}
	outcome, err = svc.Validate(coupon.Code, nil, matching, 100)
	require.NoError(t, err)
	assert.True(t, outcome.Valid)
}

func TestValidateCouponSuccess(t *testing.T) {
	coupon := activeCoupon()

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("GetByCode", coupon.Code).Return(coupon, nil)

	outcome, err := svc.Validate(coupon.Code, nil, nil, 200)
	require.NoError(t, err)
	assert.True(t, outcome.Valid)
	assert.Equal(t, models.CouponReasonValid, outcome.ReasonCode)
	assert.Equal(t, 20.0, outcome.DiscountAmount)
	assert.Equal(t, coupon, outcome.Coupon)
}

func TestRedeemRecordsLedgerThenIncrements(t *testing.T) {
	coupon := activeCoupon()
	orderID := uuid.New()

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("RecordUsage", mock.AnythingOfType("*models.CouponUsage")).Return(nil)
	couponRepo.On("IncrementUsage", coupon.ID).Return(nil)

	err := svc.Redeem(coupon, nil, &orderID, 20, 180)
	require.NoError(t, err)
	couponRepo.AssertExpectations(t)

	recorded := couponRepo.Calls[0]
	assert.Equal(t, "RecordUsage", recorded.Method, "ledger row is written before the counter")
	usage := recorded.Arguments.Get(0).(*models.CouponUsage)
	assert.Equal(t, coupon.ID, usage.CouponID)
	assert.Equal(t, 20.0, usage.DiscountAmount)
}

func TestRedeemLedgerFailureSkipsIncrement(t *testing.T) {
	coupon := activeCoupon()

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("RecordUsage", mock.Anything).Return(errors.New("db down"))

	err := svc.Redeem(coupon, nil, nil, 20, 180)
	assert.Error(t, err)
	couponRepo.AssertNotCalled(t, "IncrementUsage", mock.Anything)
}

func TestRedeemIncrementFailureSurfaces(t *testing.T) {
	coupon := activeCoupon()

	couponRepo, _, svc := newCouponServiceForTest()
	couponRepo.On("RecordUsage", mock.Anything).Return(nil)
	couponRepo.On("IncrementUsage", coupon.ID).Return(errors.New("db down"))

	err := svc.Redeem(coupon, nil, nil, 20, 180)
	assert.Error(t, err, "a counted ledger row without a counter bump must be reported")
}
