package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

func newShippingServiceForTest() (*MockShippingRepository, ShippingService) {
	repo := new(MockShippingRepository)
	return repo, NewShippingService(repo, testLogger())
}

func TestResolveChargeNoZonesShipsFree(t *testing.T) {
	repo, svc := newShippingServiceForTest()
	repo.On("CountZones").Return(int64(0), nil)

	resolution, err := svc.ResolveCharge(nil, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resolution.Charge)
	assert.Nil(t, resolution.RateID)
}

func TestResolveChargeSelectionRequiredWhenZonesExist(t *testing.T) {
	repo, svc := newShippingServiceForTest()
	repo.On("CountZones").Return(int64(2), nil)

	_, err := svc.ResolveCharge(nil, 100)
	assert.ErrorIs(t, err, ErrShippingSelectionRequired)
}

func TestResolveChargeUsesRate(t *testing.T) {
	zone := &models.ShippingZone{ID: uuid.New(), Name: "Metro", IsActive: true}
	rate := &models.ShippingRate{
		ID:       uuid.New(),
		ZoneID:   zone.ID,
		AreaName: "Downtown",
		Charge:   7.50,
		IsActive: true,
		Zone:     zone,
	}

	repo, svc := newShippingServiceForTest()
	repo.On("GetRate", rate.ID).Return(rate, nil)

	resolution, err := svc.ResolveCharge(&rate.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 7.50, resolution.Charge)
	assert.Equal(t, "Metro", resolution.ZoneName)
	assert.Equal(t, "Downtown", resolution.AreaName)
	assert.False(t, resolution.FreeOverThreshold)
}

func TestResolveChargeFreeShippingThreshold(t *testing.T) {
	rate := &models.ShippingRate{
		ID:                    uuid.New(),
		AreaName:              "Downtown",
		Charge:                7.50,
		FreeShippingThreshold: floatPtr(50),
		IsActive:              true,
	}

	repo, svc := newShippingServiceForTest()
	repo.On("GetRate", rate.ID).Return(rate, nil)

	// just below the threshold: full charge
	resolution, err := svc.ResolveCharge(&rate.ID, 49.99)
	require.NoError(t, err)
	assert.Equal(t, 7.50, resolution.Charge)

	// at the threshold: free
	resolution, err = svc.ResolveCharge(&rate.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resolution.Charge)
	assert.True(t, resolution.FreeOverThreshold)
}

func TestResolveChargeRejectsInactiveRate(t *testing.T) {
	rate := &models.ShippingRate{ID: uuid.New(), Charge: 5, IsActive: false}

	repo, svc := newShippingServiceForTest()
	repo.On("GetRate", rate.ID).Return(rate, nil)

	_, err := svc.ResolveCharge(&rate.ID, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no longer available")
}
