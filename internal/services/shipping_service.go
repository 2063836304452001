package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// ErrShippingSelectionRequired is returned when zones are configured but the
// checkout draft names no shipping rate.
var ErrShippingSelectionRequired = errors.New("shipping rate selection is required")

// ShippingResolution is the resolved delivery charge plus the snapshot fields
// copied onto the order.
type ShippingResolution struct {
	Charge            float64
	ZoneName          string
	AreaName          string
	RateID            *uuid.UUID
	FreeOverThreshold bool
}

// ShippingService resolves delivery charges at checkout and manages the
// zone/rate catalog.
type ShippingService interface {
	ResolveCharge(rateID *uuid.UUID, subtotal float64) (*ShippingResolution, error)
	ListZones(activeOnly bool) ([]models.ShippingZone, error)
	CreateZone(req *models.CreateShippingZoneRequest) (*models.ShippingZone, error)
	UpdateZone(id uuid.UUID, req *models.CreateShippingZoneRequest) (*models.ShippingZone, error)
	DeleteZone(id uuid.UUID) error
	CreateRate(zoneID uuid.UUID, req *models.CreateShippingRateRequest) (*models.ShippingRate, error)
	DeleteRate(id uuid.UUID) error
}

type shippingService struct {
	repo   repository.ShippingRepository
	logger *logrus.Logger
}

// NewShippingService creates a new shipping service
func NewShippingService(repo repository.ShippingRepository, logger *logrus.Logger) ShippingService {
	return &shippingService{repo: repo, logger: logger}
}

// ResolveCharge resolves the delivery charge for a checkout. A store with no
// active zones ships free everywhere; once zones exist, a rate must be chosen.
// A rate's free-shipping threshold zeroes the charge when the subtotal
// reaches it.
func (s *shippingService) ResolveCharge(rateID *uuid.UUID, subtotal float64) (*ShippingResolution, error) {
	if rateID == nil {
		count, err := s.repo.CountZones()
		if err != nil {
			return nil, fmt.Errorf("failed to count shipping zones: %w", err)
		}
		if count == 0 {
			return &ShippingResolution{Charge: 0}, nil
		}
		return nil, ErrShippingSelectionRequired
	}

	rate, err := s.repo.GetRate(*rateID)
	if err != nil {
		return nil, err
	}
	if !rate.IsActive {
		return nil, fmt.Errorf("shipping rate is no longer available: %s", rate.ID)
	}

	resolution := &ShippingResolution{
		Charge:   rate.Charge,
		AreaName: rate.AreaName,
		RateID:   &rate.ID,
	}
	if rate.Zone != nil {
		resolution.ZoneName = rate.Zone.Name
		if !rate.Zone.IsActive {
			return nil, fmt.Errorf("shipping zone is no longer available: %s", rate.Zone.ID)
		}
	}

	if rate.FreeShippingThreshold != nil && subtotal >= *rate.FreeShippingThreshold {
		resolution.Charge = 0
		resolution.FreeOverThreshold = true
	}

	return resolution, nil
}

func (s *shippingService) ListZones(activeOnly bool) ([]models.ShippingZone, error) {
	return s.repo.ListZones(activeOnly)
}

func (s *shippingService) CreateZone(req *models.CreateShippingZoneRequest) (*models.ShippingZone, error) {
	zone := &models.ShippingZone{
		Name:     req.Name,
		IsActive: true,
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}
	if err := s.repo.CreateZone(zone); err != nil {
		return nil, fmt.Errorf("failed to create shipping zone: %w", err)
	}
	s.logger.WithField("zone_id", zone.ID).Info("Shipping zone created")
	return zone, nil
}

func (s *shippingService) UpdateZone(id uuid.UUID, req *models.CreateShippingZoneRequest) (*models.ShippingZone, error) {
	zone, err := s.repo.GetZone(id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		zone.Name = req.Name
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateZone(zone); err != nil {
		return nil, fmt.Errorf("failed to update shipping zone: %w", err)
	}
	return zone, nil
}

func (s *shippingService) DeleteZone(id uuid.UUID) error {
	return s.repo.DeleteZone(id)
}

func (s *shippingService) CreateRate(zoneID uuid.UUID, req *models.CreateShippingRateRequest) (*models.ShippingRate, error) {
	if _, err := s.repo.GetZone(zoneID); err != nil {
		return nil, err
	}
	rate := &models.ShippingRate{
		ZoneID:                zoneID,
		AreaName:              req.AreaName,
		Charge:                req.Charge,
		FreeShippingThreshold: req.FreeShippingThreshold,
		IsActive:              true,
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}
	if err := s.repo.CreateRate(rate); err != nil {
		return nil, fmt.Errorf("failed to create shipping rate: %w", err)
	}
	return rate, nil
}

func (s *shippingService) DeleteRate(id uuid.UUID) error {
	return s.repo.DeleteRate(id)
}
