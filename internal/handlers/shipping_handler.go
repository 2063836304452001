package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

// ShippingHandler serves the shipping zone/rate catalog
type ShippingHandler struct {
	shipping services.ShippingService
	logger   *logrus.Logger
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(shipping services.ShippingService, logger *logrus.Logger) *ShippingHandler {
	return &ShippingHandler{shipping: shipping, logger: logger}
}

// ListZones godoc
// @Summary List shipping zones with their rates
// @Tags shipping
// @Produce json
// @Success 200 {array} models.ShippingZone
// @Router /storefront/shipping/zones [get]
func (h *ShippingHandler) ListZones(c *gin.Context) {
	zones, err := h.shipping.ListZones(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": zones})
}

// ListAllZones godoc
// @Summary List all shipping zones including inactive
// @Tags shipping
// @Produce json
// @Success 200 {array} models.ShippingZone
// @Router /shipping/zones [get]
func (h *ShippingHandler) ListAllZones(c *gin.Context) {
	zones, err := h.shipping.ListZones(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": zones})
}

// CreateZone godoc
// @Summary Create a shipping zone
// @Tags shipping
// @Accept json
// @Produce json
// @Param request body models.CreateShippingZoneRequest true "Zone"
// @Success 201 {object} models.ShippingZone
// @Router /shipping/zones [post]
func (h *ShippingHandler) CreateZone(c *gin.Context) {
	var req models.CreateShippingZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	zone, err := h.shipping.CreateZone(&req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": zone})
}

// UpdateZone godoc
// @Summary Update a shipping zone
// @Tags shipping
// @Accept json
// @Produce json
// @Param id path string true "Zone ID"
// @Param request body models.CreateShippingZoneRequest true "Fields to update"
// @Success 200 {object} models.ShippingZone
// @Router /shipping/zones/{id} [put]
func (h *ShippingHandler) UpdateZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "zone id must be a UUID")
		return
	}
	var req models.CreateShippingZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	zone, err := h.shipping.UpdateZone(id, &req)
	if err != nil {
		respondError(c, http.StatusNotFound, "UPDATE_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": zone})
}

// DeleteZone godoc
// @Summary Delete a shipping zone and its rates
// @Tags shipping
// @Produce json
// @Param id path string true "Zone ID"
// @Success 204
// @Router /shipping/zones/{id} [delete]
func (h *ShippingHandler) DeleteZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "zone id must be a UUID")
		return
	}
	if err := h.shipping.DeleteZone(id); err != nil {
		respondError(c, http.StatusNotFound, "DELETE_FAILED", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateRate godoc
// @Summary Add a rate to a shipping zone
// @Tags shipping
// @Accept json
// @Produce json
// @Param id path string true "Zone ID"
// @Param request body models.CreateShippingRateRequest true "Rate"
// @Success 201 {object} models.ShippingRate
// @Router /shipping/zones/{id}/rates [post]
func (h *ShippingHandler) CreateRate(c *gin.Context) {
	zoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "zone id must be a UUID")
		return
	}
	var req models.CreateShippingRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rate, err := h.shipping.CreateRate(zoneID, &req)
	if err != nil {
		respondError(c, http.StatusNotFound, "CREATE_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": rate})
}

// DeleteRate godoc
// @Summary Delete a shipping rate
// @Tags shipping
// @Produce json
// @Param rateId path string true "Rate ID"
// @Success 204
// @Router /shipping/rates/{rateId} [delete]
func (h *ShippingHandler) DeleteRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rateId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "rate id must be a UUID")
		return
	}
	if err := h.shipping.DeleteRate(id); err != nil {
		respondError(c, http.StatusNotFound, "DELETE_FAILED", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
