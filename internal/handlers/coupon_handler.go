package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

// CouponHandler serves coupon validation for the storefront and coupon
// administration for staff
type CouponHandler struct {
	coupons services.CouponService
	logger  *logrus.Logger
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons services.CouponService, logger *logrus.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, logger: logger}
}

// Validate godoc
// @Summary Validate a coupon against a cart
// @Description Returns valid/invalid with a reason code; rejection is a 200, not an error
// @Tags storefront
// @Accept json
// @Produce json
// @Param request body models.ValidateCouponRequest true "Coupon code and cart"
// @Success 200 {object} models.CouponValidationResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /storefront/coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	customerID := middleware.CustomerIDFromContext(c)
	outcome, err := h.coupons.Validate(req.Code, customerID, req.Items, req.Subtotal)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	resp := models.CouponValidationResponse{
		Success:    true,
		Valid:      outcome.Valid,
		ReasonCode: &outcome.ReasonCode,
	}
	if outcome.Valid {
		resp.DiscountAmount = &outcome.DiscountAmount
		resp.Coupon = outcome.Coupon
	} else {
		resp.Message = &outcome.Message
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Create a coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body models.CreateCouponRequest true "Coupon"
// @Success 201 {object} models.Coupon
// @Failure 400 {object} models.ErrorResponse
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	coupon, err := h.coupons.Create(&req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": coupon})
}

// List godoc
// @Summary List coupons
// @Tags coupons
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param active query bool false "Only active coupons"
// @Success 200 {object} map[string]interface{}
// @Router /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	activeOnly := c.Query("active") == "true"

	coupons, total, err := h.coupons.List(page, limit, activeOnly)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       coupons,
		"pagination": paginationInfo(page, limit, total),
	})
}

// Get godoc
// @Summary Get a coupon
// @Tags coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} models.Coupon
// @Failure 404 {object} models.ErrorResponse
// @Router /coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "coupon id must be a UUID")
		return
	}
	coupon, err := h.coupons.GetByID(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "COUPON_NOT_FOUND", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": coupon})
}

// Update godoc
// @Summary Update a coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param request body models.UpdateCouponRequest true "Fields to update"
// @Success 200 {object} models.Coupon
// @Failure 404 {object} models.ErrorResponse
// @Router /coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "coupon id must be a UUID")
		return
	}
	var req models.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	coupon, err := h.coupons.Update(id, &req)
	if err != nil {
		respondError(c, http.StatusNotFound, "UPDATE_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": coupon})
}

// Delete godoc
// @Summary Delete a coupon
// @Tags coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "coupon id must be a UUID")
		return
	}
	if err := h.coupons.Delete(id); err != nil {
		respondError(c, http.StatusNotFound, "DELETE_FAILED", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// Usage godoc
// @Summary List redemptions of a coupon
// @Tags coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /coupons/{id}/usage [get]
func (h *CouponHandler) Usage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "coupon id must be a UUID")
		return
	}
	page, limit := parsePagination(c)

	usages, total, err := h.coupons.ListUsage(id, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       usages,
		"pagination": paginationInfo(page, limit, total),
	})
}
