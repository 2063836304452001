package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-service/internal/gateway"
	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success:   false,
		Error:     models.Error{Code: code, Message: message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: c.GetString(middleware.ContextRequestID),
	})
}

// respondServiceError maps service-layer errors onto HTTP statuses. Validation
// and typed gateway failures become 422, unknown errors 500.
func respondServiceError(c *gin.Context, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		respondError(c, http.StatusUnprocessableEntity, validation.Code, validation.Message)
		return
	}
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		respondError(c, http.StatusUnprocessableEntity, gwErr.Code, gwErr.Message)
		return
	}
	if errors.Is(err, services.ErrShippingSelectionRequired) {
		respondError(c, http.StatusUnprocessableEntity, "SHIPPING_REQUIRED", err.Error())
		return
	}
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginationInfo(page, limit int, total int64) models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
