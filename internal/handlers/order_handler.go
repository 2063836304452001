package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"
)

// OrderHandler serves the admin order lifecycle surface plus the customer
// order tracking endpoint
type OrderHandler struct {
	orders    services.OrderService
	documents services.DocumentService
	logger    *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders services.OrderService, documents services.DocumentService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		documents: documents,
		logger:    logger,
	}
}

// UpdateStatusRequest is the body for a status transition
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Notes  string             `json:"notes,omitempty"`
}

// UpdatePaymentStatusRequest is the body for a payment status transition
type UpdatePaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required"`
	TransactionID string               `json:"transactionId,omitempty"`
}

// BulkStatusRequest applies one status to many orders
type BulkStatusRequest struct {
	OrderIDs []uuid.UUID        `json:"orderIds" binding:"required,min=1"`
	Status   models.OrderStatus `json:"status" binding:"required"`
}

// BulkDeleteRequest deletes many cancelled orders
type BulkDeleteRequest struct {
	OrderIDs []uuid.UUID `json:"orderIds" binding:"required,min=1"`
}

// CancelRequest carries the cancellation reason
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

func staffActor(c *gin.Context) string {
	if staffID := c.GetString(middleware.ContextStaffID); staffID != "" {
		return staffID
	}
	return "staff"
}

// List godoc
// @Summary List orders
// @Description Lists orders with filtering and pagination
// @Tags orders
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by order status"
// @Param payment_status query string false "Filter by payment status"
// @Param email query string false "Filter by customer email"
// @Success 200 {object} map[string]interface{}
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filters := repository.OrderFilters{Page: page, Limit: limit}

	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		if !models.IsValidOrderStatus(s) {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", fmt.Sprintf("unknown status %q", status))
			return
		}
		filters.Status = &s
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		ps := models.PaymentStatus(paymentStatus)
		filters.PaymentStatus = &ps
	}
	if email := c.Query("email"); email != "" {
		filters.CustomerEmail = &email
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_CUSTOMER_ID", "customer_id must be a UUID")
			return
		}
		filters.CustomerID = &id
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &t
		}
	}

	orders, total, err := h.orders.List(filters)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": paginationInfo(page, limit, total),
	})
}

// Get godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "order id must be a UUID")
		return
	}
	order, err := h.orders.GetByID(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// Track godoc
// @Summary Track an order by its number
// @Tags storefront
// @Produce json
// @Param orderNumber path string true "Order number"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.ErrorResponse
// @Router /storefront/orders/{orderNumber} [get]
func (h *OrderHandler) Track(c *gin.Context) {
	order, err := h.orders.GetByOrderNumber(c.Param("orderNumber"))
	if err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// UpdateStatus godoc
// @Summary Update order status
// @Description Moves the order through the fulfillment state machine
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "order id must be a UUID")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(id, req.Status, req.Notes, staffActor(c))
	if err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// UpdatePaymentStatus godoc
// @Summary Update payment status
// @Description Moves the payment status through its state machine; never touches fulfillment status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body UpdatePaymentStatusRequest true "New payment status"
// @Success 200 {object} models.Order
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/{id}/payment-status [put]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "order id must be a UUID")
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := h.orders.UpdatePaymentStatus(id, req.PaymentStatus, req.TransactionID, staffActor(c))
	if err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// Cancel godoc
// @Summary Cancel an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body CancelRequest false "Cancellation reason"
// @Success 200 {object} models.Order
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "order id must be a UUID")
		return
	}
	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.orders.Cancel(id, req.Reason, staffActor(c))
	if err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// Delete godoc
// @Summary Delete a cancelled order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 204
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "order id must be a UUID")
		return
	}
	if err := h.orders.Delete(id); err != nil {
		respondError(c, http.StatusConflict, "DELETE_REFUSED", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkUpdateStatus godoc
// @Summary Bulk update order statuses
// @Description Applies one status transition to many orders; each order succeeds or fails independently
// @Tags orders
// @Accept json
// @Produce json
// @Param request body BulkStatusRequest true "Order ids and target status"
// @Success 200 {array} services.BulkOutcome
// @Router /orders/bulk/status [post]
func (h *OrderHandler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	outcomes := h.orders.BulkUpdateStatus(req.OrderIDs, req.Status, staffActor(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": outcomes})
}

// BulkDelete godoc
// @Summary Bulk delete cancelled orders
// @Description Deletes the cancelled orders among the ids and reports the rest as skipped
// @Tags orders
// @Accept json
// @Produce json
// @Param request body BulkDeleteRequest true "Order ids"
// @Success 200 {object} map[string]interface{}
// @Router /orders/bulk/delete [post]
func (h *OrderHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	deleted, outcomes := h.orders.BulkDelete(req.OrderIDs)
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted, "data": outcomes})
}

// Export godoc
// @Summary Export orders to a spreadsheet
// @Tags orders
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by order status"
// @Success 200 {file} binary
// @Router /orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	filters := repository.OrderFilters{Page: 1, Limit: 100}
	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		filters.Status = &s
	}

	// page through everything; exports are an admin operation, not a hot path
	var all []models.Order
	for {
		orders, total, err := h.orders.List(filters)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		all = append(all, orders...)
		if int64(len(all)) >= total || len(orders) == 0 {
			break
		}
		filters.Page++
	}

	data, err := h.documents.ExportOrders(all)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Invoice godoc
// @Summary Download the order invoice PDF
// @Tags orders
// @Produce application/pdf
// @Param id path string true "Order ID"
// @Success 200 {file} binary
// @Router /orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	h.renderPDF(c, "invoice", h.documents.Invoice)
}

// PackingSlip godoc
// @Summary Download the packing slip PDF
// @Tags orders
// @Produce application/pdf
// @Param id path string true "Order ID"
// @Success 200 {file} binary
// @Router /orders/{id}/packing-slip [get]
func (h *OrderHandler) PackingSlip(c *gin.Context) {
	h.renderPDF(c, "packing-slip", h.documents.PackingSlip)
}

// ShippingLabel godoc
// @Summary Download the shipping label PDF
// @Tags orders
// @Produce application/pdf
// @Param id path string true "Order ID"
// @Success 200 {file} binary
// @Router /orders/{id}/shipping-label [get]
func (h *OrderHandler) ShippingLabel(c *gin.Context) {
	h.renderPDF(c, "shipping-label", h.documents.ShippingLabel)
}

// BulkDocumentsRequest names the orders and the document kind to render
type BulkDocumentsRequest struct {
	OrderIDs []uuid.UUID `json:"orderIds" binding:"required,min=1"`
	Kind     string      `json:"kind" binding:"required,oneof=invoice packing-slip shipping-label"`
}

// BulkDocuments godoc
// @Summary Download one PDF containing documents for many orders
// @Tags orders
// @Accept json
// @Produce application/pdf
// @Param request body BulkDocumentsRequest true "Order ids and document kind"
// @Success 200 {file} binary
// @Router /orders/bulk/documents [post]
func (h *OrderHandler) BulkDocuments(c *gin.Context) {
	var req BulkDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var orders []models.Order
	for _, id := range req.OrderIDs {
		order, err := h.orders.GetByID(id)
		if err != nil {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND",
				fmt.Sprintf("order %s not found", id))
			return
		}
		orders = append(orders, *order)
	}

	data, err := h.documents.BulkDocuments(orders, req.Kind)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}

	filename := fmt.Sprintf("%ss-%s.pdf", req.Kind, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *OrderHandler) renderPDF(c *gin.Context, kind string, render func(*models.Order) ([]byte, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "order id must be a UUID")
		return
	}
	order, err := h.orders.GetByID(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
		return
	}
	data, err := render(order)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	filename := fmt.Sprintf("%s-%s.pdf", kind, order.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
