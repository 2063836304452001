package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront-service/internal/models"
)

// Cache TTL constants for orders
const (
	OrderCacheTTL       = 10 * time.Minute // Orders - frequently accessed
	OrderNumberCacheTTL = 10 * time.Minute // Order lookups by number
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uuid.UUID) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	FindByIdempotencyKey(key string) (*models.Order, error)
	List(filters OrderFilters) ([]models.Order, int64, error)
	Update(order *models.Order) error
	UpdateStatus(id uuid.UUID, status models.OrderStatus, notes string) error
	UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus, transactionID string) error
	Delete(id uuid.UUID) error
	CountByCustomer(customerID uuid.UUID) (int64, error)
	AddTimelineEvent(orderID uuid.UUID, event, description, createdBy string) error
}

// OrderFilters represents filters for querying orders
type OrderFilters struct {
	CustomerID    *uuid.UUID
	CustomerEmail *string
	Status        *models.OrderStatus
	PaymentStatus *models.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	Limit         int
}

type orderRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewOrderRepository creates a new order repository with optional Redis caching
func NewOrderRepository(db *gorm.DB, redisClient *redis.Client) OrderRepository {
	return &orderRepository{
		db:    db,
		redis: redisClient,
	}
}

func orderCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("storefront:orders:id:%s", id.String())
}

func orderNumberCacheKey(orderNumber string) string {
	return fmt.Sprintf("storefront:orders:number:%s", orderNumber)
}

// cacheOrder stores an order in Redis; failures are ignored, the database is
// always the source of truth.
func (r *orderRepository) cacheOrder(ctx context.Context, key string, order *models.Order, ttl time.Duration) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(order)
	if err != nil {
		return
	}
	_ = r.redis.Set(ctx, key, data, ttl).Err()
}

func (r *orderRepository) cachedOrder(ctx context.Context, key string) *models.Order {
	if r.redis == nil {
		return nil
	}
	data, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil
	}
	return &order
}

func (r *orderRepository) invalidateOrderCaches(ctx context.Context, id uuid.UUID, orderNumber string) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, orderCacheKey(id)).Err()
	if orderNumber != "" {
		_ = r.redis.Del(ctx, orderNumberCacheKey(orderNumber)).Err()
	}
}

// orderNumberByID resolves the human-facing number for cache eviction; both
// the id key and the number key must go when an order changes.
func (r *orderRepository) orderNumberByID(id uuid.UUID) string {
	var orderNumber string
	_ = r.db.Model(&models.Order{}).Where("id = ?", id).
		Pluck("order_number", &orderNumber).Error
	return orderNumber
}

// Create persists a new order with all its associations
func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID retrieves an order by ID with all associations
func (r *orderRepository) GetByID(id uuid.UUID) (*models.Order, error) {
	ctx := context.Background()
	if order := r.cachedOrder(ctx, orderCacheKey(id)); order != nil {
		return order, nil
	}

	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("Customer").
		Preload("Shipping").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %s", id)
		}
		return nil, err
	}

	r.cacheOrder(ctx, orderCacheKey(id), &order, OrderCacheTTL)
	return &order, nil
}

// GetByOrderNumber retrieves an order by its human-facing number
func (r *orderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	ctx := context.Background()
	if order := r.cachedOrder(ctx, orderNumberCacheKey(orderNumber)); order != nil {
		return order, nil
	}

	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("Customer").
		Preload("Shipping").
		First(&order, "order_number = ?", orderNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %s", orderNumber)
		}
		return nil, err
	}

	r.cacheOrder(ctx, orderNumberCacheKey(orderNumber), &order, OrderNumberCacheTTL)
	return &order, nil
}

// FindByIdempotencyKey returns the order created with the given idempotency
// key, or nil when none exists.
func (r *orderRepository) FindByIdempotencyKey(key string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("Customer").
		Preload("Shipping").
		First(&order, "idempotency_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List retrieves orders with filtering and pagination
func (r *orderRepository) List(filters OrderFilters) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.Model(&models.Order{})

	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.CustomerEmail != nil {
		query = query.Joins("JOIN order_customers ON order_customers.order_id = orders.id").
			Where("order_customers.email = ?", *filters.CustomerEmail)
	}
	if filters.Status != nil {
		query = query.Where("orders.status = ?", models.NormalizeOrderStatus(*filters.Status))
	}
	if filters.PaymentStatus != nil {
		query = query.Where("orders.payment_status = ?", *filters.PaymentStatus)
	}
	if filters.DateFrom != nil {
		query = query.Where("orders.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("orders.created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	err := query.
		Preload("Items").
		Preload("Customer").
		Preload("Shipping").
		Order("orders.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Update persists changes to an order
func (r *orderRepository) Update(order *models.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		return err
	}
	r.invalidateOrderCaches(context.Background(), order.ID, order.OrderNumber)
	return nil
}

// UpdateStatus updates only the fulfillment status (and optional notes).
// The order total and line items are never touched here.
func (r *orderRepository) UpdateStatus(id uuid.UUID, status models.OrderStatus, notes string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if notes != "" {
		updates["notes"] = notes
	}
	result := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order not found: %s", id)
	}
	r.invalidateOrderCaches(context.Background(), id, r.orderNumberByID(id))
	return nil
}

// UpdatePaymentStatus updates only the payment status and gateway transaction id
func (r *orderRepository) UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus, transactionID string) error {
	updates := map[string]interface{}{
		"payment_status": status,
		"updated_at":     time.Now(),
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	result := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order not found: %s", id)
	}
	r.invalidateOrderCaches(context.Background(), id, r.orderNumberByID(id))
	return nil
}

// Delete removes an order and its associations. Line items are deleted before
// the order row so no orphaned items can persist; the calls are sequential and
// individually durable, matching the rest of the persistence model.
func (r *orderRepository) Delete(id uuid.UUID) error {
	// resolved before the row disappears
	orderNumber := r.orderNumberByID(id)

	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderLineItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderCustomer{}).Error; err != nil {
		return fmt.Errorf("failed to delete order customer: %w", err)
	}
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderShipping{}).Error; err != nil {
		return fmt.Errorf("failed to delete order shipping: %w", err)
	}
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderTimeline{}).Error; err != nil {
		return fmt.Errorf("failed to delete order timeline: %w", err)
	}
	if err := r.db.Delete(&models.Order{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	r.invalidateOrderCaches(context.Background(), id, orderNumber)
	return nil
}

// CountByCustomer counts prior orders for a customer (new-customer coupon rule)
func (r *orderRepository) CountByCustomer(customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

// AddTimelineEvent appends an audit event to an order's timeline
func (r *orderRepository) AddTimelineEvent(orderID uuid.UUID, event, description, createdBy string) error {
	entry := models.OrderTimeline{
		ID:          uuid.New(),
		OrderID:     orderID,
		Event:       event,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
	return r.db.Create(&entry).Error
}
