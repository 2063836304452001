package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/events"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// BulkOutcome reports the result of one order within a bulk operation.
// Bulk operations are not transactional: each order succeeds or fails on its
// own and the caller gets the full breakdown.
type BulkOutcome struct {
	OrderID uuid.UUID `json:"orderId"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// OrderService manages the post-checkout order lifecycle
type OrderService interface {
	GetByID(id uuid.UUID) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	List(filters repository.OrderFilters) ([]models.Order, int64, error)

	UpdateStatus(id uuid.UUID, status models.OrderStatus, notes, actor string) (*models.Order, error)
	UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus, transactionID, actor string) (*models.Order, error)
	Cancel(id uuid.UUID, reason, actor string) (*models.Order, error)
	Delete(id uuid.UUID) error

	BulkUpdateStatus(ids []uuid.UUID, status models.OrderStatus, actor string) []BulkOutcome
	BulkDelete(ids []uuid.UUID) (deleted int, outcomes []BulkOutcome)
}

type orderService struct {
	repo      repository.OrderRepository
	publisher *events.Publisher
	logger    *logrus.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repo repository.OrderRepository, publisher *events.Publisher, logger *logrus.Logger) OrderService {
	return &orderService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *orderService) GetByID(id uuid.UUID) (*models.Order, error) {
	return s.repo.GetByID(id)
}

func (s *orderService) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	return s.repo.GetByOrderNumber(orderNumber)
}

func (s *orderService) List(filters repository.OrderFilters) ([]models.Order, int64, error) {
	return s.repo.List(filters)
}

// UpdateStatus moves the fulfillment status through the state machine.
// Deprecated aliases are normalized before validation, and the stored row only
// has its status columns touched; totals and line items stay frozen.
func (s *orderService) UpdateStatus(id uuid.UUID, status models.OrderStatus, notes, actor string) (*models.Order, error) {
	status = models.NormalizeOrderStatus(status)
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status: %s", status)
	}

	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	from := models.NormalizeOrderStatus(order.Status)
	if from == status {
		return order, nil
	}
	if err := models.ValidateOrderStatusTransition(from, status); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(id, status, notes); err != nil {
		return nil, err
	}
	_ = s.repo.AddTimelineEvent(id, "status_changed",
		fmt.Sprintf("Status changed from %s to %s", from.DisplayName(), status.DisplayName()), actor)

	order.Status = status
	if notes != "" {
		order.Notes = notes
	}
	s.publisher.OrderStatusChanged(order, from, status)

	s.logger.WithFields(logrus.Fields{
		"order_id": id,
		"from":     from,
		"to":       status,
		"actor":    actor,
	}).Info("Order status updated")

	return order, nil
}

// UpdatePaymentStatus moves the payment status through its own machine.
// Gateway callbacks land here and never touch the fulfillment status.
func (s *orderService) UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus, transactionID, actor string) (*models.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	from := order.PaymentStatus
	if from == status {
		return order, nil
	}
	if err := models.ValidatePaymentStatusTransition(from, status); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePaymentStatus(id, status, transactionID); err != nil {
		return nil, err
	}
	_ = s.repo.AddTimelineEvent(id, "payment_status_changed",
		fmt.Sprintf("Payment changed from %s to %s", from.DisplayName(), status.DisplayName()), actor)

	order.PaymentStatus = status
	if transactionID != "" {
		order.TransactionID = transactionID
	}
	s.publisher.PaymentUpdated(order, from, status)

	return order, nil
}

// Cancel is a convenience transition to CANCELLED with a recorded reason
func (s *orderService) Cancel(id uuid.UUID, reason, actor string) (*models.Order, error) {
	order, err := s.UpdateStatus(id, models.OrderStatusCancelled, reason, actor)
	if err != nil {
		return nil, err
	}
	s.publisher.OrderCancelled(order, reason)
	return order, nil
}

// Delete removes an order permanently. Only cancelled orders can be deleted;
// anything else must be cancelled first so the lifecycle is auditable.
func (s *orderService) Delete(id uuid.UUID) error {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if models.NormalizeOrderStatus(order.Status) != models.OrderStatusCancelled {
		return fmt.Errorf("only cancelled orders can be deleted (order %s is %s)", order.OrderNumber, order.Status)
	}
	return s.repo.Delete(id)
}

// BulkUpdateStatus applies a status transition to each order independently.
// One invalid transition does not stop the rest; the caller gets a per-order
// breakdown.
func (s *orderService) BulkUpdateStatus(ids []uuid.UUID, status models.OrderStatus, actor string) []BulkOutcome {
	outcomes := make([]BulkOutcome, 0, len(ids))
	for _, id := range ids {
		_, err := s.UpdateStatus(id, status, "", actor)
		outcome := BulkOutcome{OrderID: id, Success: err == nil}
		if err != nil {
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// BulkDelete deletes the cancelled orders among ids and reports the rest as
// skipped. Non-cancelled orders are never deleted by a bulk call.
func (s *orderService) BulkDelete(ids []uuid.UUID) (int, []BulkOutcome) {
	deleted := 0
	outcomes := make([]BulkOutcome, 0, len(ids))
	for _, id := range ids {
		err := s.Delete(id)
		outcome := BulkOutcome{OrderID: id, Success: err == nil}
		if err != nil {
			outcome.Error = err.Error()
		} else {
			deleted++
		}
		outcomes = append(outcomes, outcome)
	}
	return deleted, outcomes
}
