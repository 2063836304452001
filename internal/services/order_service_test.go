package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/events"
	"storefront-service/internal/models"
)

func newOrderServiceForTest() (*MockOrderRepository, OrderService) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, events.NewPublisher("", testLogger()), testLogger())
	return repo, svc
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-100",
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Total:         99.0,
	}
}

func TestUpdateStatusValidTransition(t *testing.T) {
	order := pendingOrder()

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)
	repo.On("UpdateStatus", order.ID, models.OrderStatusConfirmed, "looks good").Return(nil)
	repo.On("AddTimelineEvent", order.ID, "status_changed", mock.Anything, "staff-1").Return(nil)

	updated, err := svc.UpdateStatus(order.ID, models.OrderStatusConfirmed, "looks good", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
	assert.Equal(t, 99.0, updated.Total, "totals are never touched by a status change")
	repo.AssertExpectations(t)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	order := pendingOrder()
	order.Status = models.OrderStatusDelivered

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)

	_, err := svc.UpdateStatus(order.ID, models.OrderStatusShipped, "", "staff-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status transition")
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusAcceptsDeprecatedAlias(t *testing.T) {
	order := pendingOrder()
	order.Status = models.OrderStatusProcessing

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)
	repo.On("UpdateStatus", order.ID, models.OrderStatusShipped, "").Return(nil)
	repo.On("AddTimelineEvent", order.ID, "status_changed", mock.Anything, "staff-1").Return(nil)

	updated, err := svc.UpdateStatus(order.ID, models.OrderStatusSendToCourier, "", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status, "alias is stored canonically")
}

func TestUpdateStatusNoOpWhenUnchanged(t *testing.T) {
	order := pendingOrder()

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)

	updated, err := svc.UpdateStatus(order.ID, models.OrderStatusPending, "", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePaymentStatusNeverMovesFulfillment(t *testing.T) {
	order := pendingOrder()

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)
	repo.On("UpdatePaymentStatus", order.ID, models.PaymentStatusPaid, "txn-1").Return(nil)
	repo.On("AddTimelineEvent", order.ID, "payment_status_changed", mock.Anything, "gateway").Return(nil)

	updated, err := svc.UpdatePaymentStatus(order.ID, models.PaymentStatusPaid, "txn-1", "gateway")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, updated.Status, "payment callbacks never touch fulfillment status")
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePaymentStatusInvalidTransition(t *testing.T) {
	order := pendingOrder()
	order.PaymentStatus = models.PaymentStatusRefunded

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)

	_, err := svc.UpdatePaymentStatus(order.ID, models.PaymentStatusPaid, "", "gateway")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payment status transition")
}

func TestDeleteRefusesNonCancelledOrder(t *testing.T) {
	order := pendingOrder()

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)

	err := svc.Delete(order.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only cancelled orders can be deleted")
	repo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeleteCancelledOrder(t *testing.T) {
	order := pendingOrder()
	order.Status = models.OrderStatusCancelled

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)
	repo.On("Delete", order.ID).Return(nil)

	assert.NoError(t, svc.Delete(order.ID))
	repo.AssertExpectations(t)
}

func TestBulkUpdateStatusReportsPerOrderOutcomes(t *testing.T) {
	good := pendingOrder()
	terminal := pendingOrder()
	terminal.Status = models.OrderStatusDelivered

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", good.ID).Return(good, nil)
	repo.On("GetByID", terminal.ID).Return(terminal, nil)
	repo.On("UpdateStatus", good.ID, models.OrderStatusConfirmed, "").Return(nil)
	repo.On("AddTimelineEvent", good.ID, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	outcomes := svc.BulkUpdateStatus([]uuid.UUID{good.ID, terminal.ID}, models.OrderStatusConfirmed, "staff-1")
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success, "one failure never aborts the rest")
	assert.Contains(t, outcomes[1].Error, "invalid order status transition")
}

func TestBulkDeleteSkipsNonCancelled(t *testing.T) {
	cancelled := pendingOrder()
	cancelled.Status = models.OrderStatusCancelled
	shipped := pendingOrder()
	shipped.Status = models.OrderStatusShipped

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", cancelled.ID).Return(cancelled, nil)
	repo.On("GetByID", shipped.ID).Return(shipped, nil)
	repo.On("Delete", cancelled.ID).Return(nil)

	deleted, outcomes := svc.BulkDelete([]uuid.UUID{cancelled.ID, shipped.ID})
	assert.Equal(t, 1, deleted)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success)
	repo.AssertNotCalled(t, "Delete", shipped.ID)
}

func TestCancelRecordsReason(t *testing.T) {
	order := pendingOrder()

	repo, svc := newOrderServiceForTest()
	repo.On("GetByID", order.ID).Return(order, nil)
	repo.On("UpdateStatus", order.ID, models.OrderStatusCancelled, "customer request").Return(nil)
	repo.On("AddTimelineEvent", order.ID, "status_changed", mock.Anything, "staff-1").Return(nil)

	updated, err := svc.Cancel(order.ID, "customer request", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
}
