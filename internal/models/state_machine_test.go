package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending skips to shipped", OrderStatusPending, OrderStatusShipped, true},
		{"confirmed skips processing", OrderStatusConfirmed, OrderStatusShipped, true},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"shipped to returned", OrderStatusShipped, OrderStatusReturned, true},
		{"no backward moves", OrderStatusShipped, OrderStatusProcessing, false},
		{"no confirmed to pending", OrderStatusConfirmed, OrderStatusPending, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusReturned, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
		{"returned is terminal", OrderStatusReturned, OrderStatusShipped, false},
		{"unknown status", OrderStatus("BOGUS"), OrderStatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionOrderStatus(tt.from, tt.to))
		})
	}
}

func TestSendToCourierAlias(t *testing.T) {
	assert.Equal(t, OrderStatusShipped, NormalizeOrderStatus(OrderStatusSendToCourier))
	assert.Equal(t, OrderStatusPending, NormalizeOrderStatus(OrderStatusPending))

	// the alias behaves exactly like SHIPPED on both sides of a transition
	assert.True(t, CanTransitionOrderStatus(OrderStatusProcessing, OrderStatusSendToCourier))
	assert.True(t, CanTransitionOrderStatus(OrderStatusSendToCourier, OrderStatusDelivered))
	assert.True(t, IsValidOrderStatus(OrderStatusSendToCourier))
}

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"pending to paid", PaymentStatusPending, PaymentStatusPaid, true},
		{"pending to unpaid", PaymentStatusPending, PaymentStatusUnpaid, true},
		{"pending to cod", PaymentStatusPending, PaymentStatusCOD, true},
		{"unpaid retry", PaymentStatusUnpaid, PaymentStatusPending, true},
		{"unpaid to paid", PaymentStatusUnpaid, PaymentStatusPaid, true},
		{"cod collected", PaymentStatusCOD, PaymentStatusPaid, true},
		{"paid to refunded", PaymentStatusPaid, PaymentStatusRefunded, true},
		{"refunded is terminal", PaymentStatusRefunded, PaymentStatusPaid, false},
		{"paid cannot go pending", PaymentStatusPaid, PaymentStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionPaymentStatus(tt.from, tt.to))
		})
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, IsTerminalOrderStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalOrderStatus(OrderStatusReturned))
	assert.True(t, IsTerminalOrderStatus(OrderStatusCancelled))
	assert.False(t, IsTerminalOrderStatus(OrderStatusPending))
	assert.False(t, IsTerminalOrderStatus(OrderStatusShipped))

	assert.True(t, IsTerminalPaymentStatus(PaymentStatusRefunded))
	assert.False(t, IsTerminalPaymentStatus(PaymentStatusPaid))
}

func TestValidateTransitionErrors(t *testing.T) {
	err := ValidateOrderStatusTransition(OrderStatusDelivered, OrderStatusShipped)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status transition")

	assert.NoError(t, ValidateOrderStatusTransition(OrderStatusPending, OrderStatusConfirmed))
}
