package models

import "fmt"

// ValidOrderTransitions defines valid state transitions for OrderStatus.
// Flow: PENDING → CONFIRMED → PROCESSING → SHIPPED → DELIVERED.
// RETURNED and CANCELLED can be reached from any non-terminal state.
// Forward skips are allowed (staff can confirm and ship in one step) but the
// machine never moves backwards; there is no automatic progression — every
// transition after creation is an explicit staff action or gateway callback.
var ValidOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusReturned, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusShipped, OrderStatusReturned, OrderStatusCancelled}, // Can skip PROCESSING
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusReturned, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusReturned, OrderStatusCancelled},
	OrderStatusDelivered:  {}, // Terminal state
	OrderStatusReturned:   {}, // Terminal state (refund adjustments are out of scope here)
	OrderStatusCancelled:  {}, // Terminal state
}

// ValidPaymentTransitions defines valid state transitions for PaymentStatus.
// Gateway callbacks only ever move payment status, never fulfillment status.
var ValidPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusCOD},
	PaymentStatusUnpaid:   {PaymentStatusPending, PaymentStatusPaid}, // Allow retry
	PaymentStatusCOD:      {PaymentStatusPaid, PaymentStatusRefunded},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusRefunded: {}, // Terminal state
}

// NormalizeOrderStatus folds deprecated aliases into canonical status values.
// SEND_TO_COURIER is accepted on input and treated as SHIPPED.
func NormalizeOrderStatus(status OrderStatus) OrderStatus {
	if status == OrderStatusSendToCourier {
		return OrderStatusShipped
	}
	return status
}

// CanTransitionOrderStatus checks if a transition from one order status to another is valid
func CanTransitionOrderStatus(from, to OrderStatus) bool {
	validTransitions, exists := ValidOrderTransitions[NormalizeOrderStatus(from)]
	if !exists {
		return false
	}
	to = NormalizeOrderStatus(to)
	for _, validTo := range validTransitions {
		if validTo == to {
			return true
		}
	}
	return false
}

// CanTransitionPaymentStatus checks if a transition from one payment status to another is valid
func CanTransitionPaymentStatus(from, to PaymentStatus) bool {
	validTransitions, exists := ValidPaymentTransitions[from]
	if !exists {
		return false
	}
	for _, validTo := range validTransitions {
		if validTo == to {
			return true
		}
	}
	return false
}

// ValidateOrderStatusTransition returns an error if the transition is invalid
func ValidateOrderStatusTransition(from, to OrderStatus) error {
	if !CanTransitionOrderStatus(from, to) {
		return fmt.Errorf("invalid order status transition from %s to %s", from, to)
	}
	return nil
}

// ValidatePaymentStatusTransition returns an error if the transition is invalid
func ValidatePaymentStatusTransition(from, to PaymentStatus) error {
	if !CanTransitionPaymentStatus(from, to) {
		return fmt.Errorf("invalid payment status transition from %s to %s", from, to)
	}
	return nil
}

// GetNextValidOrderStatuses returns the list of valid next statuses for an order
func GetNextValidOrderStatuses(current OrderStatus) []OrderStatus {
	return ValidOrderTransitions[NormalizeOrderStatus(current)]
}

// GetNextValidPaymentStatuses returns the list of valid next statuses for payment
func GetNextValidPaymentStatuses(current PaymentStatus) []PaymentStatus {
	return ValidPaymentTransitions[current]
}

// IsTerminalOrderStatus checks if the order status is a terminal state
func IsTerminalOrderStatus(status OrderStatus) bool {
	return len(ValidOrderTransitions[NormalizeOrderStatus(status)]) == 0
}

// IsTerminalPaymentStatus checks if the payment status is a terminal state
func IsTerminalPaymentStatus(status PaymentStatus) bool {
	return len(ValidPaymentTransitions[status]) == 0
}

// IsValidOrderStatus reports whether the value is a known status (after alias
// normalization).
func IsValidOrderStatus(status OrderStatus) bool {
	_, ok := ValidOrderTransitions[NormalizeOrderStatus(status)]
	return ok
}

// DisplayName returns a human-readable name for the order status
func (s OrderStatus) DisplayName() string {
	switch NormalizeOrderStatus(s) {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusConfirmed:
		return "Confirmed"
	case OrderStatusProcessing:
		return "Processing"
	case OrderStatusShipped:
		return "Sent to Courier"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusReturned:
		return "Returned"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// DisplayName returns a human-readable name for the payment status
func (s PaymentStatus) DisplayName() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusPaid:
		return "Paid"
	case PaymentStatusUnpaid:
		return "Unpaid"
	case PaymentStatusCOD:
		return "Cash on Delivery"
	case PaymentStatusRefunded:
		return "Refunded"
	default:
		return string(s)
	}
}
