package model

import (
	"fmt"
	"time"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order statuses. Any status may move to any other.
const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusFulfilled  OrderStatus = "FULFILLED"
)

// OrderStatuses lists every valid status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusFulfilled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a raw value into an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid order status %q", raw)
	}
	return s, nil
}

// Order is a customer order and its lines.
type Order struct {
	ID          int64       `json:"id"`
	CustomerID  int64       `json:"customer_id"`
	PickedKeyID *int64      `json:"picked_key_id"`
	OrderNumber string      `json:"order_number"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	OrderItems  []OrderItem `json:"order_items"`
}

// OrderItem is a single line of an order. Subtotal is whatever the caller
// supplied; it is not derived from Quantity and UnitPrice.
type OrderItem struct {
	OrderID   int64     `json:"order_id"`
	ItemID    int64     `json:"item_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Subtotal  float64   `json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderInput holds the fields needed to create an order.
type OrderInput struct {
	CustomerID  int64
	PickedKeyID *int64
	OrderNumber string
	Items       []OrderItemInput
}

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	ItemID    int64
	Quantity  int64
	UnitPrice float64
	Subtotal  float64
}
