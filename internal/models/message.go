package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys on the orders topic exchange
const (
	RoutingKeyOrderPlaced        = "order.placed"
	RoutingKeyOrderStatusChanged = "order.status_changed"
)

// OrderPlacedMessage is published once an order has been committed
type OrderPlacedMessage struct {
	EventID     string          `json:"event_id"`
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	Timestamp   time.Time       `json:"timestamp"`
}

// StatusUpdateMessage represents an admin status change
type StatusUpdateMessage struct {
	EventID   string      `json:"event_id"`
	OrderID   int64       `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	ChangedBy string      `json:"changed_by"`
	Timestamp time.Time   `json:"timestamp"`
}

// CreateOrderPlacedMessage builds the event for a freshly placed order
func CreateOrderPlacedMessage(o *Order) *OrderPlacedMessage {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return &OrderPlacedMessage{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		ItemCount:   count,
		Timestamp:   time.Now().UTC(),
	}
}

// CreateStatusUpdateMessage creates a StatusUpdateMessage for order status changes
func CreateStatusUpdateMessage(orderID int64, oldStatus, newStatus OrderStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Timestamp: time.Now().UTC(),
	}
}
