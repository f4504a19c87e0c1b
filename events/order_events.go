package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderLine is one purchased line carried on order events.
type OrderLine struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}

// OrderPlacedEvent is emitted after an order and its items are stored.
type OrderPlacedEvent struct {
	OrderID        string      `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	UserID         string      `json:"user_id,omitempty"`
	Email          string      `json:"email"`
	CustomerName   string      `json:"customer_name"`
	City           string      `json:"city"`
	Phone          string      `json:"phone,omitempty"`
	Items          []OrderLine `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	ShippingCost   float64     `json:"shipping_cost"`
	DiscountAmount float64     `json:"discount_amount"`
	Total          float64     `json:"total"`
	ShippingMethod string      `json:"shipping_method"`
	PlacedAt       time.Time   `json:"placed_at"`
}

// OrderPlacedV1 is the typed event definition for a placed order.
// Subject: events.order.v1.order-placed
var OrderPlacedV1 = helper.EventDefinition[OrderPlacedEvent](
	"order", "OrderPlaced", "v1",
)

// OrderStatusChangedEvent is emitted when an admin moves an order to a new status.
type OrderStatusChangedEvent struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// OrderStatusChangedV1 is the typed event definition for order status changes.
// Subject: events.order.v1.order-status-changed
var OrderStatusChangedV1 = helper.EventDefinition[OrderStatusChangedEvent](
	"order", "OrderStatusChanged", "v1",
)
