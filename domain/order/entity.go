// Package order provides the order and order item entities, checkout pricing rules and the order repository.
package order

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the lifecycle state of an order.
type Status string

// Order statuses. The intended flow is pending → confirmed → processing →
// shipped → delivered, with cancelled reachable from any state. Only
// membership in this set is enforced, not the ordering.
const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentCashOnDelivery is the only payment method the store accepts.
const PaymentCashOnDelivery = "cash_on_delivery"

// Statuses lists every valid order status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ParseStatus returns the Status for s or ErrInvalidStatus.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Validation errors, returned before any write.
var (
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrEmailRequired         = errors.New("a valid contact email is required")
	ErrAddressIncomplete     = errors.New("shipping address requires full_name, street_address, city, postal_code and country")
	ErrNoItems               = errors.New("order must contain at least one item")
	ErrInvalidItem           = errors.New("order items need a product_id and a quantity of at least 1")
	ErrInvalidShippingMethod = errors.New("shipping method must be standard or express")
)

// Address is a shipping or billing address embedded in the order row.
type Address struct {
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Phone         string `json:"phone,omitempty"`
}

// Validate checks the required address fields.
func (a Address) Validate() error {
	for _, f := range []string{a.FullName, a.StreetAddress, a.City, a.PostalCode, a.Country} {
		if strings.TrimSpace(f) == "" {
			return ErrAddressIncomplete
		}
	}
	return nil
}

// Order is a placed order. Only Status and the timestamps change after creation.
type Order struct {
	ID              string      `gorm:"primaryKey;type:text" json:"id"`
	UserID          *string     `gorm:"type:text;index" json:"user_id"`
	GuestEmail      *string     `gorm:"type:text" json:"guest_email"`
	OrderNumber     string      `gorm:"type:text;uniqueIndex;not null" json:"order_number"`
	Status          Status      `gorm:"type:text;not null;index" json:"status"`
	Subtotal        float64     `gorm:"not null" json:"subtotal"`
	ShippingCost    float64     `gorm:"not null" json:"shipping_cost"`
	DiscountAmount  float64     `gorm:"not null" json:"discount_amount"`
	Total           float64     `gorm:"not null" json:"total"`
	PromoCode       *string     `gorm:"type:text" json:"promo_code"`
	ShippingAddress Address     `gorm:"serializer:json;not null" json:"shipping_address"`
	ShippingMethod  string      `gorm:"type:text" json:"shipping_method"`
	PaymentMethod   string      `gorm:"type:text;not null" json:"payment_method"`
	Notes           *string     `gorm:"type:text" json:"notes"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName returns the table name for the Order entity.
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is an immutable snapshot of a product line at purchase time.
// ProductID is informational: the product may later be deleted.
type OrderItem struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	OrderID      string    `gorm:"type:text;not null;index" json:"order_id"`
	ProductID    *string   `gorm:"type:text" json:"product_id"`
	ProductName  string    `gorm:"type:text;not null" json:"product_name"`
	ProductPrice float64   `gorm:"not null" json:"product_price"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for the OrderItem entity.
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (i *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// LineItem is a checkout line. Name and price are snapshots; the order writer
// replaces them with the catalog's current values before pricing.
type LineItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}

// PlaceOrderRequest is the checkout submission.
type PlaceOrderRequest struct {
	Email           string     `json:"email"`
	ShippingAddress Address    `json:"shipping_address"`
	Items           []LineItem `json:"items"`
	ShippingMethod  string     `json:"shipping_method"`
	PromoCode       string     `json:"promo_code,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// Validate checks every field the order writer needs before touching storage.
func (r *PlaceOrderRequest) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return ErrEmailRequired
	}
	if err := r.ShippingAddress.Validate(); err != nil {
		return err
	}
	if _, err := ParseShippingMethod(r.ShippingMethod); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range r.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			return ErrInvalidItem
		}
	}
	return nil
}
