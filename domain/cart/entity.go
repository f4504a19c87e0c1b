// Package cart provides the cart item entity, totals and the server-side cart repository.
package cart

import (
	"errors"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/product"
)

var (
	// ErrInvalidQuantity is returned when adding fewer than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrItemNotFound is returned when the item does not exist in the owner's cart.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrProductRequired is returned when a cart line has no product ID.
	ErrProductRequired = errors.New("product_id is required")
)

// Item is one (owner, product, quantity) row of a cart.
// There is at most one item per (owner, product) pair.
type Item struct {
	ID        string           `gorm:"primaryKey;type:text" json:"id"`
	UserID    string           `gorm:"type:text;not null;uniqueIndex:idx_cart_user_product" json:"user_id,omitempty"`
	ProductID string           `gorm:"type:text;not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int              `gorm:"not null" json:"quantity"`
	Product   *product.Product `gorm:"-" json:"product,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName returns the table name for the Item entity.
func (Item) TableName() string {
	return "cart_items"
}

// Line is a product and quantity pair, as submitted by a guest cart at sign-in.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is the full view of an owner's cart after any mutation.
type Cart struct {
	Items     []Item  `json:"items"`
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
}

// NewCart computes the item count and subtotal. Items without product data count
// towards ItemCount but contribute nothing to Subtotal.
func NewCart(items []Item) Cart {
	c := Cart{Items: items}
	if c.Items == nil {
		c.Items = []Item{}
	}
	for _, it := range c.Items {
		c.ItemCount += it.Quantity
		if it.Product != nil {
			c.Subtotal += it.Product.Price * float64(it.Quantity)
		}
	}
	return c
}
