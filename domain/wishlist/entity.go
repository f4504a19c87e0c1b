// Package wishlist provides the (user, product) wishlist join table.
package wishlist

import (
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a saved product. At most one item exists per (user, product).
type Item struct {
	ID        string           `gorm:"primaryKey;type:text" json:"id"`
	UserID    string           `gorm:"type:text;not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID string           `gorm:"type:text;not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	Product   *product.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName returns the table name for the Item entity.
func (Item) TableName() string {
	return "wishlist_items"
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (i *Item) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
