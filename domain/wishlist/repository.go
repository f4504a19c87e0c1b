package wishlist

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProductRequired is returned when no product ID is given.
var ErrProductRequired = errors.New("product_id is required")

// Repository provides access to wishlist storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new wishlist repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add saves the product to the user's wishlist. Adding twice keeps one row.
func (r *Repository) Add(ctx context.Context, userID, productID string) error {
	return add(r.db.WithContext(ctx), userID, productID)
}

// Remove deletes the product from the user's wishlist if present.
func (r *Repository) Remove(ctx context.Context, userID, productID string) error {
	return remove(r.db.WithContext(ctx), userID, productID)
}

// Contains reports whether the product is on the user's wishlist.
func (r *Repository) Contains(ctx context.Context, userID, productID string) (bool, error) {
	return contains(r.db.WithContext(ctx), userID, productID)
}

// Toggle flips membership and reports whether the product is now on the wishlist.
// The membership read and the write share one transaction.
func (r *Repository) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		present, err := contains(tx, userID, productID)
		if err != nil {
			return err
		}
		if present {
			return remove(tx, userID, productID)
		}
		added = true
		return add(tx, userID, productID)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// List returns the user's wishlist with product details, newest first.
func (r *Repository) List(ctx context.Context, userID string) ([]Item, error) {
	var items []Item
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// Clear removes every item on the user's wishlist.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Item{}).Error; err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

func add(db *gorm.DB, userID, productID string) error {
	if productID == "" {
		return ErrProductRequired
	}
	item := Item{UserID: userID, ProductID: productID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func remove(db *gorm.DB, userID, productID string) error {
	if err := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&Item{}).Error; err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

func contains(db *gorm.DB, userID, productID string) (bool, error) {
	var n int64
	err := db.Model(&Item{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return n > 0, nil
}
