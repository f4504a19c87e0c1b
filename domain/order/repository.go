package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an order does not exist or is not visible to the caller.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateOrderNumber is returned when a generated order number collides.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// Stats are the order aggregates shown on the admin dashboard.
type Stats struct {
	Revenue       float64 `json:"total_revenue"`
	OrderCount    int64   `json:"total_orders"`
	PendingOrders int64   `json:"pending_orders"`
}

// Repository provides access to order storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateHeader inserts the order row without its items.
func (r *Repository) CreateHeader(ctx context.Context, o *Order) error {
	if err := r.db.WithContext(ctx).Omit("Items").Create(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// CreateItems inserts the order's line items in one statement.
func (r *Repository) CreateItems(ctx context.Context, items []OrderItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}
	return nil
}

// DeleteHeader removes an order row and any items written for it.
func (r *Repository) DeleteHeader(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&Order{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// FindByID retrieves an order with its items.
func (r *Repository) FindByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	if err := r.withItems(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// FindForUser retrieves an order only if it belongs to the user.
func (r *Repository) FindForUser(ctx context.Context, userID, id string) (*Order, error) {
	var o Order
	if err := r.withItems(ctx).First(&o, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// ListByUser returns the user's orders with items, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	var orders []Order
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order with items, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := r.withItems(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Recent returns the latest orders without items.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Order, error) {
	var orders []Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the status of an order. The status must already be validated.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	result := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates revenue, order count and pending count in one query.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.db.WithContext(ctx).
		Model(&Order{}).
		Select(
			"COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS order_count, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders",
			StatusPending,
		).
		Scan(&s).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	return s, nil
}

func (r *Repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}
