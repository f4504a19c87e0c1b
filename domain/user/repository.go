package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a profile does not exist.
var ErrNotFound = errors.New("profile not found")

// Customer is a profile with its order aggregates, as shown in the back-office.
type Customer struct {
	Profile
	OrderCount int64   `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

// Repository provides access to profile storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new profile repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the profile or overwrites the mutable columns of an existing one.
// created_at is kept from the first insert so repeated deliveries converge.
func (r *Repository) Upsert(ctx context.Context, p *Profile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "phone", "is_admin", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// FindByID retrieves a profile by identity provider user ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &p, nil
}

// Delete removes a profile. Deleting a missing profile is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&Profile{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// Count returns the number of profiles.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Profile{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return n, nil
}

// ListCustomers returns every profile with its order count and total spent, newest first.
func (r *Repository) ListCustomers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.*, COUNT(orders.id) AS order_count, COALESCE(SUM(orders.total), 0) AS total_spent").
		Joins("LEFT JOIN orders ON orders.user_id = profiles.id").
		Group("profiles.id").
		Order("profiles.created_at DESC").
		Scan(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
