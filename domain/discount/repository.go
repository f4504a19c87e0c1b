package discount

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides access to discount code storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new discount code repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSeed inserts the launch promotion if no code with that name exists.
func (r *Repository) EnsureSeed(ctx context.Context) error {
	seed := Seed()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&seed).Error
	if err != nil {
		return fmt.Errorf("failed to seed discount codes: %w", err)
	}
	return nil
}

// Create saves a new discount code.
func (r *Repository) Create(ctx context.Context, c *Code) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create discount code: %w", err)
	}
	return nil
}

// FindByCode looks a code up case-insensitively. Unknown codes return ErrInvalidCode.
func (r *Repository) FindByCode(ctx context.Context, code string) (*Code, error) {
	var c Code
	if err := r.db.WithContext(ctx).First(&c, "code = ?", Normalize(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to find discount code: %w", err)
	}
	return &c, nil
}

// Redeem increments the usage counter if the code still has uses left.
// The limit check and the increment are one UPDATE.
func (r *Repository) Redeem(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&Code{}).
		Where("code = ? AND (max_uses IS NULL OR used_count < max_uses)", Normalize(code)).
		Update("used_count", gorm.Expr("used_count + 1"))
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to redeem discount code: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidCode
	}
	return nil
}
