// Package discount provides promotion codes and their server-side validation.
package discount

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type is how a code's value is applied.
type Type string

// Discount types.
const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

var (
	// ErrInvalidCode is returned for unknown, inactive, expired or exhausted codes.
	ErrInvalidCode = errors.New("invalid promo code")
	// ErrBelowMinimum is returned when the subtotal does not reach the code's minimum order amount.
	ErrBelowMinimum = errors.New("order subtotal is below the promo code minimum")
)

// Code is a promotion that can be applied once per order.
type Code struct {
	ID             string     `gorm:"primaryKey;type:text" json:"id"`
	Code           string     `gorm:"type:text;uniqueIndex;not null" json:"code"`
	Description    *string    `gorm:"type:text" json:"description"`
	DiscountType   Type       `gorm:"type:text;not null" json:"discount_type"`
	DiscountValue  float64    `gorm:"not null" json:"discount_value"`
	MinOrderAmount *float64   `json:"min_order_amount"`
	MaxUses        *int       `json:"max_uses"`
	UsedCount      int        `gorm:"not null;default:0" json:"used_count"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	ValidFrom      time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName returns the table name for the Code entity.
func (Code) TableName() string {
	return "discount_codes"
}

// BeforeCreate assigns a UUID and stores the code upper-cased.
func (c *Code) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Code = Normalize(c.Code)
	return nil
}

// Normalize trims and upper-cases a shopper-entered code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Amount validates the code at time now for the subtotal and returns the discount.
// The discount never exceeds the subtotal.
func (c *Code) Amount(subtotal float64, now time.Time) (float64, error) {
	if !c.IsActive {
		return 0, ErrInvalidCode
	}
	if now.Before(c.ValidFrom) {
		return 0, ErrInvalidCode
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return 0, ErrInvalidCode
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return 0, ErrInvalidCode
	}
	if c.MinOrderAmount != nil && subtotal < *c.MinOrderAmount {
		return 0, ErrBelowMinimum
	}

	var amount float64
	switch c.DiscountType {
	case TypePercentage:
		amount = subtotal * c.DiscountValue / 100
	case TypeFixed:
		amount = c.DiscountValue
	default:
		return 0, ErrInvalidCode
	}
	amount = math.Round(amount*100) / 100
	return math.Min(amount, subtotal), nil
}

// Seed is the store's launch promotion: NAMAK10, 10 % off with no limits.
func Seed() Code {
	desc := "10% off your order"
	return Code{
		Code:          "NAMAK10",
		Description:   &desc,
		DiscountType:  TypePercentage,
		DiscountValue: 10,
		IsActive:      true,
		ValidFrom:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}
