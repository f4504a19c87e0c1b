// Package product provides the catalog entity, its repository and the static fallback catalog.
package product

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validation errors.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidPrice  = errors.New("price must not be negative")
	ErrInvalidStock  = errors.New("stock quantity must not be negative")
	ErrSlugRequired  = errors.New("slug is required")
	ErrNoUpdateField = errors.New("no fields to update")
)

// Product represents a lamp or accessory in the catalog.
type Product struct {
	ID                string    `gorm:"primaryKey;type:text" json:"id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Slug              string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description       *string   `gorm:"type:text" json:"description"`
	ShortDescription  *string   `gorm:"type:text" json:"short_description"`
	Price             float64   `gorm:"not null" json:"price"`
	CompareAtPrice    *float64  `json:"compare_at_price"`
	Category          string    `gorm:"size:100;default:'lamps'" json:"category"`
	Shape             *string   `gorm:"size:100;index" json:"shape"`
	Size              *string   `gorm:"size:100;index" json:"size"`
	WeightKg          *float64  `json:"weight_kg"`
	BulbType          *string   `gorm:"size:100" json:"bulb_type"`
	StockQuantity     int       `gorm:"not null;default:0" json:"stock_quantity"`
	IsFeatured        bool      `gorm:"not null;default:false" json:"is_featured"`
	IsActive          bool      `gorm:"not null" json:"is_active"`
	Images            []string  `gorm:"serializer:json" json:"images"`
	Image360URL       *string   `gorm:"column:image_360_url" json:"image_360_url"`
	UsageInstructions *string   `gorm:"type:text" json:"usage_instructions"`
	SafetyNotes       *string   `gorm:"type:text" json:"safety_notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the table name for the Product entity.
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Sort orders for catalog listings.
const (
	SortFeatured  = "featured"
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Shape    string   `json:"shape,omitempty"`
	Size     string   `json:"size,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Search   string   `json:"search,omitempty"`
	Sort     string   `json:"sort,omitempty"`
}

// CacheKey returns a stable key for caching the listing produced by this filter.
func (f Filter) CacheKey() string {
	var b strings.Builder
	b.WriteString("list:")
	b.WriteString(f.Shape)
	b.WriteString("|")
	b.WriteString(f.Size)
	b.WriteString("|")
	if f.MinPrice != nil {
		b.WriteString(formatFloat(*f.MinPrice))
	}
	b.WriteString("|")
	if f.MaxPrice != nil {
		b.WriteString(formatFloat(*f.MaxPrice))
	}
	b.WriteString("|")
	b.WriteString(strings.ToLower(f.Search))
	b.WriteString("|")
	b.WriteString(f.Sort)
	return b.String()
}

// CreateProductRequest represents the admin request to create a product.
type CreateProductRequest struct {
	Name              string   `json:"name"`
	Slug              string   `json:"slug"`
	Description       *string  `json:"description"`
	ShortDescription  *string  `json:"short_description"`
	Price             float64  `json:"price"`
	CompareAtPrice    *float64 `json:"compare_at_price"`
	Category          string   `json:"category"`
	Shape             *string  `json:"shape"`
	Size              *string  `json:"size"`
	WeightKg          *float64 `json:"weight_kg"`
	BulbType          *string  `json:"bulb_type"`
	StockQuantity     *int     `json:"stock_quantity"`
	IsFeatured        bool     `json:"is_featured"`
	IsActive          *bool    `json:"is_active"`
	Images            []string `json:"images"`
	Image360URL       *string  `json:"image_360_url"`
	UsageInstructions *string  `json:"usage_instructions"`
	SafetyNotes       *string  `json:"safety_notes"`
}

// ToProduct validates the request and builds a normalised Product.
// Zero compare-at price and weight become NULL, a missing stock becomes 0
// and an empty slug is derived from the name.
func (r *CreateProductRequest) ToProduct() (*Product, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if r.Price < 0 {
		return nil, ErrInvalidPrice
	}
	stock := 0
	if r.StockQuantity != nil {
		stock = *r.StockQuantity
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, ErrSlugRequired
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	category := r.Category
	if category == "" {
		category = "lamps"
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}

	return &Product{
		Name:              name,
		Slug:              slug,
		Description:       r.Description,
		ShortDescription:  r.ShortDescription,
		Price:             r.Price,
		CompareAtPrice:    nullIfZero(r.CompareAtPrice),
		Category:          category,
		Shape:             r.Shape,
		Size:              r.Size,
		WeightKg:          nullIfZero(r.WeightKg),
		BulbType:          r.BulbType,
		StockQuantity:     stock,
		IsFeatured:        r.IsFeatured,
		IsActive:          active,
		Images:            images,
		Image360URL:       r.Image360URL,
		UsageInstructions: r.UsageInstructions,
		SafetyNotes:       r.SafetyNotes,
	}, nil
}

// UpdateProductRequest represents a partial admin update. Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name              *string   `json:"name,omitempty"`
	Slug              *string   `json:"slug,omitempty"`
	Description       *string   `json:"description,omitempty"`
	ShortDescription  *string   `json:"short_description,omitempty"`
	Price             *float64  `json:"price,omitempty"`
	CompareAtPrice    *float64  `json:"compare_at_price,omitempty"`
	Category          *string   `json:"category,omitempty"`
	Shape             *string   `json:"shape,omitempty"`
	Size              *string   `json:"size,omitempty"`
	WeightKg          *float64  `json:"weight_kg,omitempty"`
	BulbType          *string   `json:"bulb_type,omitempty"`
	StockQuantity     *int      `json:"stock_quantity,omitempty"`
	IsFeatured        *bool     `json:"is_featured,omitempty"`
	IsActive          *bool     `json:"is_active,omitempty"`
	Images            *[]string `json:"images,omitempty"`
	Image360URL       *string   `json:"image_360_url,omitempty"`
	UsageInstructions *string   `json:"usage_instructions,omitempty"`
	SafetyNotes       *string   `json:"safety_notes,omitempty"`
}

// Apply validates the request and copies the non-nil fields onto p.
func (r *UpdateProductRequest) Apply(p *Product) error {
	changed := false

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return ErrNameRequired
		}
		p.Name, changed = name, true
	}
	if r.Slug != nil {
		slug := strings.TrimSpace(*r.Slug)
		if slug == "" {
			return ErrSlugRequired
		}
		p.Slug, changed = slug, true
	}
	if r.Price != nil {
		if *r.Price < 0 {
			return ErrInvalidPrice
		}
		p.Price, changed = *r.Price, true
	}
	if r.StockQuantity != nil {
		if *r.StockQuantity < 0 {
			return ErrInvalidStock
		}
		p.StockQuantity, changed = *r.StockQuantity, true
	}
	if r.CompareAtPrice != nil {
		p.CompareAtPrice, changed = nullIfZero(r.CompareAtPrice), true
	}
	if r.WeightKg != nil {
		p.WeightKg, changed = nullIfZero(r.WeightKg), true
	}
	if r.Description != nil {
		p.Description, changed = r.Description, true
	}
	if r.ShortDescription != nil {
		p.ShortDescription, changed = r.ShortDescription, true
	}
	if r.Category != nil {
		p.Category, changed = *r.Category, true
	}
	if r.Shape != nil {
		p.Shape, changed = r.Shape, true
	}
	if r.Size != nil {
		p.Size, changed = r.Size, true
	}
	if r.BulbType != nil {
		p.BulbType, changed = r.BulbType, true
	}
	if r.IsFeatured != nil {
		p.IsFeatured, changed = *r.IsFeatured, true
	}
	if r.IsActive != nil {
		p.IsActive, changed = *r.IsActive, true
	}
	if r.Images != nil {
		p.Images, changed = *r.Images, true
	}
	if r.Image360URL != nil {
		p.Image360URL, changed = r.Image360URL, true
	}
	if r.UsageInstructions != nil {
		p.UsageInstructions, changed = r.UsageInstructions, true
	}
	if r.SafetyNotes != nil {
		p.SafetyNotes, changed = r.SafetyNotes, true
	}

	if !changed {
		return ErrNoUpdateField
	}
	return nil
}

// Slugify turns a product name into a lowercase, hyphen separated slug.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func nullIfZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
