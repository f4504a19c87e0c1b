package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a product is not found.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateSlug is returned when another product already uses the slug.
	ErrDuplicateSlug = errors.New("product slug already exists")
	// ErrInvalidQuantity is returned for a non-positive stock decrement.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Repository provides access to product storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new product repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new product to the database.
func (r *Repository) Create(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by its ID, active or not.
func (r *Repository) FindByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

// FindActiveBySlug retrieves an active product by slug.
func (r *Repository) FindActiveBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}
	return &p, nil
}

// FindByIDs retrieves the products with the given IDs. Missing IDs are skipped.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	var products []Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// List returns active products matching the filter in the requested order.
func (r *Repository) List(ctx context.Context, f Filter) ([]Product, error) {
	q := r.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true)

	if f.Shape != "" {
		q = q.Where("shape = ?", f.Shape)
	}
	if f.Size != "" {
		q = q.Where("size = ?", f.Size)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("price ASC")
	case SortPriceDesc:
		q = q.Order("price DESC")
	case SortNewest:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("is_featured DESC").Order("created_at DESC")
	}

	var products []Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListAll returns every product including inactive ones, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Featured returns up to limit active featured products, newest first.
func (r *Repository) Featured(ctx context.Context, limit int) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// Related returns up to limit other active products, preferring the same shape when given.
func (r *Repository) Related(ctx context.Context, id, shape string, limit int) ([]Product, error) {
	q := r.db.WithContext(ctx).Where("is_active = ? AND id <> ?", true, id)
	if shape != "" {
		q = q.Where("shape = ?", shape)
	}

	var products []Product
	if err := q.Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list related products: %w", err)
	}
	return products, nil
}

// Save writes every column of an existing product.
func (r *Repository) Save(ctx context.Context, p *Product) error {
	result := r.db.WithContext(ctx).Model(p).Select("*").Omit("created_at").Updates(p)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of products, active or not.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// DecrementStock subtracts qty from the product's stock, clamping at zero.
// The read and the write happen in one UPDATE so concurrent orders cannot lose updates.
func (r *Repository) DecrementStock(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	result := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr(
			"CASE WHEN stock_quantity > ? THEN stock_quantity - ? ELSE 0 END", qty, qty,
		))
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
