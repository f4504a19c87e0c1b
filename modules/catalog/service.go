// Package catalog provides the product catalog reader with caching and a
// static fallback, plus the admin product operations.
package catalog

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/WaqasAhmed27/namak-halal/modules/cache"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultFeaturedLimit is how many featured products the home page shows.
	DefaultFeaturedLimit = 8
	// DefaultRelatedLimit is how many related products a product page shows.
	DefaultRelatedLimit = 4
)

// Listing is a catalog read result. Fallback is true when the data store was
// unreachable and the static catalog was served instead.
type Listing struct {
	Products []product.Product `json:"products"`
	Fallback bool              `json:"fallback"`
}

// Service provides catalog reads with cache-aside caching and admin writes.
type Service struct {
	repo    *product.Repository
	cache   cache.CacheService
	sfGroup singleflight.Group // collapses concurrent misses per key
}

// NewService creates a new catalog service. c may be nil to disable caching.
func NewService(repo *product.Repository, c cache.CacheService) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// List returns the active products matching the filter. A store error never
// reaches the shopper: the static catalog is filtered the same way instead.
func (s *Service) List(ctx context.Context, f product.Filter) Listing {
	products, err := cached(ctx, s, f.CacheKey(), func(ctx context.Context) ([]product.Product, error) {
		return s.repo.List(ctx, f)
	})
	if err != nil {
		log.Printf("[catalog] Warning: store unavailable, serving fallback catalog: %v", err)
		return Listing{Products: product.ApplyFilter(product.Fallback(), f), Fallback: true}
	}
	return Listing{Products: products}
}

// Featured returns up to limit featured products, newest first.
func (s *Service) Featured(ctx context.Context, limit int) Listing {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	key := "featured:" + strconv.Itoa(limit)
	products, err := cached(ctx, s, key, func(ctx context.Context) ([]product.Product, error) {
		return s.repo.Featured(ctx, limit)
	})
	if err != nil {
		log.Printf("[catalog] Warning: store unavailable, serving fallback featured products: %v", err)
		var featured []product.Product
		for _, p := range product.ApplyFilter(product.Fallback(), product.Filter{Sort: product.SortNewest}) {
			if p.IsFeatured && len(featured) < limit {
				featured = append(featured, p)
			}
		}
		return Listing{Products: featured, Fallback: true}
	}
	return Listing{Products: products}
}

// GetBySlug returns an active product. When the store is unreachable the
// static catalog is searched and fallback is true.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*product.Product, bool, error) {
	p, err := cached(ctx, s, "slug:"+slug, func(ctx context.Context) (*product.Product, error) {
		return s.repo.FindActiveBySlug(ctx, slug)
	})
	if err == nil {
		return p, false, nil
	}
	if errors.Is(err, product.ErrNotFound) {
		return nil, false, err
	}

	log.Printf("[catalog] Warning: store unavailable, looking up %q in fallback catalog: %v", slug, err)
	if fp, ok := product.FallbackBySlug(slug); ok {
		return fp, true, nil
	}
	return nil, true, product.ErrNotFound
}

// Related returns other active products for a product page, preferring the same shape.
// Errors are logged and yield an empty list.
func (s *Service) Related(ctx context.Context, p *product.Product, limit int) []product.Product {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	shape := ""
	if p.Shape != nil {
		shape = *p.Shape
	}

	related, err := s.repo.Related(ctx, p.ID, shape, limit)
	if err != nil {
		log.Printf("[catalog] Warning: failed to load related products for %s: %v", p.ID, err)
		return []product.Product{}
	}
	return related
}

// GetMany returns the products with the given IDs, active or not.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]product.Product, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// ListAll returns every product for the back-office, bypassing the cache.
func (s *Service) ListAll(ctx context.Context) ([]product.Product, error) {
	return s.repo.ListAll(ctx)
}

// Get returns any product by ID for the back-office.
func (s *Service) Get(ctx context.Context, id string) (*product.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, req *product.CreateProductRequest) (*product.Product, error) {
	p, err := req.ToProduct()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Printf("[catalog] Created product %s (%s), cache invalidated", p.ID, p.Slug)
	return p, nil
}

// Update applies a partial update to a product.
func (s *Service) Update(ctx context.Context, id string, req *product.UpdateProductRequest) (*product.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Printf("[catalog] Updated product %s, cache invalidated", id)
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	log.Printf("[catalog] Deleted product %s, cache invalidated", id)
	return nil
}

// DecrementStock lowers a product's stock by qty, clamping at zero.
func (s *Service) DecrementStock(ctx context.Context, id string, qty int) error {
	if err := s.repo.DecrementStock(ctx, id, qty); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Count returns the number of products, active or not.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// invalidate drops every cached catalog read. Failures only leave entries
// to expire by TTL.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, ""); err != nil {
		log.Printf("[catalog] Warning: failed to invalidate cache: %v", err)
	}
}

// cached implements cache-aside for one key: a hit is returned directly, a
// miss is loaded once per key across concurrent callers and written back.
// Cache errors are logged and bypassed; load errors are returned uncached.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		var hit T
		found, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			log.Printf("[catalog] Cache error for %s: %v", key, err)
		}
		if found {
			return hit, nil
		}
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, v); err != nil {
				log.Printf("[catalog] Warning: failed to cache %s: %v", key, err)
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return val.(T), nil
}
