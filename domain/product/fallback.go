package product

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// fallbackEpoch anchors the fallback catalog's timestamps so "newest" has a stable order.
var fallbackEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

type fallbackSeed struct {
	id, name, slug, short, shape, size, image string
	price, compareAt                          float64
	stock                                     int
	featured                                  bool
}

var fallbackSeeds = []fallbackSeed{
	{"1", "Natural Himalayan Salt Lamp - Medium", "natural-himalayan-salt-lamp-medium", "Hand-carved authentic Khewra salt lamp with warm amber glow", "Natural", "Medium", "/himalayan-salt-lamp-glowing-amber.jpg", 4500, 5500, 50, true},
	{"2", "Pyramid Salt Lamp", "pyramid-salt-lamp", "Sacred geometry meets natural healing in this pyramid-shaped lamp", "Pyramid", "Medium", "/pyramid-shaped-pink-salt-lamp.jpg", 5500, 6500, 30, true},
	{"3", "Sphere Salt Lamp", "sphere-salt-lamp", "Perfectly polished sphere with 360-degree warm glow", "Sphere", "Medium", "/sphere-round-pink-himalayan-salt-lamp.jpg", 6500, 7500, 25, true},
	{"4", "USB Mini Salt Lamp", "usb-mini-salt-lamp", "Compact USB-powered lamp perfect for desks and nightstands", "Natural", "Mini", "/usb-mini-himalayan-salt-lamp-desk.jpg", 1500, 2000, 100, false},
	{"5", "Heart Shape Salt Lamp", "heart-shape-salt-lamp", "Romantic heart-shaped lamp perfect for gifts", "Heart", "Small", "/heart-shaped-pink-salt-lamp-romantic.jpg", 4000, 4800, 40, true},
	{"6", "Bowl Salt Lamp with Chunks", "bowl-salt-lamp-chunks", "Wooden bowl with illuminated salt chunks for customizable display", "Bowl", "Medium", "/bowl-himalayan-salt-lamp-chunks-wooden.jpg", 3500, 4200, 35, false},
	{"7", "Extra Large Natural Salt Lamp", "extra-large-natural-salt-lamp", "Statement piece for large spaces with powerful ambient glow", "Natural", "Extra Large", "/extra-large-himalayan-salt-lamp.jpg", 12000, 14000, 15, true},
	{"8", "Cylinder Salt Lamp", "cylinder-salt-lamp", "Modern cylindrical design for contemporary spaces", "Cylinder", "Medium", "/cylinder-himalayan-salt-lamp-modern.jpg", 5000, 5800, 28, false},
}

// Fallback returns a fresh copy of the static catalog served while the store is unreachable.
func Fallback() []Product {
	products := make([]Product, 0, len(fallbackSeeds))
	for i, s := range fallbackSeeds {
		ts := fallbackEpoch.Add(time.Duration(i) * time.Hour)
		products = append(products, Product{
			ID:               s.id,
			Name:             s.name,
			Slug:             s.slug,
			ShortDescription: ptr(s.short),
			Price:            s.price,
			CompareAtPrice:   ptr(s.compareAt),
			Category:         "lamps",
			Shape:            ptr(s.shape),
			Size:             ptr(s.size),
			StockQuantity:    s.stock,
			IsFeatured:       s.featured,
			IsActive:         true,
			Images:           []string{s.image},
			CreatedAt:        ts,
			UpdatedAt:        ts,
		})
	}
	return products
}

// FallbackBySlug finds a product in the static catalog.
func FallbackBySlug(slug string) (*Product, bool) {
	for _, p := range Fallback() {
		if p.Slug == slug {
			return &p, true
		}
	}
	return nil, false
}

// ApplyFilter filters and sorts products in memory with the same rules as Repository.List.
func ApplyFilter(products []Product, f Filter) []Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if f.Shape != "" && deref(p.Shape) != f.Shape {
			continue
		}
		if f.Size != "" && deref(p.Size) != f.Size {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortNewest:
		slices.SortStableFunc(out, func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	default:
		slices.SortStableFunc(out, func(a, b Product) int {
			if a.IsFeatured != b.IsFeatured {
				if a.IsFeatured {
					return -1
				}
				return 1
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
