package product

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Pyramid Salt Lamp", "pyramid-salt-lamp"},
		{"  Bowl Lamp -- with Chunks! ", "bowl-lamp-with-chunks"},
		{"USB Mini (2 pack)", "usb-mini-2-pack"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCreateProductRequest_ToProduct(t *testing.T) {
	zero := 0.0
	weight := 1.5
	negative := -1

	t.Run("normalises optional fields", func(t *testing.T) {
		req := CreateProductRequest{Name: " Heart Lamp ", Price: 4000, CompareAtPrice: &zero, WeightKg: &weight}
		p, err := req.ToProduct()
		if err != nil {
			t.Fatalf("ToProduct() error = %v", err)
		}
		if p.Name != "Heart Lamp" || p.Slug != "heart-lamp" {
			t.Errorf("name/slug = %q/%q, want %q/%q", p.Name, p.Slug, "Heart Lamp", "heart-lamp")
		}
		if p.CompareAtPrice != nil {
			t.Errorf("CompareAtPrice = %v, want nil for zero", *p.CompareAtPrice)
		}
		if p.WeightKg == nil || *p.WeightKg != 1.5 {
			t.Errorf("WeightKg = %v, want 1.5", p.WeightKg)
		}
		if p.StockQuantity != 0 || !p.IsActive || p.Category != "lamps" || p.Images == nil {
			t.Errorf("defaults not applied: %+v", p)
		}
	})

	tests := []struct {
		name string
		req  CreateProductRequest
		want error
	}{
		{"blank name", CreateProductRequest{Name: "  ", Price: 10}, ErrNameRequired},
		{"negative price", CreateProductRequest{Name: "Lamp", Price: -1}, ErrInvalidPrice},
		{"negative stock", CreateProductRequest{Name: "Lamp", Price: 1, StockQuantity: &negative}, ErrInvalidStock},
		{"name without slug characters", CreateProductRequest{Name: "???", Price: 1}, ErrSlugRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.req.ToProduct(); !errors.Is(err, tt.want) {
				t.Errorf("ToProduct() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateProductRequest_Apply(t *testing.T) {
	price := 3500.0
	zero := 0.0
	blank := ""
	negative := -2
	inactive := false

	base := func() *Product {
		compare := 5000.0
		return &Product{Name: "Heart Lamp", Slug: "heart-lamp", Price: 4000, CompareAtPrice: &compare, IsActive: true}
	}

	p := base()
	if err := (&UpdateProductRequest{Price: &price, CompareAtPrice: &zero, IsActive: &inactive}).Apply(p); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if p.Price != 3500 || p.CompareAtPrice != nil || p.IsActive {
		t.Errorf("Apply() = %+v, want price 3500, no compare-at price, inactive", p)
	}
	if p.Name != "Heart Lamp" {
		t.Errorf("Name = %q, untouched fields must be kept", p.Name)
	}

	tests := []struct {
		name string
		req  UpdateProductRequest
		want error
	}{
		{"empty request", UpdateProductRequest{}, ErrNoUpdateField},
		{"blank name", UpdateProductRequest{Name: &blank}, ErrNameRequired},
		{"blank slug", UpdateProductRequest{Slug: &blank}, ErrSlugRequired},
		{"negative stock", UpdateProductRequest{StockQuantity: &negative}, ErrInvalidStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Apply(base()); !errors.Is(err, tt.want) {
				t.Errorf("Apply() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFilter_CacheKey(t *testing.T) {
	floor := 1000.0
	a := Filter{Shape: "Pyramid", MinPrice: &floor, Search: "Lamp", Sort: SortPriceAsc}
	b := Filter{Shape: "Pyramid", MinPrice: &floor, Search: "lamp", Sort: SortPriceAsc}
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("search case changed the key: %q vs %q", a.CacheKey(), b.CacheKey())
	}
	c := Filter{Shape: "Pyramid", MaxPrice: &floor, Search: "lamp", Sort: SortPriceAsc}
	if a.CacheKey() == c.CacheKey() {
		t.Errorf("min and max price share key %q", a.CacheKey())
	}
}
