package product

import "testing"

func TestApplyFilter(t *testing.T) {
	lo, hi := 4000.0, 6000.0

	tests := []struct {
		name      string
		filter    Filter
		wantSlugs []string
	}{
		{
			name:      "shape",
			filter:    Filter{Shape: "Natural", Sort: SortPriceAsc},
			wantSlugs: []string{"usb-mini-salt-lamp", "natural-himalayan-salt-lamp-medium", "extra-large-natural-salt-lamp"},
		},
		{
			name:      "price range descending",
			filter:    Filter{MinPrice: &lo, MaxPrice: &hi, Sort: SortPriceDesc},
			wantSlugs: []string{"pyramid-salt-lamp", "cylinder-salt-lamp", "natural-himalayan-salt-lamp-medium", "heart-shape-salt-lamp"},
		},
		{
			name:      "search is case-insensitive",
			filter:    Filter{Search: "SPHERE"},
			wantSlugs: []string{"sphere-salt-lamp"},
		},
		{
			name:      "size",
			filter:    Filter{Size: "Mini"},
			wantSlugs: []string{"usb-mini-salt-lamp"},
		},
		{
			name:      "no match",
			filter:    Filter{Shape: "Star"},
			wantSlugs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(Fallback(), tt.filter)
			if len(got) != len(tt.wantSlugs) {
				t.Fatalf("ApplyFilter() returned %d products, want %d", len(got), len(tt.wantSlugs))
			}
			for i, slug := range tt.wantSlugs {
				if got[i].Slug != slug {
					t.Errorf("product[%d] = %q, want %q", i, got[i].Slug, slug)
				}
			}
		})
	}
}

func TestApplyFilter_DefaultSortPutsFeaturedFirst(t *testing.T) {
	got := ApplyFilter(Fallback(), Filter{})
	seenRegular := false
	for _, p := range got {
		if !p.IsFeatured {
			seenRegular = true
		} else if seenRegular {
			t.Fatalf("featured product %q listed after a regular one", p.Slug)
		}
	}
	if got[0].Slug != "extra-large-natural-salt-lamp" {
		t.Errorf("first product = %q, want the newest featured one", got[0].Slug)
	}
}

func TestApplyFilter_SkipsInactive(t *testing.T) {
	products := Fallback()
	products[0].IsActive = false
	for _, p := range ApplyFilter(products, Filter{}) {
		if p.ID == products[0].ID {
			t.Errorf("inactive product %q was listed", p.Slug)
		}
	}
}

func TestFallbackBySlug(t *testing.T) {
	if p, ok := FallbackBySlug("pyramid-salt-lamp"); !ok || p.Price != 5500 {
		t.Errorf("FallbackBySlug() = %v, %v", p, ok)
	}
	if _, ok := FallbackBySlug("missing"); ok {
		t.Error("FallbackBySlug(missing) should not be found")
	}
}
