package order

import (
	"errors"
	"testing"
)

func TestShippingCost(t *testing.T) {
	tests := []struct {
		name     string
		method   ShippingMethod
		subtotal float64
		want     float64
	}{
		{"standard below threshold", ShippingStandard, 4500, 300},
		{"standard at threshold", ShippingStandard, 5000, 0},
		{"standard above threshold", ShippingStandard, 6000, 0},
		{"express below threshold", ShippingExpress, 1500, 500},
		{"express above threshold", ShippingExpress, 9000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShippingCost(tt.method, tt.subtotal); got != tt.want {
				t.Errorf("ShippingCost(%s, %v) = %v, want %v", tt.method, tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestParseShippingMethod(t *testing.T) {
	for _, s := range []string{"standard", "express"} {
		if m, err := ParseShippingMethod(s); err != nil || string(m) != s {
			t.Errorf("ParseShippingMethod(%q) = %q, %v", s, m, err)
		}
	}
	for _, s := range []string{"", "Standard", "overnight"} {
		if _, err := ParseShippingMethod(s); !errors.Is(err, ErrInvalidShippingMethod) {
			t.Errorf("ParseShippingMethod(%q) error = %v, want ErrInvalidShippingMethod", s, err)
		}
	}
}

func TestNewQuote(t *testing.T) {
	pyramid := LineItem{ProductID: "p1", ProductName: "Pyramid Lamp", ProductPrice: 4500, Quantity: 1}
	usb := LineItem{ProductID: "p2", ProductName: "USB Lamp", ProductPrice: 1500, Quantity: 2}

	tests := []struct {
		name     string
		items    []LineItem
		method   ShippingMethod
		discount float64
		want     Quote
	}{
		{
			name:     "promo on standard shipping",
			items:    []LineItem{pyramid},
			method:   ShippingStandard,
			discount: 450,
			want:     Quote{Subtotal: 4500, ShippingCost: 300, DiscountAmount: 450, Total: 4350},
		},
		{
			name:   "free standard shipping",
			items:  []LineItem{pyramid, usb},
			method: ShippingStandard,
			want:   Quote{Subtotal: 7500, ShippingCost: 0, Total: 7500},
		},
		{
			name:   "express",
			items:  []LineItem{usb},
			method: ShippingExpress,
			want:   Quote{Subtotal: 3000, ShippingCost: 500, Total: 3500},
		},
		{
			name:     "discount capped at subtotal",
			items:    []LineItem{usb},
			method:   ShippingExpress,
			discount: 5000,
			want:     Quote{Subtotal: 3000, ShippingCost: 500, DiscountAmount: 3000, Total: 500},
		},
		{
			name:     "negative discount ignored",
			items:    []LineItem{usb},
			method:   ShippingStandard,
			discount: -100,
			want:     Quote{Subtotal: 3000, ShippingCost: 300, Total: 3300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewQuote(tt.items, tt.method, tt.discount, "")
			if got != tt.want {
				t.Errorf("NewQuote() = %+v, want %+v", got, tt.want)
			}
			if got.Total != Total(got.Subtotal, got.ShippingCost, got.DiscountAmount) {
				t.Errorf("Total %v does not equal subtotal + shipping - discount", got.Total)
			}
		})
	}
}
