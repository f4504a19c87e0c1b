package order

import "math"

// ShippingMethod selects the delivery option at checkout.
type ShippingMethod string

// Shipping methods and their business constants, in PKR.
const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"

	FreeShippingThreshold = 5000.0
	StandardShippingFee   = 300.0
	ExpressShippingFee    = 500.0
)

// ParseShippingMethod returns the ShippingMethod for s or ErrInvalidShippingMethod.
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch ShippingMethod(s) {
	case ShippingStandard, ShippingExpress:
		return ShippingMethod(s), nil
	}
	return "", ErrInvalidShippingMethod
}

// ShippingCost returns the fee for the method: standard is free at or above the
// threshold, express is flat regardless of subtotal.
func ShippingCost(method ShippingMethod, subtotal float64) float64 {
	if method == ShippingExpress {
		return ExpressShippingFee
	}
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return StandardShippingFee
}

// Subtotal sums price × quantity over the lines.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.ProductPrice * float64(it.Quantity)
	}
	return sum
}

// Total is the only formula for an order total.
func Total(subtotal, shippingCost, discountAmount float64) float64 {
	return subtotal + shippingCost - discountAmount
}

// Quote is the priced breakdown of a checkout.
type Quote struct {
	Subtotal       float64 `json:"subtotal"`
	ShippingCost   float64 `json:"shipping_cost"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
	PromoCode      string  `json:"promo_code,omitempty"`
}

// NewQuote prices the lines for the shipping method with an already validated discount.
func NewQuote(items []LineItem, method ShippingMethod, discount float64, promoCode string) Quote {
	subtotal := Subtotal(items)
	shipping := ShippingCost(method, subtotal)
	discount = roundAmount(math.Min(math.Max(discount, 0), subtotal))
	return Quote{
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		DiscountAmount: discount,
		Total:          Total(subtotal, shipping, discount),
		PromoCode:      promoCode,
	}
}

// roundAmount keeps two decimal places so stored totals do not carry float noise.
func roundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
