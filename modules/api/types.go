package api

import (
	"github.com/WaqasAhmed27/namak-halal/domain/cart"
	"github.com/WaqasAhmed27/namak-halal/domain/product"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ProductListResponse is a catalog listing.
type ProductListResponse struct {
	Products []product.Product `json:"products"`
	Count    int               `json:"count"`
	Fallback bool              `json:"fallback"`
}

// ProductDetailResponse is a product page.
type ProductDetailResponse struct {
	Product  *product.Product  `json:"product"`
	Related  []product.Product `json:"related"`
	Fallback bool              `json:"fallback"`
}

// AddCartItemRequest adds a product to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// UpdateCartItemRequest sets an item's quantity. Zero removes it.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// SyncCartRequest carries the guest cart lines to merge at sign-in.
type SyncCartRequest struct {
	Items []cart.Line `json:"items"`
}

// UpdateStatusRequest changes an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// PlaceOrderResponse is the body of a created order.
type PlaceOrderResponse struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
}

// ToggleWishlistResponse reports whether the product is saved after a toggle.
type ToggleWishlistResponse struct {
	ProductID string `json:"product_id"`
	Saved     bool   `json:"saved"`
}
