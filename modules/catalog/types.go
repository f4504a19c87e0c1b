package catalog

import "github.com/WaqasAhmed27/namak-halal/domain/product"

// DecrementStockRequest asks the catalog to lower a product's stock.
type DecrementStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// DecrementStockResponse reports a completed stock decrement.
type DecrementStockResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GetProductsRequest asks for products by ID.
type GetProductsRequest struct {
	IDs []string `json:"ids"`
}

// GetProductsResponse carries the products that exist among the requested IDs.
type GetProductsResponse struct {
	Products []product.Product `json:"products"`
}
