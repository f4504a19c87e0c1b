package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogPort is the catalog API other modules depend on.
type CatalogPort interface {
	DecrementStock(ctx context.Context, productID string, qty int) error
	GetProducts(ctx context.Context, ids []string) ([]product.Product, error)
}

// catalogAdapter wraps ServiceContainer for type-safe cross-module communication.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a new adapter for catalog services.
// container is the ServiceContainer from the catalog module received via SetDependencyServiceContainer.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// DecrementStock lowers stock via the decrement-stock service.
func (a *catalogAdapter) DecrementStock(ctx context.Context, productID string, qty int) error {
	req := DecrementStockRequest{ProductID: productID, Quantity: qty}
	var resp DecrementStockResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"decrement-stock",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("decrement-stock service call failed: %w", err)
	}
	return nil
}

// GetProducts loads products via the get-products service.
func (a *catalogAdapter) GetProducts(ctx context.Context, ids []string) ([]product.Product, error) {
	req := GetProductsRequest{IDs: ids}
	var resp GetProductsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-products",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-products service call failed: %w", err)
	}
	return resp.Products, nil
}
