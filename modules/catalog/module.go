package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/WaqasAhmed27/namak-halal/modules/cache"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module provides the catalog as a mono module.
type Module struct {
	dbPlugin    *database.PluginModule
	cachePlugin *cache.PluginModule
	service     *Service
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new catalog module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetPlugin receives plugin instances from the mono framework.
// This is called before Start() when the module implements UsePluginModule.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	switch alias {
	case "database":
		if p, ok := plugin.(*database.PluginModule); ok {
			m.dbPlugin = p
		}
	case "cache":
		if p, ok := plugin.(*cache.PluginModule); ok {
			m.cachePlugin = p
		}
	}
}

// Start builds the service on the shared database and the catalog cache namespace.
func (m *Module) Start(_ context.Context) error {
	if m.dbPlugin == nil || m.dbPlugin.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}

	var c cache.CacheService
	if m.cachePlugin != nil {
		c = m.cachePlugin.Port("catalog")
	}
	if c == nil {
		log.Println("[catalog] Warning: cache plugin not set, catalog reads are uncached")
	}

	m.service = NewService(product.NewRepository(m.dbPlugin.DB()), c)
	log.Println("[catalog] Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[catalog] Module stopped")
	return nil
}

// GetService returns the catalog service.
func (m *Module) GetService() *Service {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "decrement-stock", json.Unmarshal, json.Marshal, m.decrementStock,
	); err != nil {
		return fmt.Errorf("failed to register decrement-stock service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-products", json.Unmarshal, json.Marshal, m.getProducts,
	); err != nil {
		return fmt.Errorf("failed to register get-products service: %w", err)
	}

	log.Printf("[catalog] Registered services: decrement-stock, get-products")
	return nil
}

// decrementStock handles the decrement-stock service request.
func (m *Module) decrementStock(ctx context.Context, req DecrementStockRequest, _ *mono.Msg) (DecrementStockResponse, error) {
	if err := m.service.DecrementStock(ctx, req.ProductID, req.Quantity); err != nil {
		return DecrementStockResponse{}, err
	}
	return DecrementStockResponse{ProductID: req.ProductID, Quantity: req.Quantity}, nil
}

// getProducts handles the get-products service request.
func (m *Module) getProducts(ctx context.Context, req GetProductsRequest, _ *mono.Msg) (GetProductsResponse, error) {
	products, err := m.service.GetMany(ctx, req.IDs)
	if err != nil {
		return GetProductsResponse{}, err
	}
	return GetProductsResponse{Products: products}, nil
}
