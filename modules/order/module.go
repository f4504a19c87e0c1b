package order

import (
	"context"
	"fmt"
	"log"

	"github.com/WaqasAhmed27/namak-halal/domain/discount"
	domain "github.com/WaqasAhmed27/namak-halal/domain/order"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/modules/cart"
	"github.com/WaqasAhmed27/namak-halal/modules/catalog"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/go-monolith/mono"
)

// Module provides ordering as a mono module.
type Module struct {
	dbPlugin *database.PluginModule
	catalog  catalog.CatalogPort
	cart     cart.CartPort
	eventBus mono.EventBus
	writer   *Writer
	service  *Service
}

// Compile-time interface checks.
var (
	_ mono.Module             = (*Module)(nil)
	_ mono.UsePluginModule    = (*Module)(nil)
	_ mono.DependentModule    = (*Module)(nil)
	_ mono.EventEmitterModule = (*Module)(nil)
)

// NewModule creates a new order module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "order"
}

// SetPlugin receives plugin instances from the mono framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "database" {
		if p, ok := plugin.(*database.PluginModule); ok {
			m.dbPlugin = p
		}
	}
}

// Dependencies returns the modules whose services the post-commit hooks call.
func (m *Module) Dependencies() []string {
	return []string{"catalog", "cart"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.catalog = catalog.NewCatalogAdapter(container)
	case "cart":
		m.cart = cart.NewCartAdapter(container)
	}
}

// SetEventBus is called by the framework to inject the event bus.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderPlacedV1.ToBase(),
		events.OrderStatusChangedV1.ToBase(),
	}
}

// Start builds the writer and service.
func (m *Module) Start(_ context.Context) error {
	if m.dbPlugin == nil || m.dbPlugin.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	if m.catalog == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	if m.cart == nil {
		return fmt.Errorf("cart dependency not set")
	}

	newNumber, err := domain.NewNumberGenerator()
	if err != nil {
		return err
	}

	var placed PlacedPublisher
	var changed StatusPublisher
	if m.eventBus != nil {
		placed = func(evt events.OrderPlacedEvent) error {
			return events.OrderPlacedV1.Publish(m.eventBus, evt, nil)
		}
		changed = func(evt events.OrderStatusChangedEvent) error {
			return events.OrderStatusChangedV1.Publish(m.eventBus, evt, nil)
		}
	} else {
		log.Println("[order] Warning: eventBus not set, events will not be published")
	}

	db := m.dbPlugin.DB()
	orders := domain.NewRepository(db)
	m.writer = NewWriter(orders, discount.NewRepository(db), m.catalog, m.cart, placed, newNumber)
	m.service = NewService(orders, changed)

	log.Println("[order] Module started (depends on: catalog, cart)")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[order] Module stopped")
	return nil
}

// Writer returns the order writer.
func (m *Module) Writer() *Writer {
	return m.writer
}

// GetService returns the order history and status service.
func (m *Module) GetService() *Service {
	return m.service
}
