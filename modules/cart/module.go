package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	domain "github.com/WaqasAhmed27/namak-halal/domain/cart"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/modules/cache"
	"github.com/WaqasAhmed27/namak-halal/modules/catalog"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// DefaultGuestTTL is how long an untouched guest cart is kept.
const DefaultGuestTTL = 30 * 24 * time.Hour

// Module provides the cart as a mono module.
type Module struct {
	dbPlugin    *database.PluginModule
	cachePlugin *cache.PluginModule
	repo        *domain.Repository
	guestDocs   DocumentStore
	catalog     catalog.CatalogPort
	guestTTL    time.Duration
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
)

// NewModule creates a new cart module. guestTTL <= 0 uses DefaultGuestTTL.
func NewModule(guestTTL time.Duration) *Module {
	if guestTTL <= 0 {
		guestTTL = DefaultGuestTTL
	}
	return &Module{guestTTL: guestTTL}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cart"
}

// SetPlugin receives plugin instances from the mono framework.
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

// Dependencies returns the modules the cart calls.
func (m *Module) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer wires the catalog port used to hydrate items.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.catalog = catalog.NewCatalogAdapter(container)
	}
}

// Start builds the repositories.
func (m *Module) Start(_ context.Context) error {
	if m.dbPlugin == nil || m.dbPlugin.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	if m.catalog == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	m.repo = domain.NewRepository(m.dbPlugin.DB())

	if m.cachePlugin != nil {
		if port := m.cachePlugin.Port("cart"); port != nil {
			m.guestDocs = port
		}
	}
	if m.guestDocs == nil {
		log.Println("[cart] Warning: cache plugin not set, guest carts are disabled")
	}

	log.Printf("[cart] Module started (guest cart TTL: %s)", m.guestTTL)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[cart] Module stopped")
	return nil
}

// For returns a cart service for the owner, backed by the server-side cart
// for a signed-in user and by the guest store otherwise.
func (m *Module) For(owner Owner) (*Service, error) {
	store, err := m.storeFor(owner)
	if err != nil {
		return nil, err
	}
	return NewService(store, m.catalog), nil
}

func (m *Module) storeFor(owner Owner) (Store, error) {
	if owner.Authenticated() {
		return NewRemoteStore(m.repo, owner.UserID), nil
	}
	if owner.SessionID == "" {
		return nil, ErrNoOwner
	}
	if m.guestDocs == nil {
		return nil, ErrGuestCartUnavailable
	}
	return NewLocalStore(m.guestDocs, owner.SessionID, m.guestTTL), nil
}

// Reconcile merges guest lines into the signed-in owner's cart and clears
// the owner's guest session cart. Anonymous owners get Success false and
// nothing is written.
func (m *Module) Reconcile(ctx context.Context, owner Owner, lines []domain.Line) ReconcileResult {
	if !owner.Authenticated() {
		return ReconcileResult{Success: false}
	}

	var guest Store
	if owner.SessionID != "" && m.guestDocs != nil {
		guest = NewLocalStore(m.guestDocs, owner.SessionID, m.guestTTL)
	}
	res := Reconcile(ctx, NewRemoteStore(m.repo, owner.UserID), guest, lines)
	if res.Success {
		log.Printf("[cart] Merged guest cart for user %s: merged=%d failed=%d", owner.UserID, res.Merged, res.Failed)
	}
	return res
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "clear-cart", json.Unmarshal, json.Marshal, m.clearCart,
	); err != nil {
		return fmt.Errorf("failed to register clear-cart service: %w", err)
	}

	log.Printf("[cart] Registered services: clear-cart")
	return nil
}

// clearCart handles the clear-cart service request.
func (m *Module) clearCart(ctx context.Context, req ClearCartRequest, _ *mono.Msg) (ClearCartResponse, error) {
	if req.UserID == "" {
		return ClearCartResponse{}, ErrNoOwner
	}
	if err := m.repo.Clear(ctx, req.UserID); err != nil {
		return ClearCartResponse{}, err
	}
	return ClearCartResponse{Cleared: true}, nil
}

// RegisterEventConsumers subscribes to profile deletions.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.ProfileDeletedV1, m.handleProfileDeleted, m); err != nil {
		return fmt.Errorf("failed to register ProfileDeleted consumer: %w", err)
	}

	log.Printf("[cart] Registered event consumers: ProfileDeleted")
	return nil
}

// handleProfileDeleted removes the deleted user's server-side cart.
func (m *Module) handleProfileDeleted(ctx context.Context, event events.ProfileDeletedEvent, _ *mono.Msg) error {
	if err := m.repo.Clear(ctx, event.UserID); err != nil {
		log.Printf("[cart] Warning: failed to clear cart of deleted user %s: %v", event.UserID, err)
		return err
	}
	log.Printf("[cart] Cleared cart of deleted user %s", event.UserID)
	return nil
}
