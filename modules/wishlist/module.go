package wishlist

import (
	"context"
	"fmt"
	"log"

	domain "github.com/WaqasAhmed27/namak-halal/domain/wishlist"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module provides the wishlist as a mono module.
type Module struct {
	dbPlugin *database.PluginModule
	repo     *domain.Repository
	service  *Service
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.UsePluginModule     = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates a new wishlist module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "wishlist"
}

// SetPlugin receives plugin instances from the mono framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "database" {
		if p, ok := plugin.(*database.PluginModule); ok {
			m.dbPlugin = p
		}
	}
}

// Start builds the service.
func (m *Module) Start(_ context.Context) error {
	if m.dbPlugin == nil || m.dbPlugin.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	m.repo = domain.NewRepository(m.dbPlugin.DB())
	m.service = NewService(m.repo)
	log.Println("[wishlist] Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[wishlist] Module stopped")
	return nil
}

// GetService returns the wishlist service.
func (m *Module) GetService() *Service {
	return m.service
}

// RegisterEventConsumers subscribes to profile deletions.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.ProfileDeletedV1, m.handleProfileDeleted, m); err != nil {
		return fmt.Errorf("failed to register ProfileDeleted consumer: %w", err)
	}

	log.Printf("[wishlist] Registered event consumers: ProfileDeleted")
	return nil
}

func (m *Module) handleProfileDeleted(ctx context.Context, event events.ProfileDeletedEvent, _ *mono.Msg) error {
	if err := m.repo.Clear(ctx, event.UserID); err != nil {
		log.Printf("[wishlist] Warning: failed to clear wishlist of deleted user %s: %v", event.UserID, err)
		return err
	}
	log.Printf("[wishlist] Cleared wishlist of deleted user %s", event.UserID)
	return nil
}
