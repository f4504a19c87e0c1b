// Package identity mirrors identity-provider users into local profiles from
// signed webhooks and serves the back-office customer list.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/go-monolith/mono"
)

// Module provides the identity webhook and profile mirror as a mono module.
type Module struct {
	dbPlugin *database.PluginModule
	eventBus mono.EventBus
	verifier *Verifier
	service  *Service
}

// Compile-time interface checks.
var (
	_ mono.Module             = (*Module)(nil)
	_ mono.UsePluginModule    = (*Module)(nil)
	_ mono.EventEmitterModule = (*Module)(nil)
)

// NewModule creates a new identity module. Without a usable webhook secret
// the module still starts and every delivery is refused with ErrMissingSecret.
func NewModule(webhookSecret string) *Module {
	m := &Module{}
	v, err := NewVerifier(webhookSecret)
	if err != nil {
		log.Printf("[identity] Warning: webhook verification disabled: %v", err)
		return m
	}
	m.verifier = v
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "identity"
}

// SetPlugin receives plugin instances from the mono framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "database" {
		if p, ok := plugin.(*database.PluginModule); ok {
			m.dbPlugin = p
		}
	}
}

// SetEventBus is called by the framework to inject the event bus.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ProfileDeletedV1.ToBase(),
	}
}

// Start builds the profile mirror.
func (m *Module) Start(_ context.Context) error {
	if m.dbPlugin == nil || m.dbPlugin.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}

	var publish DeletedPublisher
	if m.eventBus != nil {
		publish = func(evt events.ProfileDeletedEvent) error {
			return events.ProfileDeletedV1.Publish(m.eventBus, evt, nil)
		}
	} else {
		log.Println("[identity] Warning: eventBus not set, profile deletions will not be propagated")
	}

	m.service = NewService(user.NewRepository(m.dbPlugin.DB()), publish)
	log.Printf("[identity] Module started (webhook verification enabled: %v)", m.verifier != nil)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[identity] Module stopped")
	return nil
}

// GetService returns the profile service.
func (m *Module) GetService() *Service {
	return m.service
}

// HandleWebhook verifies a raw delivery and applies it.
func (m *Module) HandleWebhook(ctx context.Context, h Headers, body []byte) (WebhookResult, error) {
	if m.verifier == nil {
		return WebhookResult{}, ErrMissingSecret
	}
	if err := m.verifier.Verify(h, body); err != nil {
		log.Printf("[identity] Warning: webhook %s rejected: %v", h.ID, err)
		return WebhookResult{}, err
	}

	var evt WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return WebhookResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return m.service.Apply(ctx, evt)
}
