package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/WaqasAhmed27/namak-halal/modules/catalog"
	"github.com/WaqasAhmed27/namak-halal/modules/identity"
	"github.com/WaqasAhmed27/namak-halal/modules/order"
	"github.com/go-monolith/mono"
)

// Module provides the back-office as a mono module.
type Module struct {
	catalogModule  *catalog.Module
	orderModule    *order.Module
	identityModule *identity.Module
	service        *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)

// NewModule creates a new admin module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "admin"
}

// SetCatalogModule sets the catalog module dependency.
func (m *Module) SetCatalogModule(cm *catalog.Module) {
	m.catalogModule = cm
}

// SetOrderModule sets the order module dependency.
func (m *Module) SetOrderModule(om *order.Module) {
	m.orderModule = om
}

// SetIdentityModule sets the identity module dependency.
func (m *Module) SetIdentityModule(im *identity.Module) {
	m.identityModule = im
}

// Start builds the service from the modules it administers. They are
// registered before admin, so their services exist by now.
func (m *Module) Start(_ context.Context) error {
	if m.catalogModule == nil || m.catalogModule.GetService() == nil {
		return fmt.Errorf("catalog module not set")
	}
	if m.orderModule == nil || m.orderModule.GetService() == nil {
		return fmt.Errorf("order module not set")
	}
	if m.identityModule == nil || m.identityModule.GetService() == nil {
		return fmt.Errorf("identity module not set")
	}

	m.service = NewService(
		m.catalogModule.GetService(),
		m.orderModule.GetService(),
		m.identityModule.GetService(),
	)
	log.Println("[admin] Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[admin] Module stopped")
	return nil
}

// GetService returns the back-office service.
func (m *Module) GetService() *Service {
	return m.service
}
