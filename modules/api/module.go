// Package api serves the storefront and back-office over HTTP with Fiber.
package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/WaqasAhmed27/namak-halal/modules/admin"
	"github.com/WaqasAhmed27/namak-halal/modules/auth"
	"github.com/WaqasAhmed27/namak-halal/modules/cache"
	"github.com/WaqasAhmed27/namak-halal/modules/cart"
	"github.com/WaqasAhmed27/namak-halal/modules/catalog"
	"github.com/WaqasAhmed27/namak-halal/modules/identity"
	"github.com/WaqasAhmed27/namak-halal/modules/order"
	"github.com/WaqasAhmed27/namak-halal/modules/wishlist"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config holds the HTTP server settings.
type Config struct {
	Port          int
	GuestTTL      time.Duration
	CheckoutLimit RateLimitConfig
	WebhookLimit  RateLimitConfig
}

// DefaultConfig returns the configuration used when no environment overrides are set.
func DefaultConfig() Config {
	return Config{
		Port:          3000,
		GuestTTL:      cart.DefaultGuestTTL,
		CheckoutLimit: DefaultCheckoutLimit(),
		WebhookLimit:  DefaultWebhookLimit(),
	}
}

// Module is the HTTP API module.
type Module struct {
	cfg         Config
	app         *fiber.App
	authAdapter auth.AuthPort
	cachePlugin *cache.PluginModule

	catalogModule  *catalog.Module
	cartModule     *cart.Module
	orderModule    *order.Module
	wishlistModule *wishlist.Module
	identityModule *identity.Module
	adminModule    *admin.Module
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new api module.
func NewModule(cfg Config) *Module {
	def := DefaultConfig()
	if cfg.Port <= 0 {
		cfg.Port = def.Port
	}
	if cfg.GuestTTL <= 0 {
		cfg.GuestTTL = def.GuestTTL
	}
	if cfg.CheckoutLimit.Requests <= 0 {
		cfg.CheckoutLimit = def.CheckoutLimit
	}
	if cfg.WebhookLimit.Requests <= 0 {
		cfg.WebhookLimit = def.WebhookLimit
	}
	return &Module{cfg: cfg}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authAdapter = auth.NewAuthAdapter(container)
	}
}

// SetPlugin receives the cache plugin whose Redis client backs the rate limiter.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "cache" {
		if p, ok := plugin.(*cache.PluginModule); ok {
			m.cachePlugin = p
		}
	}
}

// SetCatalogModule sets the catalog module dependency.
func (m *Module) SetCatalogModule(cm *catalog.Module) { m.catalogModule = cm }

// SetCartModule sets the cart module dependency.
func (m *Module) SetCartModule(cm *cart.Module) { m.cartModule = cm }

// SetOrderModule sets the order module dependency.
func (m *Module) SetOrderModule(om *order.Module) { m.orderModule = om }

// SetWishlistModule sets the wishlist module dependency.
func (m *Module) SetWishlistModule(wm *wishlist.Module) { m.wishlistModule = wm }

// SetIdentityModule sets the identity module dependency.
func (m *Module) SetIdentityModule(im *identity.Module) { m.identityModule = im }

// SetAdminModule sets the admin module dependency.
func (m *Module) SetAdminModule(am *admin.Module) { m.adminModule = am }

// backends collects the started modules' services. Every module is
// registered before api, so their services exist by the time Start runs.
func (m *Module) backends() (Backends, error) {
	switch {
	case m.catalogModule == nil || m.catalogModule.GetService() == nil:
		return Backends{}, fmt.Errorf("catalog module not set")
	case m.cartModule == nil:
		return Backends{}, fmt.Errorf("cart module not set")
	case m.orderModule == nil || m.orderModule.Writer() == nil:
		return Backends{}, fmt.Errorf("order module not set")
	case m.wishlistModule == nil || m.wishlistModule.GetService() == nil:
		return Backends{}, fmt.Errorf("wishlist module not set")
	case m.identityModule == nil:
		return Backends{}, fmt.Errorf("identity module not set")
	case m.adminModule == nil || m.adminModule.GetService() == nil:
		return Backends{}, fmt.Errorf("admin module not set")
	}
	return Backends{
		Catalog:  m.catalogModule.GetService(),
		Carts:    m.cartModule,
		Checkout: m.orderModule.Writer(),
		Orders:   m.orderModule.GetService(),
		Wishlist: m.wishlistModule.GetService(),
		Admin:    m.adminModule.GetService(),
		Webhooks: m.identityModule,
	}, nil
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.authAdapter == nil {
		return fmt.Errorf("auth dependency not set")
	}
	b, err := m.backends()
	if err != nil {
		return err
	}

	var checkoutLimit, webhookLimit fiber.Handler
	if m.cachePlugin != nil && m.cachePlugin.Client() != nil {
		checkoutLimit = NewSlidingWindowLimiter(m.cachePlugin.Client(), m.cfg.CheckoutLimit).Handler()
		webhookLimit = NewSlidingWindowLimiter(m.cachePlugin.Client(), m.cfg.WebhookLimit).Handler()
	} else {
		log.Println("[api] Warning: cache plugin not set, rate limiting is disabled")
	}

	m.app = newApp(NewHandlers(b), m.authAdapter, m.cfg.GuestTTL, checkoutLimit, webhookLimit)

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// newApp builds the Fiber app with its middleware and routes. Nil rate
// limit handlers leave the matching routes unlimited.
func newApp(h *Handlers, authAdapter auth.AuthPort, guestTTL time.Duration, checkoutLimit, webhookLimit fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		ExposeHeaders: SessionHeader,
	}))

	app.Use(IdentityMiddleware(authAdapter))
	app.Use(GateMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	webhooks := app.Group("/api/webhooks")
	if webhookLimit != nil {
		webhooks.Use(webhookLimit)
	}
	webhooks.Post("/identity", h.IdentityWebhook)

	v1 := app.Group("/api/v1")

	products := v1.Group("/products")
	products.Get("/", h.ListProducts)
	products.Get("/featured", h.FeaturedProducts)
	products.Get("/:slug", h.GetProduct)

	carts := v1.Group("/cart", GuestSessionMiddleware(guestTTL))
	carts.Get("/", h.GetCart)
	carts.Delete("/", h.ClearCart)
	carts.Post("/items", h.AddCartItem)
	carts.Patch("/items/:id", h.UpdateCartItem)
	carts.Delete("/items/:id", h.RemoveCartItem)
	carts.Post("/sync", h.SyncCart)

	v1.Post("/checkout/quote", h.Quote)
	if checkoutLimit != nil {
		v1.Post("/orders", checkoutLimit, h.PlaceOrder)
	} else {
		v1.Post("/orders", h.PlaceOrder)
	}

	account := v1.Group("/account")
	account.Get("/orders", h.AccountOrders)
	account.Get("/orders/:id", h.AccountOrder)
	account.Get("/wishlist", h.ListWishlist)
	account.Post("/wishlist/:productId", h.AddToWishlist)
	account.Delete("/wishlist/:productId", h.RemoveFromWishlist)
	account.Post("/wishlist/:productId/toggle", h.ToggleWishlist)

	adminRoutes := v1.Group("/admin")
	adminRoutes.Get("/stats", h.AdminStats)
	adminRoutes.Get("/products", h.AdminListProducts)
	adminRoutes.Post("/products", h.AdminCreateProduct)
	adminRoutes.Get("/products/:id", h.AdminGetProduct)
	adminRoutes.Put("/products/:id", h.AdminUpdateProduct)
	adminRoutes.Delete("/products/:id", h.AdminDeleteProduct)
	adminRoutes.Get("/orders", h.AdminListOrders)
	adminRoutes.Patch("/orders/:id/status", h.AdminUpdateOrderStatus)
	adminRoutes.Get("/customers", h.AdminListCustomers)

	return app
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
