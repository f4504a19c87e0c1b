package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/WaqasAhmed27/namak-halal/modules/admin"
	"github.com/WaqasAhmed27/namak-halal/modules/api"
	"github.com/WaqasAhmed27/namak-halal/modules/auth"
	"github.com/WaqasAhmed27/namak-halal/modules/cache"
	"github.com/WaqasAhmed27/namak-halal/modules/cart"
	"github.com/WaqasAhmed27/namak-halal/modules/catalog"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/WaqasAhmed27/namak-halal/modules/identity"
	"github.com/WaqasAhmed27/namak-halal/modules/notification"
	"github.com/WaqasAhmed27/namak-halal/modules/order"
	"github.com/WaqasAhmed27/namak-halal/modules/wishlist"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Namak Storefront ===")

	shutdownTimeout := getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	port := getEnvInt("PORT", 3000)
	guestTTL := getEnvDuration("GUEST_CART_TTL", cart.DefaultGuestTTL)

	jwtConfig := auth.DefaultJWTConfig()
	jwtConfig.SecretKey = getEnv("JWT_SECRET_KEY", jwtConfig.SecretKey)
	jwtConfig.Issuer = getEnv("JWT_ISSUER", "")

	checkoutLimit := api.DefaultCheckoutLimit()
	checkoutLimit.Requests = getEnvInt("RATE_LIMIT_CHECKOUT", checkoutLimit.Requests)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Plugins start before every module and receive no dependencies.
	if err := app.RegisterPlugin(database.NewPluginModule(database.Config{
		Path:  getEnv("DB_PATH", database.DefaultConfig().Path),
		Debug: getEnvBool("DB_DEBUG", false),
	}), "database"); err != nil {
		log.Fatalf("Failed to register database plugin: %v", err)
	}
	if err := app.RegisterPlugin(cache.NewPluginModule(cache.Config{
		Addr: getEnv("REDIS_ADDR", cache.DefaultConfig().Addr),
		TTL:  getEnvDuration("CACHE_TTL", cache.DefaultConfig().TTL),
	}), "cache"); err != nil {
		log.Fatalf("Failed to register cache plugin: %v", err)
	}

	authModule := auth.NewModule(jwtConfig)
	catalogModule := catalog.NewModule()
	cartModule := cart.NewModule(guestTTL)
	orderModule := order.NewModule()
	wishlistModule := wishlist.NewModule()
	identityModule := identity.NewModule(os.Getenv("IDENTITY_WEBHOOK_SECRET"))
	adminModule := admin.NewModule()
	notificationModule := notification.NewModule(notification.Config{
		URL:     os.Getenv("ORDER_NOTIFY_URL"),
		Token:   os.Getenv("ORDER_NOTIFY_TOKEN"),
		Timeout: getEnvDuration("ORDER_NOTIFY_TIMEOUT", notification.DefaultTimeout),
	})
	apiModule := api.NewModule(api.Config{
		Port:          port,
		GuestTTL:      guestTTL,
		CheckoutLimit: checkoutLimit,
		WebhookLimit:  api.DefaultWebhookLimit(),
	})

	// admin and api read the other modules' services in Start, so they are
	// wired directly and registered last.
	adminModule.SetCatalogModule(catalogModule)
	adminModule.SetOrderModule(orderModule)
	adminModule.SetIdentityModule(identityModule)

	apiModule.SetCatalogModule(catalogModule)
	apiModule.SetCartModule(cartModule)
	apiModule.SetOrderModule(orderModule)
	apiModule.SetWishlistModule(wishlistModule)
	apiModule.SetIdentityModule(identityModule)
	apiModule.SetAdminModule(adminModule)

	app.Register(authModule)
	app.Register(catalogModule)
	app.Register(cartModule)
	app.Register(orderModule)
	app.Register(wishlistModule)
	app.Register(identityModule)
	app.Register(notificationModule)
	app.Register(adminModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(port)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Storefront:")
	log.Println("  GET    /api/v1/products                 - Catalog listing (shape, size, min_price, max_price, search, sort)")
	log.Println("  GET    /api/v1/products/featured        - Featured products")
	log.Println("  GET    /api/v1/products/:slug           - Product page with related products")
	log.Println("  GET    /api/v1/cart                     - Current cart (guest via X-Cart-Session)")
	log.Println("  POST   /api/v1/cart/items               - Add to cart")
	log.Println("  PATCH  /api/v1/cart/items/:id           - Change quantity (0 removes)")
	log.Println("  DELETE /api/v1/cart/items/:id           - Remove from cart")
	log.Println("  DELETE /api/v1/cart                     - Empty the cart")
	log.Println("  POST   /api/v1/cart/sync                - Merge guest cart after sign-in")
	log.Println("  POST   /api/v1/checkout/quote           - Price a checkout")
	log.Println("  POST   /api/v1/orders                   - Place an order (cash on delivery)")
	log.Println("")
	log.Println("  Account (require Bearer token):")
	log.Println("  GET    /api/v1/account/orders[/:id]     - Order history")
	log.Println("  GET    /api/v1/account/wishlist         - Saved products")
	log.Println("  POST   /api/v1/account/wishlist/:id     - Save / DELETE to remove / POST .../toggle")
	log.Println("")
	log.Println("  Back-office (require admin role):")
	log.Println("  GET    /api/v1/admin/stats              - Dashboard")
	log.Println("  *      /api/v1/admin/products[/:id]     - Product management")
	log.Println("  GET    /api/v1/admin/orders             - All orders")
	log.Println("  PATCH  /api/v1/admin/orders/:id/status  - Change order status")
	log.Println("  GET    /api/v1/admin/customers          - Customers with order totals")
	log.Println("")
	log.Println("  POST   /api/webhooks/identity           - Identity provider webhook (signed)")
	log.Println("  GET    /health                          - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as time.Duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
