// Package database provides the shared GORM connection as a mono plugin module.
package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/WaqasAhmed27/namak-halal/domain/cart"
	"github.com/WaqasAhmed27/namak-halal/domain/discount"
	"github.com/WaqasAhmed27/namak-halal/domain/order"
	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/WaqasAhmed27/namak-halal/domain/wishlist"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the database plugin settings.
type Config struct {
	Path  string
	Debug bool
}

// DefaultConfig returns the configuration used when no environment overrides are set.
func DefaultConfig() Config {
	return Config{Path: "storefront.db"}
}

// PluginModule owns the single *gorm.DB shared by every domain module.
// Plugins start before regular modules and stop after them.
type PluginModule struct {
	container types.ServiceContainer
	db        *gorm.DB
	cfg       Config
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a new database plugin module.
func NewPluginModule(cfg Config) *PluginModule {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	return &PluginModule{cfg: cfg}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "database"
}

// Start opens the database, runs migrations and seeds the launch promotion.
func (m *PluginModule) Start(ctx context.Context) error {
	log.Printf("[database] Connecting to SQLite database: %s", m.cfg.Path)

	db, err := Open(m.cfg)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	if err := discount.NewRepository(db).EnsureSeed(ctx); err != nil {
		return err
	}

	m.db = db
	log.Println("[database] Plugin started")
	return nil
}

// Stop closes the database connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	log.Println("[database] Closing database connection...")
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[database] Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// DB returns the shared connection. It is nil until Start has run.
func (m *PluginModule) DB() *gorm.DB {
	return m.db
}

// Health pings the database.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.cfg.Path,
		},
	}
}

// Open connects to the SQLite database at cfg.Path. Unique constraint
// violations surface as gorm.ErrDuplicatedKey.
func Open(cfg Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg.Path)), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// An in-memory database exists per connection, so keep exactly one.
	if cfg.Path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// dsn adds the connection parameters for a file database. Transactions take
// the write lock when they begin and wait for it, so a read-then-write
// transaction never fails halfway on a lock upgrade.
func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL"
}

// Migrate creates or updates every table the storefront uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&product.Product{},
		&cart.Item{},
		&order.Order{},
		&order.OrderItem{},
		&discount.Code{},
		&wishlist.Item{},
		&user.Profile{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
