package cache

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
	goredis "github.com/redis/go-redis/v9"
)

// Config holds the Redis connection and key layout settings.
type Config struct {
	Addr      string
	KeyPrefix string
	TTL       time.Duration
	PoolSize  int
}

// DefaultConfig returns the configuration used when no environment overrides are set.
func DefaultConfig() Config {
	return Config{
		Addr:      "localhost:6379",
		KeyPrefix: "namak:",
		TTL:       5 * time.Minute,
		PoolSize:  50,
	}
}

// PluginModule provides Redis-backed caching as a mono plugin module.
// The catalog caches listings through it and guest carts are stored in it.
type PluginModule struct {
	container types.ServiceContainer
	storage   *redis.Storage
	cfg       Config
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a new cache plugin module.
func NewPluginModule(cfg Config) *PluginModule {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = def.PoolSize
	}
	return &PluginModule{cfg: cfg}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start connects to Redis. Plugins start before regular modules.
func (m *PluginModule) Start(_ context.Context) error {
	host, port := parseRedisAddr(m.cfg.Addr)
	m.storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: m.cfg.PoolSize,
	})
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.cfg.Addr, m.cfg.KeyPrefix, m.cfg.TTL)
	log.Println("[cache] Plugin started")
	return nil
}

// Stop closes the Redis connection. Plugins stop after regular modules.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.storage != nil {
		if err := m.storage.Close(); err != nil {
			log.Printf("[cache] Error closing connection: %v", err)
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	log.Println("[cache] Plugin stopped")
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

// Port returns a CacheService whose keys live under "<KeyPrefix><namespace>:".
// It returns nil until Start has run.
func (m *PluginModule) Port(namespace string) CacheService {
	if m.storage == nil {
		return nil
	}
	return NewCacheService(m.storage, m.storage.Conn(), m.cfg.KeyPrefix+namespace+":", m.cfg.TTL)
}

// Client exposes the underlying go-redis client for modules that need raw
// commands, such as the rate limiter's Lua script.
func (m *PluginModule) Client() goredis.UniversalClient {
	if m.storage == nil {
		return nil
	}
	return m.storage.Conn()
}

// Health returns the current health status.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if _, err := m.storage.GetWithContext(ctx, "__health_check__"); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.cfg.Addr,
			"prefix":     m.cfg.KeyPrefix,
			"ttl":        m.cfg.TTL.String(),
		},
	}
}

// parseRedisAddr parses "host:port" into host and port.
// Returns defaults (127.0.0.1:6379) for invalid or missing values.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
