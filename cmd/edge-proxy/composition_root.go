package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"go-edge-proxy/internal/accesslog"
	"go-edge-proxy/internal/cache/l1"
	"go-edge-proxy/internal/cache/l2"
	"go-edge-proxy/internal/cache/noop"
	"go-edge-proxy/internal/cache/service"
	"go-edge-proxy/internal/config"
	"go-edge-proxy/internal/httpserver"
	"go-edge-proxy/internal/interfaces"
	"go-edge-proxy/internal/proxy"
	"go-edge-proxy/internal/route_rules"
	"go-edge-proxy/internal/static"
)

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
// This pattern helps with:
// - Centralized dependency management
// - Easier testing (can inject mocks)
// - Clear separation of concerns
// - Proper resource cleanup
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger
	Routes interfaces.RouteClassifier

	// Cache components
	L1Cache interfaces.Cache
	L2Cache interfaces.Cache

	// Services
	CacheService  *service.CacheService
	StaticHandler *static.Handler
	OriginProxy   *proxy.Proxy
	AccessLog     *accesslog.Logger

	// Servers
	EdgeServer *httpserver.Server
	OpsServer  *httpserver.OpsServer
}

// NewCompositionRoot creates and initializes all application dependencies.
// It follows the dependency injection pattern where all services are created
// and wired together in the correct order.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (defines how components should be configured)
// 3. Route rules (defines what the edge does per path)
// 4. Cache components (L1, L2)
// 5. Services (cache service, static handler, origin proxy, access log)
// 6. Servers (edge and ops)
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	// Initialize logger first
	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Load configuration
	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load route rules
	if err := root.loadRouteRules(); err != nil {
		return nil, fmt.Errorf("failed to load route rules: %w", err)
	}

	// Initialize cache components
	if err := root.initCacheComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	// Initialize services
	if err := root.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize servers
	if err := root.initServers(); err != nil {
		return nil, fmt.Errorf("failed to initialize servers: %w", err)
	}

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration. A missing default config
// file is not an error, the built-in defaults cover a local run.
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("EDGE_CONFIG_FILE")
	if configPath == "" {
		configPath = "/app/edge_config.yaml"
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			r.Logger.Info("No configuration file found, using defaults")
			r.Config = config.DefaultConfig()
			return nil
		}
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// loadRouteRules loads the routing table, falling back to the built-in one,
// and points the build-asset prefix at its own root when configured
func (r *CompositionRoot) loadRouteRules() error {
	rules := route_rules.DefaultRules()

	rulesPath := os.Getenv("EDGE_ROUTES_FILE")
	if rulesPath == "" {
		rulesPath = "/app/edge_routes.yaml"
	}

	if _, err := os.Stat(rulesPath); err == nil {
		loaded, err := route_rules.LoadRouteRulesConfig(rulesPath, r.Logger)
		if err != nil {
			return err
		}
		rules = loaded
	} else {
		r.Logger.Info("No route rules file found, using built-in table",
			zap.String("path", rulesPath))
	}

	if nextRoot := r.Config.Static.NextRoot; nextRoot != "" {
		for i := range rules {
			if rules[i].Pattern == "/_next/static" && rules[i].Root == "" {
				rules[i].Root = nextRoot
			}
		}
	}

	r.Routes = route_rules.NewClassifier(r.Logger, rules)
	return nil
}

// initCacheComponents initializes all cache-related components
func (r *CompositionRoot) initCacheComponents() error {
	// Initialize L1 cache (BigCache)
	if err := r.initL1Cache(); err != nil {
		return fmt.Errorf("failed to initialize L1 cache: %w", err)
	}

	// Initialize L2 cache (KeyDB)
	if err := r.initL2Cache(); err != nil {
		return fmt.Errorf("failed to initialize L2 cache: %w", err)
	}

	return nil
}

// initL1Cache initializes the L1 cache (BigCache)
func (r *CompositionRoot) initL1Cache() error {
	if r.Config.ContentCache.BigCache.Enabled {
		l1Cache, err := l1.NewBigCache(&r.Config.ContentCache.BigCache, r.Logger)
		if err != nil {
			return err
		}
		r.L1Cache = l1Cache
		r.Logger.Info("BigCache (L1) initialized",
			zap.Int("size_mb", r.Config.ContentCache.BigCache.SizeMB))
	} else {
		r.L1Cache = noop.NewNoOpCache()
		r.Logger.Info("BigCache (L1) disabled")
	}
	return nil
}

// initL2Cache initializes the L2 cache (KeyDB)
func (r *CompositionRoot) initL2Cache() error {
	if r.Config.ContentCache.KeyDB.Enabled {
		keydbURL := GetKeyDBURL(r.Config.ContentCache.KeyDB.URL, r.Logger)

		// Create KeyDB client
		keydbClient, err := l2.NewRedisKeyDbClient(&r.Config.ContentCache.KeyDB, keydbURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to KeyDB, falling back to no L2 cache",
				zap.String("keydb_url", keydbURL),
				zap.Error(err))
			r.L2Cache = noop.NewNoOpCache()
			return nil
		}

		// Create L2 cache with the client
		r.L2Cache = l2.NewKeyDBCache(&r.Config.ContentCache.KeyDB, keydbClient, r.Logger)
		r.Logger.Info("KeyDB (L2) initialized", zap.String("keydb_url", keydbURL))
	} else {
		r.L2Cache = noop.NewNoOpCache()
		r.Logger.Info("KeyDB (L2) disabled")
	}
	return nil
}

// initServices initializes application services
func (r *CompositionRoot) initServices() error {
	// Content cache service over L1 and L2
	r.CacheService = service.NewCacheService(
		r.L1Cache,
		r.L2Cache,
		r.Config.ContentCache.EnablePropagation,
		r.Logger,
	)

	// Static file handler
	r.StaticHandler = static.NewHandler(
		&r.Config.Static,
		&r.Config.ContentCache,
		r.CacheService,
		r.Logger,
	)

	// Origin reverse proxy
	originProxy, err := proxy.NewProxy(&r.Config.Origin, r.Logger)
	if err != nil {
		return err
	}
	r.OriginProxy = originProxy

	// Combined-format access log
	accessLog, err := accesslog.NewLogger(&r.Config.AccessLog, r.Logger)
	if err != nil {
		return err
	}
	r.AccessLog = accessLog

	return nil
}

// initServers initializes the edge and operational servers
func (r *CompositionRoot) initServers() error {
	r.EdgeServer = httpserver.NewServer(
		r.Routes,
		r.StaticHandler,
		r.OriginProxy,
		r.AccessLog,
		r.Config.MaxConnections,
		r.Logger,
	)

	r.OpsServer = httpserver.NewOpsServer(r.Routes, r.Logger)

	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errors = append(errors, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	// Close access log
	if r.AccessLog != nil {
		if err := r.AccessLog.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close access log: %w", err))
		}
	}

	// Close L1 cache
	if r.L1Cache != nil {
		if l1BigCache, ok := r.L1Cache.(*l1.BigCache); ok {
			if err := l1BigCache.Close(); err != nil {
				errors = append(errors, fmt.Errorf("failed to close L1 cache: %w", err))
			}
		}
	}

	// Close L2 cache
	if r.L2Cache != nil {
		if l2KeyDBCache, ok := r.L2Cache.(*l2.KeyDBCache); ok {
			if err := l2KeyDBCache.Close(); err != nil {
				errors = append(errors, fmt.Errorf("failed to close L2 cache: %w", err))
			}
		}
	}

	// Return first error if any
	if len(errors) > 0 {
		return errors[0]
	}

	return nil
}
