package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-edge-proxy/internal/models"
)

var validate = validator.New()

// Config represents the main edge configuration structure
type Config struct {
	ListenAddr     string             `yaml:"listen_addr" validate:"required"`
	OpsAddr        string             `yaml:"ops_addr" validate:"required"`
	MaxConnections int                `yaml:"max_connections" validate:"gte=0"`
	Origin         OriginConfig       `yaml:"origin"`
	Static         StaticConfig       `yaml:"static"`
	AccessLog      AccessLogConfig    `yaml:"access_log"`
	ContentCache   ContentCacheConfig `yaml:"content_cache"`
}

// OriginConfig describes the upstream application server and the connection
// pool the edge keeps toward it.
type OriginConfig struct {
	URL                   string          `yaml:"url" validate:"required,url"`
	ConnectTimeout        models.Duration `yaml:"connect_timeout"`
	ResponseHeaderTimeout models.Duration `yaml:"response_header_timeout"`
	IdleConnTimeout       models.Duration `yaml:"idle_conn_timeout"`
	MaxIdleConns          int             `yaml:"max_idle_conns" validate:"gte=0"`
}

// StaticConfig holds the document roots static rules resolve files under
type StaticConfig struct {
	Root     string `yaml:"root" validate:"required"`
	NextRoot string `yaml:"next_root"` // optional separate root for the build-asset prefix
}

// AccessLogConfig controls where combined-format access lines go.
// An empty or "stdout" path writes to standard output.
type AccessLogConfig struct {
	Path string `yaml:"path"`
}

// ContentCacheConfig groups the static content cache layers.
// EnablePropagation backfills upper layers on lower-layer hits.
type ContentCacheConfig struct {
	EnablePropagation bool           `yaml:"enable_propagation"`
	BigCache          BigCacheConfig `yaml:"bigcache"`
	KeyDB             KeyDBConfig    `yaml:"keydb"`
}

// BigCacheConfig configures the in-process L1 content cache
type BigCacheConfig struct {
	Enabled    bool            `yaml:"enabled"`
	SizeMB     int             `yaml:"size_mb" validate:"gte=0"`
	TTL        models.Duration `yaml:"ttl"`
	MaxEntryKB int             `yaml:"max_entry_kb" validate:"gte=0"`
}

// KeyDBConfig configures the optional shared L2 content cache
type KeyDBConfig struct {
	Enabled    bool                  `yaml:"enabled"`
	URL        string                `yaml:"url"`
	Connection KeyDBConnectionConfig `yaml:"connection"`
	Keepalive  KeyDBKeepaliveConfig  `yaml:"keepalive"`
}

// KeyDBConnectionConfig holds per-operation timeouts for the KeyDB client
type KeyDBConnectionConfig struct {
	ConnectTimeout models.Duration `yaml:"connect_timeout"`
	ReadTimeout    models.Duration `yaml:"read_timeout"`
	SendTimeout    models.Duration `yaml:"send_timeout"`
}

// KeyDBKeepaliveConfig holds connection pool settings for the KeyDB client
type KeyDBKeepaliveConfig struct {
	PoolSize       int             `yaml:"pool_size" validate:"gte=0"`
	MaxIdleTimeout models.Duration `yaml:"max_idle_timeout"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a runnable configuration for a file-less start
func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	config.applyEnvOverrides()
	return config
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.OpsAddr == "" {
		c.OpsAddr = ":9090"
	}

	if c.Origin.URL == "" {
		c.Origin.URL = "http://127.0.0.1:3000"
	}
	if c.Origin.ConnectTimeout == 0 {
		c.Origin.ConnectTimeout = models.Duration(5 * time.Second)
	}
	if c.Origin.ResponseHeaderTimeout == 0 {
		c.Origin.ResponseHeaderTimeout = models.Duration(30 * time.Second)
	}
	if c.Origin.IdleConnTimeout == 0 {
		c.Origin.IdleConnTimeout = models.Duration(90 * time.Second)
	}
	if c.Origin.MaxIdleConns == 0 {
		c.Origin.MaxIdleConns = 64
	}

	if c.Static.Root == "" {
		c.Static.Root = "/srv/www"
	}

	if c.ContentCache.BigCache.SizeMB == 0 {
		c.ContentCache.BigCache.SizeMB = 64
	}
	if c.ContentCache.BigCache.TTL == 0 {
		c.ContentCache.BigCache.TTL = models.Duration(60 * time.Second)
	}
	if c.ContentCache.BigCache.MaxEntryKB == 0 {
		c.ContentCache.BigCache.MaxEntryKB = 512
	}

	if c.ContentCache.KeyDB.URL == "" {
		c.ContentCache.KeyDB.URL = "redis://keydb:6379"
	}
	if c.ContentCache.KeyDB.Connection.ConnectTimeout == 0 {
		c.ContentCache.KeyDB.Connection.ConnectTimeout = models.Duration(2 * time.Second)
	}
	if c.ContentCache.KeyDB.Connection.ReadTimeout == 0 {
		c.ContentCache.KeyDB.Connection.ReadTimeout = models.Duration(200 * time.Millisecond)
	}
	if c.ContentCache.KeyDB.Connection.SendTimeout == 0 {
		c.ContentCache.KeyDB.Connection.SendTimeout = models.Duration(200 * time.Millisecond)
	}
	if c.ContentCache.KeyDB.Keepalive.PoolSize == 0 {
		c.ContentCache.KeyDB.Keepalive.PoolSize = 16
	}
	if c.ContentCache.KeyDB.Keepalive.MaxIdleTimeout == 0 {
		c.ContentCache.KeyDB.Keepalive.MaxIdleTimeout = models.Duration(5 * time.Minute)
	}
}

// applyEnvOverrides lets deployment environments adjust addresses and paths
// without editing the config file
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EDGE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("EDGE_OPS_ADDR"); v != "" {
		c.OpsAddr = v
	}
	if v := os.Getenv("EDGE_ORIGIN_URL"); v != "" {
		c.Origin.URL = v
	}
	if v := os.Getenv("EDGE_STATIC_ROOT"); v != "" {
		c.Static.Root = v
	}
	if v := os.Getenv("EDGE_ACCESS_LOG"); v != "" {
		c.AccessLog.Path = v
	}
}

// GetReadTimeout returns the KeyDB read timeout with a safe fallback
func (k *KeyDBConfig) GetReadTimeout() time.Duration {
	if k.Connection.ReadTimeout > 0 {
		return k.Connection.ReadTimeout.ToDuration()
	}
	return 200 * time.Millisecond
}

// GetSendTimeout returns the KeyDB write timeout with a safe fallback
func (k *KeyDBConfig) GetSendTimeout() time.Duration {
	if k.Connection.SendTimeout > 0 {
		return k.Connection.SendTimeout.ToDuration()
	}
	return 200 * time.Millisecond
}
