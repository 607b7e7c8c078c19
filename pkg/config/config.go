// Package config loads discograph settings from a TOML file.
//
// Every section is optional; missing keys keep their defaults. A typical
// file:
//
//	[server]
//	addr = ":8000"
//
//	[catalog]
//	backend = "memory"
//	path = "discoveries.json"
//	watch = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "1h"
//
//	[palette]
//	Astronomy = "#ffeb3b"
//
// DISCOGRAPH_MONGO_URI and DISCOGRAPH_REDIS_ADDR override the connection
// strings after the file is read.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/layout"
	"github.com/matzehuels/discograph/pkg/render"
)

const appName = "discograph"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvMongoURI  = "DISCOGRAPH_MONGO_URI"
	EnvRedisAddr = "DISCOGRAPH_REDIS_ADDR"
)

// Catalog backends.
const (
	CatalogMemory = "memory"
	CatalogMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Client  ClientConfig  `toml:"client"`
	Render  render.Config `toml:"render"`
	Layout  LayoutConfig  `toml:"layout"`
	Catalog CatalogConfig `toml:"catalog"`
	Cache   CacheConfig   `toml:"cache"`

	// Palette adds or overrides branch colors.
	Palette map[string]string `toml:"palette"`
}

// ServerConfig configures the backend API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	// AllowOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	AllowOrigin string `toml:"allow_origin"`
}

// ClientConfig configures the API client used by explore and render.
type ClientConfig struct {
	BaseURL    string   `toml:"base_url"`
	Timeout    Duration `toml:"timeout"`
	Retries    int      `toml:"retries"`
	RetryDelay Duration `toml:"retry_delay"`
}

// LayoutConfig configures child placement and the layout engine.
type LayoutConfig struct {
	Engine     string  `toml:"engine"`
	BaseRadius float64 `toml:"base_radius"`
	Spread     float64 `toml:"spread"`
	Jitter     float64 `toml:"jitter"`
	// Margin pads the fit-view box.
	Margin float64 `toml:"margin"`
}

// CatalogConfig selects the discovery store served by the backend.
type CatalogConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	Watch    bool   `toml:"watch"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// CacheConfig selects the client response cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	KeyPrefix     string   `toml:"key_prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8000",
			RequestTimeout: Duration(30 * time.Second),
			ReadTimeout:    Duration(10 * time.Second),
			WriteTimeout:   Duration(60 * time.Second),
			AllowOrigin:    "*",
		},
		Client: ClientConfig{
			BaseURL:    "http://localhost:8000",
			Timeout:    Duration(10 * time.Second),
			Retries:    3,
			RetryDelay: Duration(time.Second),
		},
		Render: render.DefaultConfig(),
		Layout: LayoutConfig{
			Engine:     layout.EngineFDP,
			BaseRadius: layout.DefaultBaseRadius,
			Spread:     layout.DefaultSpread,
			Jitter:     layout.DefaultJitter,
			Margin:     40,
		},
		Catalog: CatalogConfig{
			Backend:  CatalogMemory,
			Path:     "discoveries.json",
			MongoURI: "mongodb://localhost:27017",
			Database: appName,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			TTL:       Duration(time.Hour),
			RedisAddr: "localhost:6379",
			KeyPrefix: appName + ":",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/discograph/config.toml, falling back
// to the user config directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// Load reads path over the defaults and applies environment overrides. An
// empty path reads [DefaultPath] and tolerates its absence; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !stderrors.Is(err, fs.ErrNotExist) {
				return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults. Environment overrides are not
// applied.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Catalog.MongoURI = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.Render.Validate(); err != nil {
		return err
	}
	switch c.Layout.Engine {
	case layout.EngineFDP, layout.EngineNeato:
	default:
		return invalid("layout.engine must be %q or %q, got %q", layout.EngineFDP, layout.EngineNeato, c.Layout.Engine)
	}
	if c.Layout.BaseRadius < 0 || c.Layout.Spread < 0 || c.Layout.Jitter < 0 {
		return invalid("layout radius, spread and jitter must not be negative")
	}
	switch c.Catalog.Backend {
	case CatalogMemory, CatalogMongo:
	default:
		return invalid("catalog.backend must be %q or %q, got %q", CatalogMemory, CatalogMongo, c.Catalog.Backend)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return invalid("cache.backend must be %q, %q or %q, got %q", CacheFile, CacheRedis, CacheNone, c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return invalid("cache.ttl must not be negative")
	}
	if c.Client.Retries < 1 {
		return invalid("client.retries must be at least 1, got %d", c.Client.Retries)
	}
	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	return nil
}

// RenderConfig returns the render settings with the configured palette
// merged over the defaults.
func (c Config) RenderConfig() render.Config {
	rc := c.Render
	rc.Palette = render.DefaultPalette().Merge(c.Palette)
	return rc
}

// Placer returns a placer for the configured ring.
func (c Config) Placer() *layout.Placer {
	return &layout.Placer{
		BaseRadius: c.Layout.BaseRadius,
		Spread:     c.Layout.Spread,
		Jitter:     c.Layout.Jitter,
	}
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}
