package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/buildinfo"
	"github.com/matzehuels/discograph/pkg/cache"
	"github.com/matzehuels/discograph/pkg/client"
	"github.com/matzehuels/discograph/pkg/config"
	"github.com/matzehuels/discograph/pkg/expand"
	"github.com/matzehuels/discograph/pkg/explorer"
	"github.com/matzehuels/discograph/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "discograph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	logOut     io.Writer
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Discograph explores a knowledge graph of discoveries",
		Long:         `Discograph serves a catalog of scientific discoveries grouped by topic and lets you explore it as a graph: topics expand into their discoveries, laid out around them and rendered as glowing hexagons.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/discograph/config.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// newCache opens the configured response cache, instrumented for the
// observability hooks.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	backend := cfg.Cache.Backend
	if noCache {
		backend = config.CacheNone
	}
	switch backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.Cache.RedisAddr,
			Password:  cfg.Cache.RedisPassword,
			DB:        cfg.Cache.RedisDB,
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(fc), nil
	}
}

// newClient builds an API client for the configured backend. The returned
// cache must be closed by the caller.
func (c *CLI) newClient(ctx context.Context, cfg config.Config, baseURL string, noCache, refresh bool) (*client.Client, cache.Cache, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	if baseURL == "" {
		baseURL = cfg.Client.BaseURL
	}
	// Responses from different backends never share cache entries.
	keyer := cache.NewScopedKeyer(nil, cache.Hash([]byte(baseURL))[:12]+":")
	cl, err := client.New(baseURL,
		client.WithTimeout(cfg.Client.Timeout.D()),
		client.WithCache(ch, cfg.Cache.TTL.D()),
		client.WithKeyer(keyer),
		client.WithRetry(cfg.Client.Retries, cfg.Client.RetryDelay.D()),
		client.WithRefresh(refresh),
		client.WithLogger(c.Logger),
	)
	if err != nil {
		ch.Close()
		return nil, nil, err
	}
	return cl, ch, nil
}

// newExplorer wires a client into an explorer with the configured placer
// and layout engine.
func (c *CLI) newExplorer(cfg config.Config, cl *client.Client, engine string, fit *layout.FitView) (*explorer.Explorer, func(), error) {
	if engine == "" {
		engine = cfg.Layout.Engine
	}
	opts := explorer.Options{Logger: c.Logger, Expander: expand.New(cfg.Placer())}
	cleanup := func() {}

	var settler layout.Settler
	if fit != nil {
		settler = fit
	}
	switch engine {
	case "static":
		opts.Layout = layout.Static{Settler: settler}
	default:
		gv, err := layout.NewGraphviz(engine)
		if err != nil {
			return nil, nil, err
		}
		gv.Settler = settler
		opts.Layout = gv
		cleanup = func() { gv.Close() }
	}
	return explorer.New(cl, opts), cleanup, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/discograph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
