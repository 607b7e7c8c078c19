package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/catalog"
	"github.com/matzehuels/discograph/pkg/config"
	"github.com/matzehuels/discograph/pkg/server"
)

type serveOpts struct {
	addr    string
	backend string
	path    string
	watch   bool
}

// serveCommand creates the serve command running the backend API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the discovery catalog over HTTP",
		Long: `Serve the backend API used by explore and render.

The catalog is either a JSON dataset held in memory (optionally reloaded
when the file changes) or a MongoDB database filled with "discograph import".`,
		Example: `  discograph serve --catalog discoveries.json --watch
  discograph serve --backend mongo --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if opts.backend != "" {
				cfg.Catalog.Backend = opts.backend
			}
			if opts.path != "" {
				cfg.Catalog.Path = opts.path
			}
			if cmd.Flags().Changed("watch") {
				cfg.Catalog.Watch = opts.watch
			}
			return c.runServe(cmd.Context(), newPrinter(cmd.OutOrStdout()), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "catalog backend: memory, mongo")
	cmd.Flags().StringVar(&opts.path, "catalog", "", "JSON dataset for the memory backend")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the JSON dataset when it changes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, p *printer, cfg config.Config) error {
	metrics := server.NewMetrics()
	store, stop, err := c.openCatalog(ctx, cfg, metrics)
	if err != nil {
		return err
	}
	defer stop()
	defer store.Close()

	srv := server.New(store, server.Options{
		Palette:        cfg.RenderConfig().Palette,
		Logger:         c.Logger,
		Metrics:        metrics,
		RequestTimeout: cfg.Server.RequestTimeout.D(),
		AllowOrigin:    cfg.Server.AllowOrigin,
	})
	p.info("Serving %s catalog on %s", cfg.Catalog.Backend, StyleValue.Render(cfg.Server.Addr))
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout.D(), cfg.Server.WriteTimeout.D())
}

// openCatalog opens the configured store. stop ends file watching.
func (c *CLI) openCatalog(ctx context.Context, cfg config.Config, metrics *server.Metrics) (catalog.Store, func(), error) {
	noop := func() {}
	switch cfg.Catalog.Backend {
	case config.CatalogMongo:
		mcfg := catalog.DefaultMongoConfig()
		mcfg.URI = cfg.Catalog.MongoURI
		mcfg.Database = cfg.Catalog.Database
		store, err := catalog.NewMongo(ctx, mcfg)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Info("connected to mongodb", "database", mcfg.Database)
		return store, noop, nil
	default:
		mem, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		metrics.CatalogLoaded(mem.Len(), nil)
		c.Logger.Info("catalog loaded", "path", cfg.Catalog.Path, "records", mem.Len())
		if !cfg.Catalog.Watch {
			return mem, noop, nil
		}

		w := catalog.NewWatcher(cfg.Catalog.Path, mem, c.Logger)
		w.OnChange(metrics.CatalogLoaded)
		stop, err := w.Watch()
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Info("watching catalog", "path", cfg.Catalog.Path)
		return mem, stop, nil
	}
}
