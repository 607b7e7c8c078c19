package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/server"
)

type exploreOpts struct {
	filter      graph.Filter
	engine      string
	baseURL     string
	logFile     string
	metricsAddr string
	noCache     bool
	refresh     bool
}

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := exploreOpts{filter: graph.DefaultFilter(), engine: "static"}

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the knowledge graph interactively",
		Long: `Explore opens a terminal browser over the backend's topic graph.
Select a topic and press enter to expand it into its discoveries; press / to
change the topic and year filter and r to reload.`,
		Example: `  discograph explore
  discograph explore --topic Physics --min-year 1800`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.filter.Validate(); err != nil {
				return err
			}
			return c.runExplore(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.filter.Topic, "topic", "", "only topics with this name or branch")
	cmd.Flags().IntVar(&opts.filter.MinYear, "min-year", opts.filter.MinYear, "earliest discovery year")
	cmd.Flags().IntVar(&opts.filter.MaxYear, "max-year", opts.filter.MaxYear, "latest discovery year")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "layout engine: static, fdp, neato")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "backend URL (default from config)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the browser runs")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve client and expansion metrics on this address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable response caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached responses")
	_ = cmd.RegisterFlagCompletionFunc("topic", c.completeTopics)

	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command, opts *exploreOpts) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	var out io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	c.Logger.SetOutput(out)
	defer c.Logger.SetOutput(c.logOut)

	if opts.metricsAddr != "" {
		stop := c.serveClientMetrics(opts.metricsAddr)
		defer stop()
	}

	cl, ch, err := c.newClient(ctx, cfg, opts.baseURL, opts.noCache, opts.refresh)
	if err != nil {
		return err
	}
	defer ch.Close()

	ex, cleanup, err := c.newExplorer(cfg, cl, opts.engine, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	model := NewExploreModel(ctx, ex, cfg.RenderConfig().Palette, opts.filter)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// serveClientMetrics installs Prometheus hooks for the client, cache and
// explorer and serves them until stop is called.
func (c *CLI) serveClientMetrics(addr string) (stop func()) {
	m := server.NewMetrics()
	m.Install()

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Logger.Warn("metrics listener stopped", "addr", addr, "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
