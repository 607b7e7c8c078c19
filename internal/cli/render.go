package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/config"
	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/layout"
	"github.com/matzehuels/discograph/pkg/render"
	"github.com/matzehuels/discograph/pkg/render/sink"
)

const (
	expandAll    = "all"
	expandLimit  = 4
	defaultScale = 2
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string
	formats []string
	expand  []string
	filter  graph.Filter
	engine  string
	baseURL string
	scale   float64
	noCache bool
	refresh bool
}

// renderCommand creates the render command for snapshot images.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{filter: graph.DefaultFilter(), scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a snapshot of the graph to SVG, PNG, DOT or JSON",
		Long: `Render fetches the topic graph from the backend, expands the requested
topics into their discoveries, lays the result out and writes it to disk.

Pass --expand all to expand every topic.`,
		Example: `  discograph render -o physics.svg --topic Physics --expand all
  discograph render -f svg,png --min-year 1900 --expand Optics,Genetics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if err := opts.filter.Validate(); err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), newPrinter(cmd.OutOrStdout()), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, graphviz, json (comma-separated)")
	cmd.Flags().StringVar(&opts.filter.Topic, "topic", "", "only topics with this name or branch")
	cmd.Flags().IntVar(&opts.filter.MinYear, "min-year", opts.filter.MinYear, "earliest discovery year")
	cmd.Flags().IntVar(&opts.filter.MaxYear, "max-year", opts.filter.MaxYear, "latest discovery year")
	cmd.Flags().StringSliceVarP(&opts.expand, "expand", "e", nil, "topics to expand, or \"all\"")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: fdp, neato, static (default from config)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "backend URL (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixels per layout unit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable response caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached responses")
	_ = cmd.RegisterFlagCompletionFunc("topic", c.completeTopics)
	_ = cmd.RegisterFlagCompletionFunc("expand", c.completeTopics)

	return cmd
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// validFormats maps each output format to its file extension.
var validFormats = map[string]string{
	"svg":      ".svg",
	"png":      ".png",
	"dot":      ".dot",
	"graphviz": ".gv.svg",
	"json":     ".json",
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if _, ok := validFormats[f]; !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be svg, png, dot, graphviz or json)", f)
		}
	}
	return nil
}

// basePath strips a known format extension from output. An empty output
// derives the name from the filter topic.
func basePath(output string, f graph.Filter) string {
	if output == "" {
		if f.Topic == "" {
			return "discograph"
		}
		return graph.Sanitize(f.Topic)
	}
	for _, ext := range []string{".gv.svg", ".svg", ".png", ".dot", ".json"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, p *printer, cfg config.Config, opts *renderOpts) error {
	cl, ch, err := c.newClient(ctx, cfg, opts.baseURL, opts.noCache, opts.refresh)
	if err != nil {
		return err
	}
	defer ch.Close()

	fit := &layout.FitView{Margin: cfg.Layout.Margin}
	ex, cleanup, err := c.newExplorer(cfg, cl, opts.engine, fit)
	if err != nil {
		return err
	}
	defer cleanup()

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching graph %s...", opts.filter))
	spin.Start()

	if _, err := ex.Reload(ctx, opts.filter); err != nil {
		spin.StopWithError("Fetch failed")
		return err
	}

	topics := expandTargets(ex.Store().Snapshot(), opts.expand)
	if len(topics) > 0 {
		spin.SetMessage(fmt.Sprintf("Expanding %d topics...", len(topics)))
		if _, err := ex.ExpandAll(ctx, topics, expandLimit); err != nil {
			spin.StopWithError("Expansion failed")
			return err
		}
	}
	spin.Stop()

	g := ex.Store().Snapshot()
	if g.NodeCount() == 0 {
		p.warning("No topics match %s", opts.filter)
	}
	prog.done("graph ready", "topics", len(g.Topics()), "nodes", g.NodeCount(), "links", g.LinkCount())

	rcfg := cfg.RenderConfig()
	policy := render.NewPolicy(rcfg, render.NewFontMeasurer())

	base := basePath(opts.output, opts.filter)
	single := len(opts.formats) == 1 && opts.output != ""
	for _, format := range opts.formats {
		data, err := renderFormat(ctx, g, policy, format, fit, opts.scale)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := base + validFormats[format]
		if single {
			path = opts.output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		p.file(path)
	}

	p.success("Rendered %s", formatStats(len(g.Topics()), g.NodeCount()-len(g.Topics()), g.LinkCount()))
	return nil
}

// expandTargets resolves the --expand flag against the loaded graph.
// Unknown names are kept so the explorer reports them.
func expandTargets(g *graph.Graph, names []string) []string {
	for _, n := range names {
		if strings.EqualFold(n, expandAll) {
			var ids []string
			for _, t := range g.Topics() {
				ids = append(ids, t.ID)
			}
			return ids
		}
	}
	return names
}

func renderFormat(ctx context.Context, g *graph.Graph, p *render.Policy, format string, fit *layout.FitView, scale float64) ([]byte, error) {
	var box []sink.Option
	if g.NodeCount() > 0 {
		box = append(box, sink.WithBox(fit.Box))
	}
	switch format {
	case "svg":
		return sink.RenderSVG(g, p, box...), nil
	case "png":
		return sink.RenderPNG(g, p, append(box, sink.WithScale(scale))...)
	case "dot":
		return []byte(sink.RenderDOT(g, p)), nil
	case "graphviz":
		return sink.RenderGraphvizSVG(ctx, sink.RenderDOT(g, p))
	case "json":
		var buf bytes.Buffer
		if err := graph.WriteGraph(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
