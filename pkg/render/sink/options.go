package sink

import "github.com/matzehuels/discograph/pkg/graph"

// Option configures rendering.
type Option func(*options)

type options struct {
	box       *graph.Box
	margin    float64
	scale     float64
	linkColor string
	linkWidth float64
}

func newOptions(opts ...Option) options {
	o := options{
		margin:    20,
		scale:     1,
		linkColor: "#555555",
		linkWidth: 0.5,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale <= 0 {
		o.scale = 1
	}
	return o
}

// WithBox fixes the visible region instead of fitting the graph.
func WithBox(b graph.Box) Option { return func(o *options) { o.box = &b } }

// WithMargin sets the padding added around the fitted graph.
func WithMargin(m float64) Option { return func(o *options) { o.margin = m } }

// WithScale sets output pixels per layout unit (default 1).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithLinkColor sets the link stroke color.
func WithLinkColor(c string) Option { return func(o *options) { o.linkColor = c } }
