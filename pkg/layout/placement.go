package layout

import (
	"math"
	"math/rand/v2"
)

// Point is a position in layout coordinates.
type Point struct {
	X, Y float64
}

// Placement defaults.
const (
	DefaultBaseRadius = 80
	DefaultSpread     = 20
	DefaultJitter     = 5
)

// Placer seeds child positions on a ring around their parent.
//
// The ring radius grows with the square root of the child count so that
// larger expansions get more room. Each point is offset by an independent
// uniform jitter in [-Jitter, +Jitter] on both axes.
type Placer struct {
	BaseRadius float64
	Spread     float64
	Jitter     float64

	// Rand supplies the jitter. Nil uses the global source.
	Rand *rand.Rand
}

// NewPlacer returns a Placer with the default ring parameters.
func NewPlacer() *Placer {
	return &Placer{
		BaseRadius: DefaultBaseRadius,
		Spread:     DefaultSpread,
		Jitter:     DefaultJitter,
	}
}

// Radius returns the ring radius for n children.
func (p *Placer) Radius(n int) float64 {
	return p.BaseRadius + p.Spread*math.Sqrt(float64(n))
}

// Place returns n positions around (px, py). Child i sits at angle
// i*2π/n; a single child sits at angle 0. n <= 0 yields no points.
func (p *Placer) Place(px, py float64, n int) []Point {
	if n <= 0 {
		return nil
	}
	r := p.Radius(n)
	step := 0.0
	if n > 1 {
		step = 2 * math.Pi / float64(n)
	}

	pts := make([]Point, n)
	for i := range pts {
		a := float64(i) * step
		pts[i] = Point{
			X: px + r*math.Cos(a) + p.jitter(),
			Y: py + r*math.Sin(a) + p.jitter(),
		}
	}
	return pts
}

func (p *Placer) jitter() float64 {
	if p.Jitter == 0 {
		return 0
	}
	var f float64
	if p.Rand != nil {
		f = p.Rand.Float64()
	} else {
		f = rand.Float64()
	}
	return (f*2 - 1) * p.Jitter
}
