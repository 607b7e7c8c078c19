package render

import (
	"sync"

	"golang.org/x/image/font"

	"github.com/matzehuels/discograph/pkg/fonts"
)

// Measurer reports the rendered width of text at a font size in pixels.
type Measurer interface {
	MeasureText(text string, size float64) float64
}

// MeasurerFunc adapts a function to [Measurer].
type MeasurerFunc func(text string, size float64) float64

// MeasureText implements Measurer.
func (f MeasurerFunc) MeasureText(text string, size float64) float64 { return f(text, size) }

// FontMeasurer measures text with the Go Regular font. Faces are kept per
// size; widths are computed on every call. Safe for concurrent use.
type FontMeasurer struct {
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFontMeasurer returns a measurer with no faces loaded yet.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{faces: make(map[float64]font.Face)}
}

// MeasureText implements Measurer. A face that fails to load measures as
// zero width, which disables truncation rather than failing the frame.
func (m *FontMeasurer) MeasureText(text string, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	face, ok := m.faces[size]
	if !ok {
		f, err := fonts.NewFace(size)
		if err != nil {
			return 0
		}
		if m.faces == nil {
			m.faces = make(map[float64]font.Face)
		}
		m.faces[size] = f
		face = f
	}
	return float64(font.MeasureString(face, text)) / 64
}
