// Package fonts provides the font used for label measurement and drawing.
//
// The Go Regular typeface ships inside golang.org/x/image, so the binary
// needs no font files on disk. Both the PNG surface and the render policy
// measure with the same outlines, which keeps truncated labels consistent
// across outputs.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name written into SVG output.
const FontFamily = "Go"

// FallbackFontFamily lists fonts for viewers without the Go font installed.
// Arial is the closest match in metrics.
const FallbackFontFamily = `'Go', Arial, Helvetica, sans-serif`

// RegularTTF returns the Go Regular TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

var regular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// NewFace returns a new Go Regular face at size pixels (72 DPI, so one
// point per pixel). Faces are not safe for concurrent use; callers that
// share one must serialize access.
func NewFace(size float64) (font.Face, error) {
	f, err := regular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
