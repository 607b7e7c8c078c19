package render

// Ellipsis marks a truncated label.
const Ellipsis = "…"

// Truncate shortens label one rune at a time from the end until it fits
// maxWidth at size, then appends [Ellipsis] if anything was removed. A label
// that cannot fit at all becomes the ellipsis alone.
func Truncate(m Measurer, label string, size, maxWidth float64) string {
	runes := []rune(label)
	n := len(runes)
	for n > 0 && m.MeasureText(string(runes[:n]), size) > maxWidth {
		n--
	}
	if n == len(runes) {
		return label
	}
	return string(runes[:n]) + Ellipsis
}
