package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim   = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconError = "✗"
	iconHex   = "⬢"
)

// Status line kinds: icon plus the style of icon and text.
var (
	lineSuccess = lineKind{"✓", lipgloss.NewStyle().Foreground(colorGreen), lipgloss.NewStyle()}
	lineError   = lineKind{iconError, styleIconError, lipgloss.NewStyle()}
	lineWarning = lineKind{"!", lipgloss.NewStyle().Foreground(colorYellow), lipgloss.NewStyle().Foreground(colorYellow)}
	lineInfo    = lineKind{"›", lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()}
)

type lineKind struct {
	icon string
	mark lipgloss.Style
	text lipgloss.Style
}

// branchStyle renders text in a branch's palette color.
func branchStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// printer writes styled status lines for a command. Commands build one from
// cmd.OutOrStdout() so their output can be captured.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer { return &printer{w: w} }

func (p *printer) line(k lineKind, format string, args ...any) {
	fmt.Fprintln(p.w, k.mark.Render(k.icon)+" "+k.text.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) success(format string, args ...any) { p.line(lineSuccess, format, args...) }
func (p *printer) failure(format string, args ...any) { p.line(lineError, format, args...) }
func (p *printer) warning(format string, args ...any) { p.line(lineWarning, format, args...) }
func (p *printer) info(format string, args ...any)    { p.line(lineInfo, format, args...) }

// detail prints an indented, dimmed line under the previous status line.
func (p *printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p *printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func (p *printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// formatStats renders graph counts on one line, omitting zero discoveries
// and links.
func formatStats(topics, discoveries, links int) string {
	parts := []string{fmt.Sprintf("%d topics", topics)}
	if discoveries > 0 {
		parts = append(parts, fmt.Sprintf("%d discoveries", discoveries))
	}
	if links > 0 {
		parts = append(parts, fmt.Sprintf("%d links", links))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
