package filter

import (
	"html"
	"io"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss/v2"
)

// Marker renders the plain and emphasized segments of a highlighted string.
type Marker interface {
	Plain(s string) string
	Emphasize(s string) string
}

type bracketMarker struct{}

func (bracketMarker) Plain(s string) string     { return s }
func (bracketMarker) Emphasize(s string) string { return "[" + s + "]" }

type htmlMarker struct{}

func (htmlMarker) Plain(s string) string     { return html.EscapeString(s) }
func (htmlMarker) Emphasize(s string) string { return "<mark>" + html.EscapeString(s) + "</mark>" }

// StyleMarker emphasizes matches with a lipgloss style.
type StyleMarker struct {
	Style lipgloss.Style
}

func (m StyleMarker) Plain(s string) string { return s }

func (m StyleMarker) Emphasize(s string) string {
	if s == "" {
		return s
	}
	return m.Style.Render(s)
}

var (
	// Brackets wraps matches in square brackets.
	Brackets Marker = bracketMarker{}
	// HTML wraps matches in <mark> and escapes everything else.
	HTML Marker = htmlMarker{}
	// Terminal shows matches in reverse video.
	Terminal Marker = StyleMarker{Style: lipgloss.NewStyle().Reverse(true).Bold(true)}
)

// ForOutput returns Terminal when w is a terminal and styled output is wanted,
// and Brackets otherwise, so piped output carries no escape sequences.
func ForOutput(w io.Writer, env []string, styled bool) Marker {
	if !styled || colorprofile.Detect(w, env) == colorprofile.NoTTY {
		return Brackets
	}
	return Terminal
}

