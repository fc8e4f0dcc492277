package explain

import (
	"fmt"
	"html"
	"strings"
)

type Markup int

const (
	PlainText Markup = iota
	HTML
)

func (m Markup) String() string {
	switch m {
	case PlainText:
		return "plain"
	case HTML:
		return "html"
	}

	return "<unknown>"
}

// ParseMarkup accepts the names returned by Markup.String.
func ParseMarkup(s string) (Markup, error) {
	switch strings.ToLower(s) {
	case "", "plain", "text":
		return PlainText, nil
	case "html":
		return HTML, nil
	}

	return 0, fmt.Errorf("unknown markup %q", s)
}

// Indent is one indentation level.
func (m Markup) Indent() string {
	if m == HTML {
		return strings.Repeat("&nbsp;", 4)
	}

	return "    "
}

// Separator goes between rendered lines.
func (m Markup) Separator() string {
	if m == HTML {
		return "<br>"
	}

	return "\n"
}

func (m Markup) escape(s string) string {
	if m == HTML {
		return html.EscapeString(s)
	}

	return s
}

// Join concatenates lines the way a display surface expects them.
func Join(lines []string, m Markup) string {
	return strings.Join(lines, m.Separator())
}
