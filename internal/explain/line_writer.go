package explain

import (
	"fmt"
	"strings"
)

type lineWriter struct {
	markup      Markup
	indentation int

	lines []string
}

func (w *lineWriter) indent(delta int) {
	w.indentation += delta
}

func (w *lineWriter) writeLine(text string) {
	w.writeLineAt(w.indentation, text)
}

func (w *lineWriter) writeLinef(format string, a ...any) {
	w.writeLine(fmt.Sprintf(format, a...))
}

func (w *lineWriter) writeLineAt(depth int, text string) {
	w.lines = append(w.lines, strings.Repeat(w.markup.Indent(), depth)+w.markup.escape(text))
}
