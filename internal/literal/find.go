package literal

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

var candidateRegexp = regexp.MustCompile(
	`r?"(?:[^"\\]|\\.)*"` +
		`|'(?:[^'\\]|\\.)*'` +
		"|`[^`]*`" +
		`|/(?:[^/\\]|\\.)+/`,
)

// Candidate is a string literal found on a line of source text. Columns
// are 0-based rune offsets, End is exclusive.
type Candidate struct {
	Raw        string
	Start, End int
}

// Covers reports whether a cursor at col touches the literal. A cursor
// right after the closing delimiter still counts.
func (c Candidate) Covers(col int) bool {
	return col >= c.Start && col <= c.End
}

// Pattern is the canonical pattern text of the literal.
func (c Candidate) Pattern() string {
	return StripAndUnescape(c.Raw)
}

// FindAll returns every literal on line, leftmost first.
func FindAll(line string) []Candidate {
	locs := candidateRegexp.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return nil
	}

	cands := make([]Candidate, 0, len(locs))
	for _, loc := range locs {
		start := utf8.RuneCountInString(line[:loc[0]])

		cands = append(cands, Candidate{
			Raw:   line[loc[0]:loc[1]],
			Start: start,
			End:   start + utf8.RuneCountInString(line[loc[0]:loc[1]]),
		})
	}

	return cands
}

// Find returns the first literal on line that covers col.
func Find(line string, col int) (Candidate, bool) {
	cands := FindAll(line)

	idx := slices.IndexFunc(cands, func(c Candidate) bool {
		return c.Covers(col)
	})
	if idx < 0 {
		return Candidate{}, false
	}

	return cands[idx], true
}
