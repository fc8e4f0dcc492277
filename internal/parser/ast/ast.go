package ast

import (
	"fmt"
	"strings"
)

type Token interface {
	fmt.Stringer
	token()
}

type Literal struct {
	Value rune
}

type StartAnchor struct{}

type EndAnchor struct{}

type DigitClass struct{}

type NotDigitClass struct{}

type WordClass struct{}

type NotWordClass struct{}

type WhitespaceClass struct{}

type NotWhitespaceClass struct{}

// CharClass holds a bracket expression verbatim, brackets included, or "."
// for the wildcard.
type CharClass struct {
	Value string
}

// NegatedCharClass holds a "[^...]" bracket expression verbatim.
type NegatedCharClass struct {
	Value string
}

// Quantifier applies to the token right before it in the same sequence.
// A nil Max means there is no upper bound.
type Quantifier struct {
	Min  int
	Max  *int
	Lazy bool
}

type Group struct {
	Tokens []Token
}

// Alternative is a top-level "|" split. Each branch is either a single
// token or a Group wrapping the branch's tokens.
type Alternative struct {
	Branches []Token
}

// TooDeep replaces a group or alternation nested past the parser's limit.
type TooDeep struct{}

func (Literal) token()            {}
func (StartAnchor) token()        {}
func (EndAnchor) token()          {}
func (DigitClass) token()         {}
func (NotDigitClass) token()      {}
func (WordClass) token()          {}
func (NotWordClass) token()       {}
func (WhitespaceClass) token()    {}
func (NotWhitespaceClass) token() {}
func (CharClass) token()          {}
func (NegatedCharClass) token()   {}
func (Quantifier) token()         {}
func (Group) token()              {}
func (Alternative) token()        {}
func (TooDeep) token()            {}

func (t Literal) String() string          { return fmt.Sprintf("Literal(%q)", t.Value) }
func (StartAnchor) String() string        { return "StartAnchor" }
func (EndAnchor) String() string          { return "EndAnchor" }
func (DigitClass) String() string         { return "DigitClass" }
func (NotDigitClass) String() string      { return "NotDigitClass" }
func (WordClass) String() string          { return "WordClass" }
func (NotWordClass) String() string       { return "NotWordClass" }
func (WhitespaceClass) String() string    { return "WhitespaceClass" }
func (NotWhitespaceClass) String() string { return "NotWhitespaceClass" }
func (t CharClass) String() string        { return fmt.Sprintf("CharClass(%q)", t.Value) }
func (t NegatedCharClass) String() string { return fmt.Sprintf("NegatedCharClass(%q)", t.Value) }
func (TooDeep) String() string            { return "TooDeep" }

func (t Quantifier) String() string {
	upper := "inf"
	if t.Max != nil {
		upper = fmt.Sprint(*t.Max)
	}

	return fmt.Sprintf("Quantifier(%d,%s,lazy=%t)", t.Min, upper, t.Lazy)
}

func (t Group) String() string {
	return "Group(" + join(t.Tokens) + ")"
}

func (t Alternative) String() string {
	return "Alternative(" + join(t.Branches) + ")"
}

func join(tks []Token) string {
	parts := make([]string, len(tks))
	for i, tk := range tks {
		parts[i] = tk.String()
	}

	return strings.Join(parts, ", ")
}

// Unbounded reports whether the quantifier has no upper bound.
func (t Quantifier) Unbounded() bool {
	return t.Max == nil
}

func Exactly(n int) Quantifier {
	return Quantifier{Min: n, Max: ptr(n)}
}

func Range(min, max int) Quantifier {
	return Quantifier{Min: min, Max: ptr(max)}
}

func AtLeast(min int) Quantifier {
	return Quantifier{Min: min}
}

func ptr[T any](v T) *T {
	return &v
}
