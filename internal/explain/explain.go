// Package explain renders a token tree into human readable lines, one per
// token, with groups and alternations delimited by depth-tagged markers.
package explain

import (
	"github.com/pipe01/regins/internal/parser/ast"
)

// MaxDepth bounds recursion for trees that did not come out of the parser.
const MaxDepth = 128

const tooDeepLine = "!  Pattern too deeply nested"

// Explain renders tokens starting at depth 0.
func Explain(tokens []ast.Token, markup Markup) []string {
	return ExplainAt(tokens, 0, markup)
}

// ExplainAt renders tokens as if they were nested depth levels deep.
func ExplainAt(tokens []ast.Token, depth int, markup Markup) []string {
	if depth < 0 {
		depth = 0
	}

	ctx := context{
		w: &lineWriter{
			markup:      markup,
			indentation: depth,
		},
	}

	ctx.visitTokens(tokens)

	return ctx.w.lines
}

type context struct {
	w *lineWriter
}

func (c *context) visitTokens(tokens []ast.Token) {
	for _, tk := range tokens {
		c.visitToken(tk)
	}
}

func (c *context) visitToken(tk ast.Token) {
	switch tk := tk.(type) {
	case ast.StartAnchor:
		c.w.writeLine("^  Start of the string")
	case ast.EndAnchor:
		c.w.writeLine("$  End of the string")

	case ast.DigitClass:
		c.w.writeLine(`\d  Digit (0–9)`)
	case ast.NotDigitClass:
		c.w.writeLine(`\D  Non-digit character`)
	case ast.WordClass:
		c.w.writeLine(`\w  Word character (a-z, A-Z, 0-9, _)`)
	case ast.NotWordClass:
		c.w.writeLine(`\W  Non-word character`)
	case ast.WhitespaceClass:
		c.w.writeLine(`\s  Whitespace character (space, tab, newline)`)
	case ast.NotWhitespaceClass:
		c.w.writeLine(`\S  Non-whitespace character`)

	case ast.CharClass:
		if tk.Value == "." {
			c.w.writeLine(".  Any character (wildcard)")
		} else {
			c.w.writeLinef("%s  Character class (matches any character in the set)", tk.Value)
		}
	case ast.NegatedCharClass:
		c.w.writeLinef("%s  Negated character class (matches any character not in the set)", tk.Value)

	case ast.Literal:
		c.w.writeLinef("%c  Literal character", tk.Value)

	case ast.Quantifier:
		// Quantifiers sit one level under the atom they repeat
		c.w.writeLineAt(c.w.indentation+1, describeQuantifier(tk))

	case ast.Group:
		c.visitGroup(tk)

	case ast.Alternative:
		c.visitAlternative(tk)

	case ast.TooDeep:
		c.w.writeLine(tooDeepLine)

	default:
		c.w.writeLinef("%s  Unsupported token", tk)
	}
}

func (c *context) visitGroup(g ast.Group) {
	depth := c.w.indentation
	if depth >= MaxDepth {
		c.w.writeLine(tooDeepLine)
		return
	}

	c.w.writeLinef("( ------------ depth %d", depth)
	c.w.indent(1)
	c.visitTokens(g.Tokens)
	c.w.indent(-1)
	c.w.writeLinef(") ------------ depth %d", depth)
}

func (c *context) visitAlternative(a ast.Alternative) {
	depth := c.w.indentation
	if depth >= MaxDepth {
		c.w.writeLine(tooDeepLine)
		return
	}

	c.w.writeLinef("|  OR depth %d", depth)
	c.w.indent(1)
	c.visitTokens(a.Branches)
	c.w.indent(-1)
	c.w.writeLinef("| End of OR depth %d", depth)
}
