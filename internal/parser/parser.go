package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pipe01/regins/internal/literal"
	"github.com/pipe01/regins/internal/parser/ast"
)

// MaxDepth is the deepest group or alternation nesting that is parsed.
// Anything below it is replaced by a single ast.TooDeep token.
const MaxDepth = 64

type parser struct {
	src    []rune
	index  int
	depth  int
	tokens []ast.Token

	// Precomputed so that unclosed delimiters don't rescan the rest of src
	closeParen  []int
	nextBracket []int
	nextBrace   []int
}

// Tokenize strips and unescapes pattern as captured from source code, then
// parses it. It never fails: malformed constructs degrade to literals.
func Tokenize(pattern string) []ast.Token {
	return TokenizeCanonical(literal.StripAndUnescape(pattern))
}

// TokenizeCanonical parses pattern as is, without unescaping it first.
func TokenizeCanonical(pattern string) []ast.Token {
	return tokenize([]rune(pattern), 0)
}

func tokenize(src []rune, depth int) []ast.Token {
	if depth > MaxDepth {
		return []ast.Token{ast.TooDeep{}}
	}

	if branches := splitAlternation(src); len(branches) > 1 {
		alt := ast.Alternative{
			Branches: make([]ast.Token, 0, len(branches)),
		}

		for _, branch := range branches {
			tks := tokenize(branch, depth+1)

			if len(tks) == 1 {
				alt.Branches = append(alt.Branches, tks[0])
			} else {
				alt.Branches = append(alt.Branches, ast.Group{Tokens: tks})
			}
		}

		return []ast.Token{alt}
	}

	p := newParser(src, depth)

	for !p.isEOF() {
		p.parseToken()
	}

	return p.tokens
}

// splitAlternation cuts src at every "|" outside of parentheses. Escaped
// characters are skipped.
func splitAlternation(src []rune) (parts [][]rune) {
	depth := 0
	last := 0

	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				parts = append(parts, src[last:i])
				last = i + 1
			}
		}
	}

	return append(parts, src[last:])
}

func newParser(src []rune, depth int) *parser {
	p := &parser{
		src:         src,
		depth:       depth,
		closeParen:  make([]int, len(src)),
		nextBracket: make([]int, len(src)+1),
		nextBrace:   make([]int, len(src)+1),
	}

	escaped := make([]bool, len(src))
	var open []int

	for i := 0; i < len(src); i++ {
		p.closeParen[i] = -1

		switch src[i] {
		case '\\':
			if i+1 < len(src) {
				escaped[i+1] = true
				p.closeParen[i+1] = -1
			}
			i++
		case '(':
			open = append(open, i)
		case ')':
			if len(open) > 0 {
				p.closeParen[open[len(open)-1]] = i
				open = open[:len(open)-1]
			}
		}
	}

	p.nextBracket[len(src)] = -1
	p.nextBrace[len(src)] = -1

	for i := len(src) - 1; i >= 0; i-- {
		p.nextBracket[i] = p.nextBracket[i+1]
		p.nextBrace[i] = p.nextBrace[i+1]

		if escaped[i] {
			continue
		}

		switch src[i] {
		case ']':
			p.nextBracket[i] = i
		case '}':
			p.nextBrace[i] = i
		}
	}

	return p
}

func (p *parser) isEOF() bool {
	return p.index >= len(p.src)
}

func (p *parser) peekAt(i int) (r rune, ok bool) {
	if i >= len(p.src) {
		return 0, false
	}

	return p.src[i], true
}

func (p *parser) emit(tk ast.Token) {
	p.tokens = append(p.tokens, tk)
}

func (p *parser) emitLiteral(r rune) {
	p.emit(ast.Literal{Value: r})
}

func (p *parser) parseToken() {
	r := p.src[p.index]

	switch r {
	case '^':
		p.emit(ast.StartAnchor{})

	case '$':
		p.emit(ast.EndAnchor{})

	case '\\':
		next, ok := p.peekAt(p.index + 1)
		if !ok {
			p.emitLiteral(r)
			break
		}

		p.emit(escapeToken(next))
		p.index++

	case '[':
		p.parseCharClass()
		return

	case '(':
		p.parseGroup()
		return

	case '*', '+', '?':
		if len(p.tokens) == 0 {
			p.emitLiteral(r)
			break
		}

		q := simpleQuantifier(r)
		if next, ok := p.peekAt(p.index + 1); ok && next == '?' {
			q.Lazy = true
			p.index++
		}

		p.emit(q)

	case '{':
		p.parseBounded()
		return

	case '.':
		p.emit(ast.CharClass{Value: "."})

	default:
		p.emitLiteral(r)
	}

	p.index++
}

func escapeToken(r rune) ast.Token {
	switch r {
	case 'd':
		return ast.DigitClass{}
	case 'D':
		return ast.NotDigitClass{}
	case 'w':
		return ast.WordClass{}
	case 'W':
		return ast.NotWordClass{}
	case 's':
		return ast.WhitespaceClass{}
	case 'S':
		return ast.NotWhitespaceClass{}
	}

	// Escaped metacharacters and unknown escapes alike
	return ast.Literal{Value: r}
}

func simpleQuantifier(r rune) ast.Quantifier {
	switch r {
	case '*':
		return ast.AtLeast(0)
	case '+':
		return ast.AtLeast(1)
	default:
		return ast.Range(0, 1)
	}
}

func (p *parser) parseCharClass() {
	end := p.indexFrom(p.nextBracket, p.index+1)
	if end < 0 {
		p.emitLiteral('[')
		p.index++
		return
	}

	value := string(p.src[p.index : end+1])

	if strings.HasPrefix(value, "[^") {
		p.emit(ast.NegatedCharClass{Value: value})
	} else {
		p.emit(ast.CharClass{Value: value})
	}

	p.index = end + 1
}

func (p *parser) parseGroup() {
	end := p.closeParen[p.index]
	if end < 0 {
		p.emitLiteral('(')
		p.index++
		return
	}

	p.emit(ast.Group{
		Tokens: tokenize(p.src[p.index+1:end], p.depth+1),
	})

	p.index = end + 1
}

func (p *parser) parseBounded() {
	q, next, ok := p.boundedQuantifier()
	if !ok || len(p.tokens) == 0 {
		p.emitLiteral('{')
		p.index++
		return
	}

	p.emit(q)
	p.index = next
}

// boundedQuantifier parses "{n}", "{n,}" or "{n,m}" at the current index,
// followed by an optional lazy "?". It returns the index right after it.
func (p *parser) boundedQuantifier() (q ast.Quantifier, next int, ok bool) {
	closeIdx := p.indexFrom(p.nextBrace, p.index+1)
	if closeIdx < 0 || !isBoundsText(p.src[p.index+1:closeIdx]) {
		return q, 0, false
	}

	content := string(p.src[p.index+1 : closeIdx])

	if lo, hi, found := strings.Cut(content, ","); found {
		lower, valid := parseCount(lo)
		if !valid {
			return q, 0, false
		}

		if strings.TrimSpace(hi) == "" {
			q = ast.AtLeast(lower)
		} else {
			upper, valid := parseCount(hi)
			if !valid || upper < lower {
				return q, 0, false
			}

			q = ast.Range(lower, upper)
		}
	} else {
		n, valid := parseCount(content)
		if !valid {
			return q, 0, false
		}

		q = ast.Exactly(n)
	}

	next = closeIdx + 1
	if r, found := p.peekAt(next); found && r == '?' {
		q.Lazy = true
		next++
	}

	return q, next, true
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

// indexFrom looks up the first unescaped delimiter at or after start in
// one of the next* tables, or -1.
func (p *parser) indexFrom(next []int, start int) int {
	if start >= len(next) {
		return -1
	}

	return next[start]
}

// isBoundsText reports whether s only holds characters that can appear
// between the braces of a bounded quantifier. It stops at the first one
// that can't, so runs of unmatched "{" stay linear.
func isBoundsText(s []rune) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != ',' && r != '-' && r != '+' {
			return false
		}
	}

	return true
}
