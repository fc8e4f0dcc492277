package explain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pipe01/regins/internal/parser"
	"github.com/pipe01/regins/internal/parser/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain(t *testing.T) {
	type testCase struct {
		name    string
		pattern string
		markup  Markup
		want    []string
	}

	cases := []testCase{
		{
			name:    "anchors digit and count",
			pattern: `^\d{3}$`,
			want: []string{
				"^  Start of the string",
				`\d  Digit (0–9)`,
				"    {3}  Exactly 3 time(s)",
				"$  End of the string",
			},
		},
		{
			name:    "classes",
			pattern: `[a-z][^0-9].\W\s\S\D\w`,
			want: []string{
				"[a-z]  Character class (matches any character in the set)",
				"[^0-9]  Negated character class (matches any character not in the set)",
				".  Any character (wildcard)",
				`\W  Non-word character`,
				`\s  Whitespace character (space, tab, newline)`,
				`\S  Non-whitespace character`,
				`\D  Non-digit character`,
				`\w  Word character (a-z, A-Z, 0-9, _)`,
			},
		},
		{
			name:    "quantified group",
			pattern: "(ab)+",
			want: []string{
				"( ------------ depth 0",
				"    a  Literal character",
				"    b  Literal character",
				") ------------ depth 0",
				"    +  One or more times",
			},
		},
		{
			name:    "alternation",
			pattern: "cat|x",
			want: []string{
				"|  OR depth 0",
				"    ( ------------ depth 1",
				"        c  Literal character",
				"        a  Literal character",
				"        t  Literal character",
				"    ) ------------ depth 1",
				"    x  Literal character",
				"| End of OR depth 0",
			},
		},
		{
			name:    "html",
			pattern: "(<)",
			markup:  HTML,
			want: []string{
				"( ------------ depth 0",
				"&nbsp;&nbsp;&nbsp;&nbsp;&lt;  Literal character",
				") ------------ depth 0",
			},
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Explain(parser.Tokenize(c.pattern), c.markup))
		})
	}
}

func TestDescribeQuantifier(t *testing.T) {
	lazy := func(q ast.Quantifier) ast.Quantifier {
		q.Lazy = true
		return q
	}

	cases := []struct {
		q    ast.Quantifier
		want string
	}{
		{lazy(ast.AtLeast(0)), "*?  Zero or more times (as few times as possible)"},
		{lazy(ast.AtLeast(1)), "+?  One or more times (as few times as possible)"},
		{lazy(ast.Range(0, 1)), "??  Zero or one time (as few times as possible)"},
		{lazy(ast.Range(2, 4)), "{2,4}?  Lazy quantifier"},
		{lazy(ast.Exactly(3)), "{3}?  Lazy quantifier"},
		{lazy(ast.AtLeast(5)), "{5,}?  Lazy quantifier"},
		{ast.AtLeast(0), "*  Zero or more times"},
		{ast.AtLeast(1), "+  One or more times"},
		{ast.Range(0, 1), "?  Zero or one time (optional)"},
		{ast.Exactly(1), "{1}  Exactly 1 time(s)"},
		{ast.AtLeast(10), "{10,}  At least 10 time(s)"},
		{ast.Range(2, 4), "{2,4}  Between 2 and 4 times"},
	}

	for _, c := range cases {
		c := c

		t.Run(c.q.String(), func(t *testing.T) {
			assert.Equal(t, c.want, describeQuantifier(c.q))
		})
	}
}

func TestExplainAtDepth(t *testing.T) {
	lines := ExplainAt([]ast.Token{ast.Literal{Value: 'a'}, ast.AtLeast(0)}, 2, PlainText)

	assert.Equal(t, []string{
		"        a  Literal character",
		"            *  Zero or more times",
	}, lines)

	assert.Equal(t, Explain([]ast.Token{ast.Literal{Value: 'a'}}, PlainText),
		ExplainAt([]ast.Token{ast.Literal{Value: 'a'}}, -1, PlainText))
}

func TestMarkersBalance(t *testing.T) {
	patterns := []string{
		"(a(b|c)d)|e",
		"((x))",
		`^(\d{3})-(\d{4})$|(foo|bar)+`,
	}

	for _, p := range patterns {
		p := p

		t.Run(p, func(t *testing.T) {
			lines := Explain(parser.Tokenize(p), PlainText)

			var stack []string
			for _, line := range lines {
				text := strings.TrimLeft(line, " ")
				indent := (len(line) - len(text)) / 4

				switch {
				case strings.HasPrefix(text, "( ------------ depth "),
					strings.HasPrefix(text, "|  OR depth "):
					assert.Equal(t, fmt.Sprint(indent), lastField(text), "marker depth matches indentation")
					stack = append(stack, lastField(text))

				case strings.HasPrefix(text, ") ------------ depth "),
					strings.HasPrefix(text, "| End of OR depth "):
					require.NotEmpty(t, stack, "closing marker without opening one")
					assert.Equal(t, stack[len(stack)-1], lastField(text))
					stack = stack[:len(stack)-1]

				default:
					if !strings.Contains(text, "time") {
						assert.Len(t, stack, indent, "child line nested inside its markers: %q", line)
					}
				}
			}

			assert.Empty(t, stack)
		})
	}
}

func lastField(s string) string {
	fields := strings.Fields(s)
	return fields[len(fields)-1]
}

func TestTooDeep(t *testing.T) {
	lines := Explain([]ast.Token{ast.TooDeep{}}, PlainText)
	assert.Equal(t, []string{tooDeepLine}, lines)

	// Hand built trees deeper than the limit stop expanding
	var tk ast.Token = ast.Literal{Value: 'a'}
	for i := 0; i < MaxDepth+5; i++ {
		tk = ast.Group{Tokens: []ast.Token{tk}}
	}

	lines = Explain([]ast.Token{tk}, PlainText)
	assert.Len(t, lines, 2*MaxDepth+1)
	assert.Equal(t, tooDeepLine, strings.TrimLeft(lines[MaxDepth], " "))
}

func TestJoin(t *testing.T) {
	lines := []string{"a", "b"}

	assert.Equal(t, "a\nb", Join(lines, PlainText))
	assert.Equal(t, "a<br>b", Join(lines, HTML))
}

func TestParseMarkup(t *testing.T) {
	m, err := ParseMarkup("HTML")
	require.NoError(t, err)
	assert.Equal(t, HTML, m)

	m, err = ParseMarkup("")
	require.NoError(t, err)
	assert.Equal(t, PlainText, m)

	_, err = ParseMarkup("markdown")
	assert.Error(t, err)
}
