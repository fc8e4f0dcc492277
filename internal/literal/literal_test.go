package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAndUnescape(t *testing.T) {
	cases := []struct {
		name, raw, want string
	}{
		{"python raw double", `r"\d+\.\d+"`, `\d+\.\d+`},
		{"python raw single", `r'\\d'`, `\\d`},
		{"slash literal", `/^a\/b$/`, `^a\/b$`},
		{"double quoted", `"\\d\\.\\("`, `\d\.\(`},
		{"single quoted", `'a\\|b'`, `a\|b`},
		{"backtick", "`\\\\s+`", `\s+`},
		{"unquoted", `\\w\.`, `\w.`},
		{"escaped metacharacters", `\^\$\.\*\+\?\[\]\(\)\{\}\|`, `^$.*+?[](){}|`},
		{"other escapes untouched", `\d\n\t`, `\d\n\t`},
		{"lone quote", `"`, `"`},
		{"lone slash", `/`, `/`},
		{"empty quotes", `""`, ``},
		{"mismatched quotes", `"abc'`, `"abc'`},
		{"non ascii", `"ünï\\.cödé"`, `ünï\.cödé`},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, StripAndUnescape(c.raw))
		})
	}
}

func TestUnescapeNoop(t *testing.T) {
	for _, s := range []string{"abc", `\d{3}`, "", "[a-z]+$"} {
		assert.Equal(t, s, Unescape(s))
		assert.Equal(t, Unescape(s), Unescape(Unescape(s)))
	}
}

func TestLooksLikePattern(t *testing.T) {
	yes := []string{`\d+`, `\w`, `a\sb`, "a.*b", "[0-9]{2}", "(a)[b]", "^foo", "bar$"}
	no := []string{"hello world", "", "a.b", "100%", "[]"}

	for _, s := range yes {
		assert.True(t, LooksLikePattern(s), s)
	}
	for _, s := range no {
		assert.False(t, LooksLikePattern(s), s)
	}
}

func TestFindAll(t *testing.T) {
	line := `val re = Regex("\\d+") + 'x' + r"raw" # /a+/`

	cands := FindAll(line)
	require.Len(t, cands, 4)

	assert.Equal(t, `"\\d+"`, cands[0].Raw)
	assert.Equal(t, 15, cands[0].Start)
	assert.Equal(t, 21, cands[0].End)
	assert.Equal(t, `\d+`, cands[0].Pattern())

	assert.Equal(t, `'x'`, cands[1].Raw)
	assert.Equal(t, `r"raw"`, cands[2].Raw)
	assert.Equal(t, `/a+/`, cands[3].Raw)
	assert.Equal(t, `a+`, cands[3].Pattern())
}

func TestFindEscapedQuote(t *testing.T) {
	cands := FindAll(`x = "a\"b" + "c"`)
	require.Len(t, cands, 2)

	assert.Equal(t, `"a\"b"`, cands[0].Raw)
	assert.Equal(t, `"c"`, cands[1].Raw)
}

func TestFind(t *testing.T) {
	line := `p := "^ü+$"; q := "x"`

	c, ok := Find(line, 7)
	require.True(t, ok)
	assert.Equal(t, `"^ü+$"`, c.Raw)

	// Columns count runes, the closing position is still covered
	c, ok = Find(line, 11)
	require.True(t, ok)
	assert.Equal(t, 5, c.Start)
	assert.Equal(t, 11, c.End)

	_, ok = Find(line, 1)
	assert.False(t, ok)
}
