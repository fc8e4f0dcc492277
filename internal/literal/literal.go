// Package literal turns string literals captured from source code into the
// pattern text a regex engine would see.
package literal

import (
	"strings"
)

var unescapes = map[rune]struct{}{
	'^': {}, '$': {}, '.': {}, '*': {}, '+': {}, '?': {},
	'[': {}, ']': {}, '(': {}, ')': {}, '{': {}, '}': {},
	'|': {}, '\\': {},
}

var heuristics = []string{
	`\d`,
	`\w`,
	`\s`,
	".*",
	"]{",
	")[",
}

// StripAndUnescape removes host language string delimiters from raw. Raw
// strings (r"..", r'..') and slash literals (/../) are returned as is,
// everything else has its doubled metacharacter escapes collapsed.
func StripAndUnescape(raw string) string {
	stripped, escaped := stripDelimiters(raw)
	if !escaped {
		return stripped
	}

	return Unescape(stripped)
}

// Unescape replaces each `\x` where x is a regex metacharacter or a
// backslash with x itself.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' && i+1 < len(rs) {
			if _, ok := unescapes[rs[i+1]]; ok {
				b.WriteRune(rs[i+1])
				i++
				continue
			}
		}

		b.WriteRune(rs[i])
	}

	return b.String()
}

// LooksLikePattern is a cheap guess at whether text is a regex. It is meant
// to gate parsing, false positives are expected.
func LooksLikePattern(text string) bool {
	for _, h := range heuristics {
		if strings.Contains(text, h) {
			return true
		}
	}

	return strings.HasPrefix(text, "^") || strings.HasSuffix(text, "$")
}

func stripDelimiters(s string) (stripped string, escaped bool) {
	switch {
	case enclosed(s, `r"`, `"`), enclosed(s, "r'", "'"):
		return s[2 : len(s)-1], false

	case enclosed(s, "/", "/"):
		return s[1 : len(s)-1], false

	case enclosed(s, `"`, `"`), enclosed(s, "'", "'"), enclosed(s, "`", "`"):
		return s[1 : len(s)-1], true
	}

	return s, true
}

func enclosed(s, prefix, suffix string) bool {
	return len(s) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(s, prefix) &&
		strings.HasSuffix(s, suffix)
}
