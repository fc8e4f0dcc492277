package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `package main

var phone = "\\d{3}-\\d{4}"
var greeting = "hello"
var trim = regexp.MustCompile(` + "`^\\s+|\\s+$`" + `)
`

func TestMatches(t *testing.T) {
	matches := Matches(source)
	require.Len(t, matches, 2)

	assert.Equal(t, 2, matches[0].Line)
	assert.Equal(t, `"\\d{3}-\\d{4}"`, matches[0].Raw)
	assert.Equal(t, `\d{3}-\d{4}`, matches[0].Pattern())

	assert.Equal(t, 4, matches[1].Line)
	assert.Equal(t, "`^\\s+|\\s+$`", matches[1].Raw)
}

func TestDocuments(t *testing.T) {
	ws := New(".")
	uri := "file:///tmp/main.go"

	_, ok := ws.Get(uri)
	assert.False(t, ok)

	assert.False(t, ws.Update(uri, func(string) string { return "x" }), "update of unopened document")

	ws.Open(uri, source)

	m, ok := ws.PatternAt(uri, 2, 15)
	require.True(t, ok)
	assert.Equal(t, `"\\d{3}-\\d{4}"`, m.Raw)

	// Plain strings are literals but not patterns
	_, ok = ws.PatternAt(uri, 3, 17)
	assert.False(t, ok)

	m, ok = ws.LiteralAt(uri, 3, 17)
	require.True(t, ok)
	assert.Equal(t, `"hello"`, m.Raw)

	_, ok = ws.LiteralAt(uri, 99, 0)
	assert.False(t, ok)

	assert.True(t, ws.Update(uri, func(old string) string {
		return "x := \"a.*b\"\r\n"
	}))

	m, ok = ws.PatternAt(uri, 0, 6)
	require.True(t, ok)
	assert.Equal(t, `"a.*b"`, m.Raw)

	ws.Close(uri)
	_, ok = ws.Get(uri)
	assert.False(t, ok)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(source), 0o644))

	ws := New(dir)

	matches, err := ws.Scan("main.go")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = ws.Scan("missing.go")
	assert.Error(t, err)
}

func TestLine(t *testing.T) {
	ws := New(".")
	uri := "file:///tmp/lines.go"
	ws.Open(uri, "one\r\ntwo\n")

	l, ok := ws.Line(uri, 0)
	require.True(t, ok)
	assert.Equal(t, "one", l)

	l, ok = ws.Line(uri, 2)
	require.True(t, ok)
	assert.Empty(t, l)

	_, ok = ws.Line(uri, 3)
	assert.False(t, ok)

	_, ok = ws.Line("file:///tmp/missing.go", 0)
	assert.False(t, ok)
}
