package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pipe01/regins/internal/literal"
)

// Match is a string literal that looks like a pattern.
type Match struct {
	literal.Candidate

	// 0-based
	Line int
}

type Workspace struct {
	rootPath string

	mu        sync.RWMutex
	documents map[string]string
}

func New(rootPath string) *Workspace {
	return &Workspace{
		rootPath:  rootPath,
		documents: make(map[string]string),
	}
}

// Open starts tracking the in-editor contents of a document.
func (w *Workspace) Open(uri, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.documents[uri] = text
}

// Update replaces the contents of an open document. It reports false if the
// document was never opened.
func (w *Workspace) Update(uri string, apply func(old string) string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	old, ok := w.documents[uri]
	if !ok {
		return false
	}

	w.documents[uri] = apply(old)
	return true
}

func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.documents, uri)
}

func (w *Workspace) Get(uri string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	text, ok := w.documents[uri]
	return text, ok
}

// Line returns a single line of an open document, without its line break.
func (w *Workspace) Line(uri string, line int) (string, bool) {
	text, ok := w.Get(uri)
	if !ok {
		return "", false
	}

	lines := splitLines(text)
	if line < 0 || line >= len(lines) {
		return "", false
	}

	return lines[line], true
}

// LiteralAt returns the string literal under the cursor in an open
// document, whether or not it looks like a pattern.
func (w *Workspace) LiteralAt(uri string, line, col int) (Match, bool) {
	text, ok := w.Line(uri, line)
	if !ok {
		return Match{}, false
	}

	cand, ok := literal.Find(text, col)
	if !ok {
		return Match{}, false
	}

	return Match{Candidate: cand, Line: line}, true
}

// PatternAt is LiteralAt restricted to literals that look like patterns.
func (w *Workspace) PatternAt(uri string, line, col int) (Match, bool) {
	m, ok := w.LiteralAt(uri, line, col)
	if !ok || !literal.LooksLikePattern(m.Pattern()) {
		return Match{}, false
	}

	return m, true
}

// Scan reads a file relative to the workspace root and returns the pattern
// literals found in it.
func (w *Workspace) Scan(relPath string) ([]Match, error) {
	fullPath := relPath
	if !filepath.IsAbs(relPath) {
		fullPath = filepath.Join(w.rootPath, relPath)
	}

	bytes, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return Matches(string(bytes)), nil
}

// Matches returns every pattern literal in text, in order.
func Matches(text string) []Match {
	var matches []Match

	for i, line := range splitLines(text) {
		for _, cand := range literal.FindAll(line) {
			if literal.LooksLikePattern(cand.Pattern()) {
				matches = append(matches, Match{Candidate: cand, Line: i})
			}
		}
	}

	return matches
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}
