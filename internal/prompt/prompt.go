// Package prompt builds the request sent to a text generation service to
// get a richer description of a pattern.
package prompt

import (
	"strings"
	"unicode/utf8"
)

const System = "You are a helpful assistant that always responds in a friendly way."

// Build embeds pattern and its plain text breakdown into a request for a
// short natural language explanation.
func Build(pattern string, breakdown []string) string {
	var b strings.Builder

	b.WriteString("Explain this regular expression in detail:\n")
	b.WriteString("Regex: " + pattern + "\n")
	b.WriteString("\n")
	b.WriteString("Basic breakdown:\n")
	for _, line := range breakdown {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString("Please provide a short explanation of its intent, including:\n")
	b.WriteString("- What this regex matches\n")
	b.WriteString("- Real-world use cases\n")
	b.WriteString("- Potential problems if any\n")
	b.WriteString("IMPORTANT: format the answer in plain text, short and concise. " +
		"No markdown. Under 150 words. Do not repeat the question.\n")

	return b.String()
}

// BuildCode asks for an explanation of a snippet of source code.
func BuildCode(code string) string {
	var b strings.Builder

	b.WriteString("Explain the following code in detail:\n")
	b.WriteString("\n")
	b.WriteString("```\n")
	b.WriteString(code + "\n")
	b.WriteString("```\n")
	b.WriteString("\n")
	b.WriteString("Please provide a clear explanation including:\n")
	b.WriteString("- What this code does (main purpose)\n")
	b.WriteString("- Key logic and important details\n")
	b.WriteString("- Any potential issues or improvements\n")
	b.WriteString("\n")
	b.WriteString("IMPORTANT: Format the answer in plain text (no markdown). " +
		"Keep it concise and clear, under 200 words.\n")
	b.WriteString("Don't echo back the code, just provide the explanation directly.\n")

	return b.String()
}

// MaxDiffChars is how much of a diff is sent along with BuildDiff.
const MaxDiffChars = 60_000

const truncatedMarker = "\n\n...[truncated]..."

// TruncateDiff keeps the first limit characters of diff, marking the cut.
func TruncateDiff(diff string, limit int) string {
	if utf8.RuneCountInString(diff) <= limit {
		return diff
	}

	return string([]rune(diff)[:limit]) + truncatedMarker
}

// BuildDiff asks for a high level summary of the changes between two
// revisions. diff should already be truncated.
func BuildDiff(from, to, diff string) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant. Explain the following git diff in plain text, " +
		"focusing on intent, high-level summary, and potential risks only if they are very likely. " +
		"Be extremely concise (<= 200 words).\n")
	b.WriteString("IMPORTANT: do not analyze line-by-line, do not repeat the diff, " +
		"and avoid mentioning binary file changes.\n")
	b.WriteString("\n")
	b.WriteString("Diff between " + from + " and " + to + ":\n")
	b.WriteString("\n")
	b.WriteString(diff + "\n")

	return b.String()
}
