package main

import (
	gocontext "context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pipe01/regins/internal/config"
	"github.com/pipe01/regins/internal/explain"
	"github.com/pipe01/regins/internal/literal"
	"github.com/pipe01/regins/internal/openai"
	"github.com/pipe01/regins/internal/parser"
	"github.com/pipe01/regins/internal/prompt"
	"github.com/pipe01/regins/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const (
	lsName = "regins"

	commandExplainWithAI     = "regins.explainWithAI"
	commandExplainCodeWithAI = "regins.explainCodeWithAI"
)

var (
	verbosity  = kingpin.Flag("verbose", "Logging verbosity").Short('v').Default("1").Int()
	configPath = kingpin.Flag("config", "Path to the configuration file").Default(config.DefaultPath).String()
)

var version string = "0.0.1"
var handler protocol.Handler

var (
	log = commonlog.GetLogger("regins.lsp")

	ws = workspace.New(".")
	ai *openai.Client
)

func main() {
	kingpin.Parse()

	commonlog.Configure(*verbosity, nil)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warningf("using default configuration: %s", err)
		cfg = config.Default()
	}
	ai = openai.New(cfg.OpenAI)

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			ws.Open(params.TextDocument.URI, params.TextDocument.Text)
			return nil
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			ws.Update(params.TextDocument.URI, func(content string) string {
				return applyChanges(content, params.ContentChanges)
			})
			return nil
		},
		TextDocumentDidClose: func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
			ws.Close(params.TextDocument.URI)
			return nil
		},
		TextDocumentHover:       hover,
		WorkspaceExecuteCommand: executeCommand,
	}

	server := server.NewServer(&handler, lsName, false)

	if err := server.RunStdio(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyChanges(content string, changes []any) string {
	for _, change := range changes {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = change.Text

		case protocol.TextDocumentContentChangeEvent:
			startIndex, endIndex := change.Range.IndexesIn(content)
			content = content[:startIndex] + change.Text + content[endIndex:]
		}
	}

	return content
}

func hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	line := int(params.Position.Line)

	text, ok := ws.Line(uri, line)
	if !ok {
		return nil, nil
	}

	m, ok := ws.PatternAt(uri, line, runeColumn(text, params.Position.Character))
	if !ok {
		return nil, nil
	}

	lines := explain.Explain(parser.Tokenize(m.Raw), explain.PlainText)

	var b strings.Builder
	b.WriteString("**Regex explanation**\n\n```\n")
	b.WriteString(explain.Join(lines, explain.PlainText))
	b.WriteString("\n```\n")

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &protocol.Range{
			Start: pos(m.Line, utf16Column(text, m.Start)),
			End:   pos(m.Line, utf16Column(text, m.End)),
		},
	}, nil
}

func executeCommand(context *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	switch params.Command {
	case commandExplainWithAI:
		return explainWithAI(context, params.Arguments)
	case commandExplainCodeWithAI:
		return explainCodeWithAI(context, params.Arguments)
	}

	return nil, fmt.Errorf("unknown command %q", params.Command)
}

// explainWithAI takes (uri, line, character) and an optional selection
// range. It returns the breakdown right away and pushes the AI answer as a
// message once it arrives.
func explainWithAI(context *glsp.Context, args []any) (any, error) {
	target, err := regexArgs(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", commandExplainWithAI, err)
	}

	pattern, ok := target.pattern()
	if !ok {
		return nil, nil
	}

	lines := explain.Explain(parser.TokenizeCanonical(pattern), explain.PlainText)

	askInBackground(context, pattern, prompt.Build(pattern, lines))

	return lines, nil
}

// explainCodeWithAI takes (uri, range) and asks for an explanation of the
// selected code.
func explainCodeWithAI(context *glsp.Context, args []any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", commandExplainCodeWithAI, len(args))
	}

	uri, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%s: expected document uri, found %v", commandExplainCodeWithAI, args[0])
	}

	var rng protocol.Range
	if err := decodeArg(args[1], &rng); err != nil {
		return nil, fmt.Errorf("%s: selection: %w", commandExplainCodeWithAI, err)
	}

	code, ok := selectedText(uri, rng)
	if !ok {
		return nil, fmt.Errorf("%s: nothing selected", commandExplainCodeWithAI)
	}

	askInBackground(context, "Code:\n"+code, prompt.BuildCode(code))

	return nil, nil
}

// The editor is not blocked on the answer, it is pushed once available
func askInBackground(context *glsp.Context, title, userPrompt string) {
	go func() {
		answer, err := ai.Ask(gocontext.Background(), userPrompt)
		if err != nil {
			log.Errorf("AI explanation for %q: %s", title, err)
			answer = "Error: " + err.Error()
		}

		context.Notify(protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{
			Type:    protocol.MessageTypeInfo,
			Message: title + "\n" + answer,
		})
	}()
}

type regexTarget struct {
	URI       string
	Position  protocol.Position
	Selection *protocol.Range
}

// pattern is the non-blank selection if there is one, otherwise the
// literal under the cursor. Either way it is stripped and unescaped.
func (t regexTarget) pattern() (string, bool) {
	if t.Selection != nil {
		if sel, ok := selectedText(t.URI, *t.Selection); ok {
			return literal.StripAndUnescape(sel), true
		}
	}

	line := int(t.Position.Line)

	text, ok := ws.Line(t.URI, line)
	if !ok {
		return "", false
	}

	m, ok := ws.LiteralAt(t.URI, line, runeColumn(text, t.Position.Character))
	if !ok {
		return "", false
	}

	return m.Pattern(), true
}

func regexArgs(args []any) (regexTarget, error) {
	if len(args) != 3 && len(args) != 4 {
		return regexTarget{}, fmt.Errorf("expected 3 or 4 arguments, got %d", len(args))
	}

	uri, ok := args[0].(string)
	if !ok {
		return regexTarget{}, fmt.Errorf("expected document uri, found %v", args[0])
	}

	// JSON numbers arrive as float64
	l, okLine := args[1].(float64)
	c, okCol := args[2].(float64)
	if !okLine || !okCol || l < 0 || c < 0 {
		return regexTarget{}, fmt.Errorf("expected line and character, found %v and %v", args[1], args[2])
	}

	target := regexTarget{
		URI:      uri,
		Position: pos(int(l), int(c)),
	}

	if len(args) == 4 && args[3] != nil {
		var rng protocol.Range
		if err := decodeArg(args[3], &rng); err != nil {
			return regexTarget{}, fmt.Errorf("selection: %w", err)
		}
		target.Selection = &rng
	}

	return target, nil
}

// decodeArg converts a generically decoded JSON argument into v.
func decodeArg(arg any, v any) error {
	b, err := json.Marshal(arg)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

// selectedText returns the text covered by rng in an open document, if it
// is not blank.
func selectedText(uri string, rng protocol.Range) (string, bool) {
	text, ok := ws.Get(uri)
	if !ok {
		return "", false
	}

	start, end := rng.IndexesIn(text)
	if end < start {
		start, end = end, start
	}

	sel := text[start:end]
	if strings.TrimSpace(sel) == "" {
		return "", false
	}

	return sel, true
}

// runeColumn converts an LSP character offset, counted in UTF-16 code
// units, to a rune offset within line.
func runeColumn(line string, character protocol.UInteger) int {
	// The trailing newline makes offsets past the end clamp to the line length
	idx := protocol.Position{Character: character}.IndexIn(line + "\n")

	return utf8.RuneCountInString(line[:idx])
}

// utf16Column is the inverse of runeColumn.
func utf16Column(line string, col int) int {
	units := 0

	for i, r := range []rune(line) {
		if i >= col {
			break
		}

		units++
		if r >= 0x10000 {
			units++
		}
	}

	return units
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{commandExplainWithAI, commandExplainCodeWithAI},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func pos(line, col int) protocol.Position {
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(col),
	}
}
