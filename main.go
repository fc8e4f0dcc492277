package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/pipe01/regins/internal/config"
	"github.com/pipe01/regins/internal/explain"
	"github.com/pipe01/regins/internal/literal"
	"github.com/pipe01/regins/internal/openai"
	"github.com/pipe01/regins/internal/parser"
	"github.com/pipe01/regins/internal/parser/ast"
	"github.com/pipe01/regins/internal/prompt"
	"github.com/pipe01/regins/internal/workspace"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	app = kingpin.New("regins", "Explain regular expressions found in source code")

	configPath = app.Flag("config", "Path to the configuration file").Default(config.DefaultPath).String()
	noColor    = app.Flag("no-color", "Disable colored output").Bool()
	verbosity  = app.Flag("verbose", "Logging verbosity").Short('v').Default("0").Int()

	explainCmd          = app.Command("explain", "Explain a single pattern")
	explainPattern      = explainCmd.Arg("pattern", "Pattern, optionally still quoted as a string literal").Required().String()
	explainHTML         = explainCmd.Flag("html", "Render the breakdown as HTML").Bool()
	explainAI           = explainCmd.Flag("ai", "Also ask the configured AI service for an explanation").Bool()
	explainSkipUnescape = explainCmd.Flag("skip-unescape", "Treat the pattern as canonical, don't strip or unescape it").Bool()

	scanCmd   = app.Command("scan", "Explain every pattern literal found in files")
	scanWatch = scanCmd.Flag("watch", "Watch files for changes and explain them again").Short('w').Bool()
	scanFiles = scanCmd.Arg("files", "List of files to scan").Required().ExistingFiles()

	diffCmd  = app.Command("diff", "Ask the configured AI service to summarize the changes between two revisions")
	diffFrom = diffCmd.Arg("from", "Base revision").Required().String()
	diffTo   = diffCmd.Arg("to", "Target revision").Required().String()
	diffDir  = diffCmd.Flag("dir", "Repository directory").Default(".").ExistingDir()

	initCmd = app.Command("init", "Write a starter configuration file")
)

var log = commonlog.GetLogger("regins")

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	patternStyle = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgBlue, color.Bold)
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	commonlog.Configure(*verbosity, nil)
	if *noColor {
		color.NoColor = true
	}

	var err error

	switch cmd {
	case explainCmd.FullCommand():
		err = runExplain()
	case scanCmd.FullCommand():
		err = runScan()
	case diffCmd.FullCommand():
		err = runDiff()
	case initCmd.FullCommand():
		err = runInit()
	}

	if err != nil {
		app.Fatalf("%s", err)
	}
}

func loadConfig() config.Config {
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warningf("using default configuration: %s", err)
		return config.Default()
	}

	return cfg
}

func runExplain() error {
	cfg := loadConfig()

	markup, err := explainMarkup(cfg, *explainHTML)
	if err != nil {
		return err
	}

	pattern := *explainPattern
	if !*explainSkipUnescape {
		pattern = literal.StripAndUnescape(pattern)
	}
	tokens := parser.TokenizeCanonical(pattern)

	patternStyle.Println(pattern)
	headerStyle.Println("======= Regex Pattern Illustration =======")
	fmt.Println(explain.Join(explain.Explain(tokens, markup), markup))

	if !*explainAI {
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return printAIExplanation(ctx, cfg, pattern, tokens)
}

// explainMarkup picks the output markup. The --html flag wins over the
// configuration, which is not even looked at then.
func explainMarkup(cfg config.Config, html bool) (explain.Markup, error) {
	if html {
		return explain.HTML, nil
	}

	return explain.ParseMarkup(cfg.Markup)
}

func printAIExplanation(ctx context.Context, cfg config.Config, pattern string, tokens []ast.Token) error {
	client := openai.New(cfg.OpenAI)

	// The prompt always gets the plain text breakdown
	lines := explain.Explain(tokens, explain.PlainText)

	answer, err := client.Ask(ctx, prompt.Build(pattern, lines))
	if err != nil {
		return fmt.Errorf("ask for AI explanation: %w", err)
	}

	fmt.Println()
	headerStyle.Println("========= AI-Powered Explanation =========")
	fmt.Println(answer)
	return nil
}

func runScan() error {
	ws := workspace.New(".")

	for _, fname := range *scanFiles {
		if err := scanFile(ws, fname); err != nil {
			return err
		}
	}

	if *scanWatch {
		if err := watchFiles(); err != nil {
			return fmt.Errorf("failed to watch files: %w", err)
		}
	}

	return nil
}

func scanFile(ws *workspace.Workspace, fname string) error {
	matches, err := ws.Scan(fname)
	if err != nil {
		return fmt.Errorf("scan file %q: %w", fname, err)
	}

	for _, m := range matches {
		fileStyle.Printf("%s:%d:%d ", fname, m.Line+1, m.Start+1)
		patternStyle.Println(m.Raw)
		fmt.Println(explain.Join(explain.ExplainAt(parser.Tokenize(m.Raw), 1, explain.PlainText), explain.PlainText))
	}

	log.Debugf("found %d patterns in %q", len(matches), fname)
	return nil
}

func runDiff() error {
	cfg := loadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	from, to := strings.TrimSpace(*diffFrom), strings.TrimSpace(*diffTo)

	diff, err := gitDiff(ctx, *diffDir, from, to)
	if err != nil {
		return err
	}
	diff = prompt.TruncateDiff(diff, prompt.MaxDiffChars)

	headerStyle.Printf("Diff: %s -> %s\n", from, to)
	headerStyle.Println("========= AI-Powered Explanation =========")

	answer, err := openai.New(cfg.OpenAI).Ask(ctx, prompt.BuildDiff(from, to, diff))
	if err != nil {
		return fmt.Errorf("ask for AI explanation: %w", err)
	}

	fmt.Println(answer)
	fmt.Println()
	fmt.Printf("(Diff truncated to %d chars)\n", utf8.RuneCountInString(diff))
	return nil
}

func gitDiff(ctx context.Context, dir, from, to string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", from, to)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git diff %s %s: %w: %s", from, to, err, strings.TrimSpace(string(out)))
	}

	return string(out), nil
}

func runInit() error {
	if err := config.Write(*configPath, config.Default()); err != nil {
		return err
	}

	fmt.Printf("Configuration file created/updated: %s\n", *configPath)
	return nil
}

func watchFiles() error {
	watcher, err := NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range *scanFiles {
		err = watcher.WatchFile(f)
		if err != nil {
			return fmt.Errorf("watch file %q: %w", f, err)
		}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Notice("watching files for changes...")

	<-ch
	return nil
}
