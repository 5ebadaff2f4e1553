package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsync/extract"
	"github.com/fwojciec/docsync/fs"
	"github.com/fwojciec/docsync/gemini"
	"github.com/fwojciec/docsync/goquery"
	"github.com/fwojciec/docsync/htmltomarkdown"
	dochttp "github.com/fwojciec/docsync/http"
	"github.com/fwojciec/docsync/reconcile"
	docslog "github.com/fwojciec/docsync/slog"
	"github.com/fwojciec/docsync/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Data directory holding the corpus, sync state, reports, and
	// run history database. Set before calling Run().
	Dir string

	// SQLite database used for the run history.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Dir: defaultDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsync"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsync --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	deps.Logger = logger

	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", m.Dir, err)
	}

	m.DB = sqlite.NewDB(filepath.Join(m.Dir, "docsync.db"))
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCSYNC_DIR to use a different data directory\n")
		return fmt.Errorf("failed to open database in %q: %w", m.Dir, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.History = sqlite.NewReportService(m.DB)
	deps.Reports = fs.NewReportStore(filepath.Join(m.Dir, "runs"))
	deps.Archive = fs.NewArchive(m.Dir, "articles")

	if cmd == "sync" || cmd == "preview" {
		baseURL := cli.Sync.BaseURL
		if cmd == "preview" {
			baseURL = cli.Preview.BaseURL
		}
		root, err := siteRoot(baseURL)
		if err != nil {
			return err
		}
		deps.Extractor = &extract.Extractor{
			Lister:    dochttp.NewHelpCenterClient(root),
			Cleaner:   goquery.NewCleaner(),
			Converter: htmltomarkdown.NewConverter(),
			Sitemaps:  dochttp.NewSitemapService(nil),
			Fetcher:   dochttp.NewFetcher(),
			Logger:    logger,
		}
	}

	if cmd == "bootstrap" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "OPENAI_API_KEY environment variable not set")
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
		deps.Provisioner = dochttp.NewVectorStoreClient(apiKey, "")
	}

	if cmd == "sync" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "OPENAI_API_KEY environment variable not set")
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
		storeID := os.Getenv("VECTOR_STORE_ID")
		if storeID == "" {
			fmt.Fprintln(stderr, "VECTOR_STORE_ID environment variable not set")
			return fmt.Errorf("VECTOR_STORE_ID not set")
		}

		// A tokenizer failure only costs the chunk estimate, never
		// the sync itself.
		var tokenCounter *gemini.TokenCounter
		if tc, err := gemini.NewTokenCounter(tokenizerModel); err != nil {
			logger.Warn("tokenizer unavailable, skipping chunk estimate", "error", err)
		} else {
			tokenCounter = tc
		}

		index := dochttp.NewVectorStoreClient(apiKey, storeID)
		states := fs.NewStateStore(filepath.Join(m.Dir, "sync_state.json"), fs.WithStateLogger(logger))

		deps.Reconciler = &reconcile.Reconciler{
			Index:        docslog.NewLoggingIndexStore(index, logger),
			States:       docslog.NewLoggingStateStore(states, logger),
			ChunkSize:    cli.Sync.ChunkSize,
			ChunkOverlap: cli.Sync.ChunkOverlap,
			Logger:       logger,
		}
		if tokenCounter != nil {
			deps.Reconciler.TokenCounter = tokenCounter
		}
	}

	if cmd == "ask" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Asker = gemini.NewAsker(client, fs.NewArchiveSource(deps.Archive.Dir()))
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for the client-side chunk estimate.
const tokenizerModel = "gemini-2.5-flash"

// siteRoot reduces a help-center base URL to its scheme and host,
// which is what the articles API client wants.
func siteRoot(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", baseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

func defaultDir() string {
	if dir := os.Getenv("DOCSYNC_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docsync"
	}
	return filepath.Join(home, ".docsync")
}
