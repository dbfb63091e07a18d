package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsearch"
	dshttp "github.com/fwojciec/docsearch/http"
	dsslog "github.com/fwojciec/docsearch/slog"
	"github.com/fwojciec/docsearch/sqlite"
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
	// Database path. Set before calling Run().
	DBPath string

	// Input for the repl command.
	Stdin io.Reader

	// Object storage settings for s3:// sources.
	S3 S3Config

	// SQLite database used by SQLite service implementations.
	// Only opened for commands that need it.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
		S3: S3Config{
			Endpoint:  os.Getenv("DOCSEARCH_S3_ENDPOINT"),
			AccessKey: os.Getenv("DOCSEARCH_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("DOCSEARCH_S3_SECRET_KEY"),
			Insecure:  os.Getenv("DOCSEARCH_S3_INSECURE") != "",
		},
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
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsearch"),
		kong.Description("Search Doxygen documentation indexes from the command line"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsearch --help' to see available commands")
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

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var limiter *dshttp.HostLimiter
	if cli.RateLimit > 0 {
		limiter = dshttp.NewHostLimiter(cli.RateLimit)
	}
	delays := dshttp.DefaultRetryDelays()
	delays = delays[:min(max(cli.Retries, 0), len(delays))]

	resolver := &Resolver{
		Logger: deps.Logger,
		HTTPOptions: []dshttp.Option{
			dshttp.WithTimeout(cli.Timeout),
			dshttp.WithLimiter(limiter),
			dshttp.WithRetry(delays...),
			dshttp.WithLogger(deps.Logger),
		},
		S3: m.S3,
	}
	deps.Sources = resolver

	if needsDB(kongCtx.Command(), args) {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOCSEARCH_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		var shards docsearch.ShardRepository = sqlite.NewShardService(m.DB)
		shards = dsslog.NewLoggingShardRepository(shards, deps.Logger)
		deps.Collections = sqlite.NewCollectionService(m.DB)
		deps.Shards = shards
		resolver.Collections = deps.Collections
		resolver.Shards = shards
	}

	return kongCtx.Run(deps)
}

// needsDB reports whether the parsed command reads or writes the database.
func needsDB(command string, args []string) bool {
	if fields := strings.Fields(command); len(fields) > 0 {
		switch fields[0] {
		case "import", "collections", "delete":
			return true
		}
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, sqliteScheme) {
			return true
		}
	}
	return false
}

func defaultDBPath() string {
	if path := os.Getenv("DOCSEARCH_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docsearch.db"
	}
	dir := filepath.Join(home, ".docsearch")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docsearch.db")
}
