package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/search"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Sources     SourceResolver
	Collections docsearch.CollectionService
	Shards      docsearch.ShardRepository
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" help:"Log shard fetches and renders to stderr"`
	Timeout   time.Duration `default:"10s" help:"Timeout for a single HTTP request"`
	RateLimit float64       `name:"rate-limit" default:"0" help:"Maximum HTTP requests per second per host (0 disables)"`
	Retries   int           `default:"3" help:"Retries for transient HTTP failures (at most 3)"`

	Query       QueryCmd       `cmd:"" help:"Run one or more queries against a search index"`
	Repl        ReplCmd        `cmd:"" help:"Search interactively, one input change per line"`
	Lookup      LookupCmd      `cmd:"" help:"Find the entries stored under an exact key"`
	Shards      ShardsCmd      `cmd:"" help:"List the shards of a search index"`
	Import      ImportCmd      `cmd:"" help:"Copy a search index into the database"`
	Export      ExportCmd      `cmd:"" help:"Write a search index as a Doxygen search directory"`
	Collections CollectionsCmd `cmd:"" help:"List imported collections"`
	Delete      DeleteCmd      `cmd:"" help:"Delete an imported collection"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Source  string   `arg:"" help:"Search index: URL, s3://bucket/prefix, sqlite:<collection>, searchdata.xml, or directory"`
	Text    []string `arg:"" help:"Query text; several values are typed in sequence"`
	Section string   `short:"s" default:"all" help:"Index section to search"`
	All     bool     `short:"a" help:"Print the results of every query, not only the last"`
}

// ReplCmd is the "repl" subcommand.
type ReplCmd struct {
	Source   string        `arg:"" help:"Search index"`
	Section  string        `short:"s" default:"all" help:"Index section to search"`
	Debounce time.Duration `default:"500ms" help:"Delay between an input change and the search"`
}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	Source  string `arg:"" help:"Search index"`
	Key     string `arg:"" help:"Symbol name; normalized before the lookup"`
	Section string `short:"s" default:"all" help:"Index section to search"`
}

// ShardsCmd is the "shards" subcommand.
type ShardsCmd struct {
	Source  string `arg:"" help:"Search index"`
	Section string `short:"s" default:"all" help:"Index section to list"`
	Load    bool   `short:"l" help:"Load every shard and report its state"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Source      string `arg:"" help:"Search index"`
	Name        string `arg:"" help:"Collection name"`
	Section     string `short:"s" default:"all" help:"Index section to import"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent shard loads"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Source   string `arg:"" help:"Search index"`
	Dir      string `arg:"" help:"Output directory; the index is written to <dir>/search"`
	Section  string `short:"s" default:"all" help:"Index section to export"`
	Compress bool   `short:"z" help:"Write zstd-compressed shard files"`
}

// CollectionsCmd is the "collections" subcommand.
type CollectionsCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Collection name"`
	Force bool   `help:"Confirm deletion"`
}

// open resolves source and prepares a store and router for it.
func open(deps *Dependencies, source, section string) (*Resolved, *search.Store, docsearch.ShardRouter, error) {
	res, err := deps.Sources.Resolve(deps.Ctx, source, section)
	if err != nil {
		return nil, nil, nil, err
	}
	store := search.NewStore(res.Source, search.WithStoreLogger(deps.logger()))
	return res, store, router(deps, res.Source), nil
}

// router routes by the source's shard listing, falling back to the first
// character of the query when the listing is unavailable.
func router(deps *Dependencies, source docsearch.ShardSource) docsearch.ShardRouter {
	ids, err := source.ShardIDs(deps.Ctx)
	if err != nil || len(ids) == 0 {
		deps.logger().Warn("shard listing unavailable, routing by first character", "err", err)
		return docsearch.FirstCharRouter{}
	}
	return docsearch.NewRouter(ids)
}
