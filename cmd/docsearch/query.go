package main

import (
	"fmt"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/search"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	res, store, router, err := open(deps, c.Source, c.Section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	text := NewTextRenderer(deps.Stdout, res.Base)
	var last struct {
		results []docsearch.Entry
		query   string
	}
	renderer := docsearch.RenderFunc(func(results []docsearch.Entry, query string) {
		if c.All {
			fmt.Fprintf(deps.Stdout, "> %s\n", query)
			text.Render(results, query)
			return
		}
		last.results, last.query = results, query
	})

	session := search.NewSession(store, renderer,
		search.WithDebounce(0),
		search.WithRouter(router),
		search.WithLogger(deps.logger()),
	)
	defer session.Close()

	for _, t := range c.Text {
		session.Input(t)
		session.Flush()
	}
	if !c.All {
		text.Render(last.results, last.query)
	}

	printDiagnostics(deps, session.Diagnostics())
	return nil
}

// printDiagnostics reports shards that could not be searched.
func printDiagnostics(deps *Dependencies, diags []error) {
	for _, err := range diags {
		fmt.Fprintf(deps.Stderr, "warning: shard %q skipped: %s\n", docsearch.ErrorShard(err), docsearch.ErrorMessage(err))
	}
}
