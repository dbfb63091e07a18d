package main

import (
	"bufio"
	"fmt"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/search"
)

// Run executes the repl command. Every line read from stdin replaces the
// current input; results are printed once the input settles.
func (c *ReplCmd) Run(deps *Dependencies) error {
	res, store, router, err := open(deps, c.Source, c.Section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	session := search.NewSession(store, NewTextRenderer(deps.Stdout, res.Base),
		search.WithDebounce(c.Debounce),
		search.WithRouter(router),
		search.WithLogger(deps.logger()),
	)
	defer session.Close()

	scanner := bufio.NewScanner(deps.Stdin)
	for scanner.Scan() {
		session.Input(scanner.Text())
	}
	session.Flush()

	printDiagnostics(deps, session.Diagnostics())
	return scanner.Err()
}
