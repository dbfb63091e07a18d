package main

import (
	"fmt"

	"github.com/fwojciec/docsearch"
)

// Run executes the collections command.
func (c *CollectionsCmd) Run(deps *Dependencies) error {
	collections, err := deps.Collections.FindCollections(deps.Ctx, docsearch.CollectionFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	if len(collections) == 0 {
		fmt.Fprintln(deps.Stdout, "No collections found. Use 'docsearch import' to create one.")
		return nil
	}

	for _, col := range collections {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", col.ID, col.Name, col.Source, col.Section)
	}

	return nil
}
