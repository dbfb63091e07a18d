package main

import (
	"fmt"

	"github.com/fwojciec/docsearch"
)

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	res, store, router, err := open(deps, c.Source, c.Section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	key := docsearch.Normalize(c.Key)
	if key == "" {
		fmt.Fprintln(deps.Stderr, "error: key is empty after normalization")
		return docsearch.Errorf(docsearch.EINVALID, "empty key")
	}

	entries, err := store.Lookup(deps.Ctx, router.ShardsFor(key), key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", docsearch.ErrorMessage(err))
	}
	if len(entries) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no entries for key %q\n", key)
		return docsearch.Errorf(docsearch.ENOTFOUND, "no entries for key %q", key)
	}

	NewTextRenderer(deps.Stdout, res.Base).Render(entries, c.Key)
	return nil
}
