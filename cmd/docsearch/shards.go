package main

import (
	"fmt"

	"github.com/fwojciec/docsearch"
)

// Run executes the shards command.
func (c *ShardsCmd) Run(deps *Dependencies) error {
	res, store, _, err := open(deps, c.Source, c.Section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	ids, err := res.Source.ShardIDs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(deps.Stdout, "No shards found.")
		return nil
	}

	if !c.Load {
		for _, id := range ids {
			fmt.Fprintln(deps.Stdout, id)
		}
		return nil
	}

	if err := store.Preload(deps.Ctx, ids); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", docsearch.ErrorMessage(err))
	}
	for _, id := range ids {
		entries := 0
		if store.State(id) == docsearch.Loaded {
			if shard, err := store.Load(deps.Ctx, id); err == nil {
				entries = shard.Len()
			}
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d\n", id, store.State(id), entries)
	}
	return nil
}
