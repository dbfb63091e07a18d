package main

import (
	"fmt"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
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

	var opts []fs.StoreOption
	if c.Compress {
		opts = append(opts, fs.WithCompression())
	}
	out, err := fs.NewShardStore(c.Dir, "search", c.Section, ids, opts...)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	if err := store.Preload(deps.Ctx, ids); err != nil {
		_ = out.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}
	for _, id := range ids {
		shard, err := store.Load(deps.Ctx, id)
		if err == nil {
			err = out.Save(deps.Ctx, shard)
		}
		if err != nil {
			_ = out.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
			return err
		}
	}
	if err := out.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d shards to %s\n", len(ids), c.Dir)
	return nil
}
