package main

import (
	"fmt"
	"sync/atomic"

	"github.com/fwojciec/docsearch"
	"golang.org/x/sync/errgroup"
)

// Run executes the import command. Importing into an existing collection
// replaces its changed shards and leaves unchanged ones alone.
func (c *ImportCmd) Run(deps *Dependencies) error {
	collection, err := c.collection(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

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

	var saved, unchanged atomic.Int64
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for _, id := range ids {
		g.Go(func() error {
			shard, err := store.Load(ctx, id)
			if err != nil {
				return err
			}
			ok, err := deps.Shards.SaveShard(ctx, collection.ID, shard)
			if err != nil {
				return fmt.Errorf("save shard %q: %w", id, err)
			}
			if ok {
				saved.Add(1)
			} else {
				unchanged.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d shards into %q (%d unchanged)\n", saved.Load(), collection.Name, unchanged.Load())
	return nil
}

// collection returns the collection named c.Name, creating it on first import.
func (c *ImportCmd) collection(deps *Dependencies) (*docsearch.Collection, error) {
	existing, err := findCollection(deps.Ctx, deps.Collections, c.Name)
	switch docsearch.ErrorCode(err) {
	case "":
		return deps.Collections.UpdateCollection(deps.Ctx, existing.ID, docsearch.CollectionUpdate{
			Source:  &c.Source,
			Section: &c.Section,
		})
	case docsearch.ENOTFOUND:
		collection := &docsearch.Collection{Name: c.Name, Source: c.Source, Section: c.Section}
		if err := deps.Collections.CreateCollection(deps.Ctx, collection); err != nil {
			return nil, err
		}
		return collection, nil
	default:
		return nil, err
	}
}
