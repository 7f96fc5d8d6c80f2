// Package driver orchestrates expansion of many independent invocations
// against one shared, read-only macro Registry: bounded parallelism, a
// per-invocation diagnostic bag, and an optional content-addressed result
// cache. Expansion itself stays single-threaded per invocation; concurrency
// exists only across invocations (one compilation unit per worker).
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"mex/internal/diag"
	"mex/internal/macro"
	"mex/internal/source"
	"mex/internal/token"
)

// Invocation is one macro call site to expand.
type Invocation struct {
	Macro string
	Site  source.Span
	Args  []token.Tree
}

// Result is the outcome for one invocation, in input order.
type Result struct {
	Macro string
	Site  source.Span
	// Trees is the expanded output; nil when expansion failed.
	Trees []token.Tree
	// Bag holds the invocation's diagnostics.
	Bag *diag.Bag
}

// Ok reports whether the invocation expanded without errors.
func (r *Result) Ok() bool {
	return r.Bag == nil || !r.Bag.HasErrors()
}

// ExpandAll expands every invocation concurrently against reg. The registry
// must be fully populated before the call; workers only read it. Result
// order matches invocation order regardless of scheduling, and a context
// cancellation stops the run early.
func ExpandAll(ctx context.Context, reg *macro.Registry, opts Options, invs []Invocation) ([]Result, error) {
	if len(invs) == 0 {
		return nil, nil
	}

	engine := macro.NewEngine(reg, macro.Options{MaxDepth: opts.MaxDepth})

	var cache *Cache
	if opts.CacheDir != "" {
		var err error
		if cache, err = OpenCache(opts.CacheDir, reg); err != nil {
			return nil, err
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultOptions().MaxDiagnostics
	}

	// one slot per invocation; each worker owns its index, no mutex needed
	results := make([]Result, len(invs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(invs)))

	for i, inv := range invs {
		i, inv := i, inv
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiags)
			res := Result{Macro: inv.Macro, Site: inv.Site, Bag: bag}

			if cache != nil {
				if trees, hit := cache.Get(engine, inv.Macro, inv.Args); hit {
					res.Trees = trees
					results[i] = res
					return nil
				}
			}

			trees, err := engine.Expand(inv.Macro, inv.Site, inv.Args)
			if err != nil {
				bag.Add(err.Diagnostic())
				results[i] = res
				return nil
			}
			res.Trees = trees
			if cache != nil {
				cache.Put(inv.Macro, inv.Args, trees)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
