// Package parallel provides a GOMAXPROCS-bounded fan-out over independent
// per-record work, the way erigon-lib drives bounded worker fan-out with
// golang.org/x/sync/errgroup (e.g. polygon/p2p's downloader).
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForEach calls fn(i) for every i in [0, n), running at most GOMAXPROCS
// calls concurrently, and returns the first error encountered (if any),
// cancelling outstanding work via ctx. When n is 0 it returns nil
// immediately without starting a group.
func ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(ctx, i)
		})
	}
	return g.Wait()
}

// Sequential is the single-threaded equivalent of ForEach, used when
// BuildOptions.Parallel is false (the default, for deterministic tests).
func Sequential(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := fn(ctx, i); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
