package command

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Run starts every worker and blocks until all of them have stopped. The
// first worker to fail cancels the rest.
func Run(ctx context.Context, workers WorkerList) error {
	g, gctx := errgroup.WithContext(ctx)

	for name, w := range workers {
		g.Go(func() error {
			slog.DebugContext(gctx, "starting worker", "worker", name)
			if err := w.Start(gctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			slog.DebugContext(gctx, "worker stopped", "worker", name)
			return nil
		})
	}

	return g.Wait()
}
