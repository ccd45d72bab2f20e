package parfait

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Unit is one execution unit, typically one test scenario.
type Unit func(ctx context.Context) error

// RunConfig controls Run.
type RunConfig struct {
	// Limit caps concurrently running units. Zero or less means no cap.
	Limit int

	// Browser opens the root browser handle for one unit. The returned
	// release func, if any, runs when the unit finishes.
	Browser func(ctx context.Context) (handle any, release func(), err error)

	// LogSink is installed in every unit's scope.
	LogSink LogSink
}

// Run executes units concurrently against app's shared artifact tree. Every
// unit gets its own Scope; the first failure cancels the rest.
func Run(ctx context.Context, app *Application, cfg RunConfig, units ...Unit) error {
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Limit > 0 {
		g.SetLimit(cfg.Limit)
	}
	for i, unit := range units {
		g.Go(func() error {
			if err := runUnit(gctx, app, cfg, unit); err != nil {
				return fmt.Errorf("unit %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func runUnit(ctx context.Context, app *Application, cfg RunConfig, unit Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	uctx := Start(ctx, WithLogSink(cfg.LogSink))
	if cfg.Browser != nil {
		handle, release, err := cfg.Browser(uctx)
		if err != nil {
			return fmt.Errorf("open browser: %w", err)
		}
		if release != nil {
			defer release()
		}
		if err := app.SetBrowser(uctx, handle); err != nil {
			return err
		}
	}
	return unit(uctx)
}
