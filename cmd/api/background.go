package main

import (
	"context"
	"time"
)

const housekeepingInterval = 30 * time.Minute

// startHousekeeping periodically abandons expired guest carts and drops
// stale rate limiter windows.
func (app *application) startHousekeeping(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(housekeepingInterval)
		defer ticker.Stop()

		// Run once immediately
		app.housekeep(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.housekeep(ctx)
			}
		}
	}()
}

type sweeper interface {
	Sweep() int
}

func (app *application) housekeep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := app.store.Sales.Carts.MarkExpiredAsAbandoned(ctx)
	if err != nil {
		app.logger.Errorw("marking expired carts as abandoned", "error", err)
	} else if n > 0 {
		app.logger.Infow("abandoned expired carts", "count", n)
	}

	if s, ok := app.rateLimiter.(sweeper); ok {
		s.Sweep()
	}
}
