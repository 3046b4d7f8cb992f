package toolexec

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Probe checks tool availability for all runners in parallel.
//
// The report is purely advisory: a tool shown available can still fail at
// invocation time, and operations do not consult the probe before running.
func Probe(ctx context.Context, runners ...Invoker) map[Tool]bool {
	var mu sync.Mutex

	report := make(map[Tool]bool, len(runners))

	g, ctx := errgroup.WithContext(ctx)

	for _, r := range runners {
		g.Go(func() error {
			ok := r.Available(ctx)

			mu.Lock()
			report[r.Tool()] = ok
			mu.Unlock()

			return nil
		})
	}

	// Probes never return errors; Wait only joins the goroutines.
	_ = g.Wait()

	return report
}
