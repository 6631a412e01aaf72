// Package dispatch implements the mock/live branch every service operation
// follows: in developer mode the operation waits a simulated latency and
// returns a synthetic value, otherwise it delegates to a single remote call.
package dispatch

import (
	"context"
	"time"
)

// Dispatcher selects between the developer-mode branch and the live branch.
// LatencyScale multiplies the per-operation simulated latency; a scale of 0
// skips the artificial delay (tests run with 0).
type Dispatcher struct {
	DeveloperMode bool
	LatencyScale  float64
}

// Simulated latencies, sized to suggest relative request cost. Listing is
// cheap, generating a document is not.
const (
	LatencyList     = 300 * time.Millisecond
	LatencyRead     = 500 * time.Millisecond
	LatencyWrite    = 800 * time.Millisecond
	LatencyRequest  = 1500 * time.Millisecond
	LatencyGenerate = 3000 * time.Millisecond
)

// Do runs mock after the simulated latency when developer mode is on,
// otherwise it runs live. The latency wait honors context cancellation, so
// an abandoned request does not leak a sleeping goroutine.
func Do[T any](ctx context.Context, d Dispatcher, latency time.Duration, mock func() (T, error), live func(ctx context.Context) (T, error)) (T, error) {
	if !d.DeveloperMode {
		return live(ctx)
	}
	if err := d.wait(ctx, latency); err != nil {
		var zero T
		return zero, err
	}
	return mock()
}

func (d Dispatcher) wait(ctx context.Context, latency time.Duration) error {
	scaled := time.Duration(float64(latency) * d.LatencyScale)
	if scaled <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(scaled)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
