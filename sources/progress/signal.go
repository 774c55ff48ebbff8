package progress

import (
	"context"
	"time"
)

var Frames = []string{"/", "-", "\\", "|"}

const DefaultPeriod = 200 * time.Millisecond

// Signal animates a label while work is outstanding. It only observes completion
// and never touches the work's result.
type Signal struct {
	renderer Renderer
	period   time.Duration
}

// NewSignal returns nil when there is nothing to render to; Await then just runs the work.
func NewSignal(renderer Renderer, period time.Duration) *Signal {
	if renderer == nil {
		return nil
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Signal{renderer: renderer, period: period}
}

// Await runs work in its own goroutine and renders frames until it returns.
// Cancelling ctx stops the animation; the result is still the one work produces for that ctx.
func Await[T any](ctx context.Context, signal *Signal, label string, work func(ctx context.Context) (T, error)) (T, error) {
	if signal == nil {
		return work(ctx)
	}

	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := work(ctx)
		done <- result{value: value, err: err}
	}()

	frame := 0
	signal.renderer.Render(label, Frames[frame])

	ticker := time.NewTicker(signal.period)
	defer ticker.Stop()

	cancelled := ctx.Done()
	for {
		select {
		case r := <-done:
			signal.renderer.Clear()
			return r.value, r.err
		case <-ticker.C:
			frame = (frame + 1) % len(Frames)
			signal.renderer.Render(label, Frames[frame])
		case <-cancelled:
			ticker.Stop()
			signal.renderer.Clear()
			cancelled = nil
		}
	}
}
