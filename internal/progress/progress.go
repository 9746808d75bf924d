package progress

import (
	"context"
	"time"
)

const (
	DefaultSteps = 100
	DefaultDelay = 15 * time.Millisecond
)

// Ticker advances a cosmetic progress indicator one step at a time.
type Ticker struct {
	Steps int
	Delay time.Duration
}

func Default() Ticker {
	return Ticker{Steps: DefaultSteps, Delay: DefaultDelay}
}

// Total is the wall-clock time a full run blocks for.
func (t Ticker) Total() time.Duration {
	return time.Duration(t.Steps) * t.Delay
}

// Run sleeps Delay before each step and then calls fn with the step number,
// 1 through Steps. It stops at the first error from fn or when ctx is done.
func (t Ticker) Run(ctx context.Context, fn func(step int) error) error {
	var timer *time.Timer
	if t.Delay > 0 {
		timer = time.NewTimer(t.Delay)
		defer timer.Stop()
	}

	for step := 1; step <= t.Steps; step++ {
		if timer != nil {
			if step > 1 {
				timer.Reset(t.Delay)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if fn == nil {
			continue
		}
		if err := fn(step); err != nil {
			return err
		}
	}
	return nil
}
