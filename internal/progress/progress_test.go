package progress

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunCallsEveryStepInOrder(t *testing.T) {
	var steps []int
	err := Ticker{Steps: DefaultSteps}.Run(context.Background(), func(step int) error {
		steps = append(steps, step)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(steps) != DefaultSteps {
		t.Fatalf("Run() made %d steps, expected %d", len(steps), DefaultSteps)
	}
	for i, s := range steps {
		if s != i+1 {
			t.Fatalf("step %d = %d, expected %d", i, s, i+1)
		}
	}
}

func TestRunBlocksForTotal(t *testing.T) {
	tk := Ticker{Steps: 5, Delay: 2 * time.Millisecond}
	start := time.Now()
	if err := tk.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < tk.Total() {
		t.Fatalf("Run() returned after %v, expected at least %v", elapsed, tk.Total())
	}
}

func TestRunStopsOnCallbackError(t *testing.T) {
	boom := errors.New("client gone")
	calls := 0
	err := Ticker{Steps: 10}.Run(context.Background(), func(step int) error {
		calls++
		if step == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, expected %v", err, boom)
	}
	if calls != 3 {
		t.Fatalf("Run() made %d calls, expected 3", calls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Ticker{Steps: 10, Delay: time.Hour}.Run(ctx, func(int) error {
		t.Fatalf("callback should not run after cancel")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, expected context.Canceled", err)
	}
}

func TestDefaultTotal(t *testing.T) {
	if got := Default().Total(); got != 1500*time.Millisecond {
		t.Fatalf("Default().Total() = %v, expected 1.5s", got)
	}
}
