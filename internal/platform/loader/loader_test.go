package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_ZeroDelayCallsImmediately(t *testing.T) {
	got, err := Run(context.Background(), 0, func() (int, error) { return 42, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestRun_WaitsForDelay(t *testing.T) {
	start := time.Now()
	_, err := Run(context.Background(), 20*time.Millisecond, func() (string, error) { return "ok", nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("returned after %s, before the delay elapsed", elapsed)
	}
}

func TestRun_PropagatesFnError(t *testing.T) {
	want := errors.New("boom")
	_, err := Run(context.Background(), time.Millisecond, func() (int, error) { return 0, want })
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestRun_CancelledBeforeDelayNeverCallsFn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	done := make(chan error, 1)
	go func() {
		_, err := Run(ctx, time.Hour, func() (int, error) {
			calls.Add(1)
			return 1, nil
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if calls.Load() != 0 {
		t.Errorf("fn called %d times after cancellation", calls.Load())
	}
}

func TestRun_AlreadyDoneContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err := Run(ctx, 0, func() (int, error) {
		called = true
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("fn must not run on a done context")
	}
}

func TestRun_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, time.Hour, func() (int, error) { return 0, nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
