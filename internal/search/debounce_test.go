package search

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitForCalls(t *testing.T, calls *atomic.Int64, want int64, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if calls.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d calls within %v, got %d", want, timeout, calls.Load())
}

func TestDebouncer_Trigger(t *testing.T) {
	t.Run("burst collapses to a single call", func(t *testing.T) {
		var calls atomic.Int64
		debouncer := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
		defer debouncer.Stop()

		for i := 0; i < 5; i++ {
			debouncer.Trigger()
		}

		waitForCalls(t, &calls, 1, time.Second)
		time.Sleep(50 * time.Millisecond)
		if calls.Load() != 1 {
			t.Fatalf("expected exactly one call, got %d", calls.Load())
		}
	})

	t.Run("separate bursts each fire", func(t *testing.T) {
		var calls atomic.Int64
		debouncer := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })
		defer debouncer.Stop()

		debouncer.Trigger()
		waitForCalls(t, &calls, 1, time.Second)

		debouncer.Trigger()
		waitForCalls(t, &calls, 2, time.Second)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	var calls atomic.Int64
	debouncer := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	debouncer.Trigger()
	debouncer.Stop()
	debouncer.Trigger()

	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("expected no calls after stop, got %d", calls.Load())
	}
}

func TestDebouncer_Flush(t *testing.T) {
	t.Run("runs a pending callback immediately", func(t *testing.T) {
		var calls atomic.Int64
		debouncer := NewDebouncer(time.Hour, func() { calls.Add(1) })
		defer debouncer.Stop()

		debouncer.Trigger()
		debouncer.Flush()

		if calls.Load() != 1 {
			t.Fatalf("expected one immediate call, got %d", calls.Load())
		}
	})

	t.Run("does nothing without a pending trigger", func(t *testing.T) {
		var calls atomic.Int64
		debouncer := NewDebouncer(time.Hour, func() { calls.Add(1) })
		defer debouncer.Stop()

		debouncer.Flush()
		if calls.Load() != 0 {
			t.Fatalf("expected no calls, got %d", calls.Load())
		}
	})
}
