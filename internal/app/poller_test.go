package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_IntervalAboveCap(t *testing.T) {
	if got := calculateBackoff(3, time.Minute); got != time.Minute {
		t.Fatalf("calculateBackoff(3, 1m) = %v, want 1m", got)
	}
}

type countingReloader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingReloader) Reload(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *countingReloader) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestStartPoller_ReloadsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingReloader{}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartPoller(ctx, r, 5*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for r.Calls() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 3", r.Calls())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestStartPoller_DisabledWithZeroInterval(t *testing.T) {
	r := &countingReloader{}
	done := StartPoller(context.Background(), r, 0, nil)

	select {
	case <-done:
	default:
		t.Fatal("disabled poller should report done immediately")
	}
	if r.Calls() != 0 {
		t.Fatalf("disabled poller reloaded %d times", r.Calls())
	}
}

func TestStartPoller_KeepsPollingOnFailure(t *testing.T) {
	r := &countingReloader{err: errors.New("offline")}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartPoller(ctx, r, time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for r.Calls() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller stopped after failure: %d calls", r.Calls())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
}
