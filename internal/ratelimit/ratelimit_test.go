package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestUnlimitedDoesNotBlock(t *testing.T) {
	t.Parallel()

	l := New(0)
	start := time.Now()
	for range 100 {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("unlimited limiter blocked for %v", elapsed)
	}
}

func TestLimitedPacesWaits(t *testing.T) {
	t.Parallel()

	l := New(50)
	start := time.Now()
	for range 5 {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	// Four paced waits at 50 qps is at least ~80ms.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("5 waits at 50 qps took %v, expected pacing", elapsed)
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	t.Parallel()

	l := New(0.001)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatal("Wait() expected error from expiring context")
	}
}
