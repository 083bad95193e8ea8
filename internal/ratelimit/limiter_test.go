package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	limiter := NewLimiter("test", 60) // 60 per minute = 1 per second

	if limiter.Name() != "test" {
		t.Errorf("Expected name 'test', got '%s'", limiter.Name())
	}

	// First few requests should be allowed immediately (burst)
	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Errorf("Request %d should have been allowed", i)
		}
	}
}

func TestLimiterWait(t *testing.T) {
	limiter := NewLimiter("test", 120) // 2 per second

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Should complete quickly
	start := time.Now()
	err := limiter.Wait(ctx)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if time.Since(start) > 1*time.Second {
		t.Error("Wait took too long")
	}
}

func TestLimiterBackoff(t *testing.T) {
	limiter := NewLimiter("test", 60)

	if got := limiter.Backoff(); got != 0 {
		t.Errorf("Expected zero initial backoff, got %v", got)
	}

	limiter.SignalRateLimited()
	if got := limiter.Backoff(); got != time.Second {
		t.Errorf("Expected 1s backoff after first signal, got %v", got)
	}

	limiter.SignalRateLimited()
	if got := limiter.Backoff(); got != 2*time.Second {
		t.Errorf("Expected 2s backoff after second signal, got %v", got)
	}

	limiter.ResetBackoff()
	if got := limiter.Backoff(); got != 0 {
		t.Errorf("Expected backoff cleared after reset, got %v", got)
	}
}

func TestLimiterBackoffCap(t *testing.T) {
	limiter := NewLimiter("test", 60)

	for i := 0; i < 10; i++ {
		limiter.SignalRateLimited()
	}
	if got := limiter.Backoff(); got != 2*time.Minute {
		t.Errorf("Expected backoff capped at 2m, got %v", got)
	}
}

func TestLimiterWaitHonorsBackoff(t *testing.T) {
	limiter := NewLimiter("test", 6000)
	limiter.SignalRateLimited() // 1s backoff

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := limiter.Wait(ctx); err == nil {
		t.Error("Expected context deadline error during backoff sleep")
	}
	if time.Since(start) > time.Second {
		t.Error("Wait should return as soon as the context is cancelled")
	}
}

func TestMultiLimiter(t *testing.T) {
	ml := NewMultiLimiter()

	ml.Add("eastmoney", 60)
	ml.Add("gateway", 30)

	if ml.Get("eastmoney") == nil {
		t.Error("eastmoney limiter should exist")
	}
	if ml.Get("gateway") == nil {
		t.Error("gateway limiter should exist")
	}
	if ml.Get("sina") != nil {
		t.Error("unregistered limiter should be nil")
	}

	ctx := context.Background()
	if err := ml.Wait(ctx, "eastmoney"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	// Unregistered sources proceed without waiting
	if err := ml.Wait(ctx, "sina"); err != nil {
		t.Errorf("Wait on unregistered source should succeed: %v", err)
	}
}

func TestLimiterContextCancellation(t *testing.T) {
	limiter := NewLimiter("test", 1) // Very slow rate

	// Exhaust the burst
	for i := 0; i < 5; i++ {
		limiter.Allow()
	}

	// Create a context that will be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := limiter.Wait(ctx)
	if err == nil {
		t.Error("Expected error from cancelled context")
	}
}
