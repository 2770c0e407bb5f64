package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		Name:             "test",
		MaxFailures:      3,
		FailureThreshold: 0.5,
		Timeout:          20 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	}
}

func failN(cb *CircuitBreaker, n int) {
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_ = cb.Execute(ctx, func() error {
			return errors.New("dependency down")
		})
	}
}

func TestBreakerStartsClosed(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	if state := cb.GetState(); state != StateClosed {
		t.Errorf("Expected state %s, got %s", StateClosed, state)
	}

	err := cb.Execute(context.Background(), func() error { return nil })
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	failN(cb, 3)

	if state := cb.GetState(); state != StateOpen {
		t.Errorf("Expected state %s after failures, got %s", StateOpen, state)
	}

	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("Function should not run while the circuit is open")
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cfg := testConfig()
	cb := NewCircuitBreaker(cfg)

	failN(cb, 3)
	time.Sleep(cfg.Timeout + 5*time.Millisecond)

	// Successful probes close the circuit again
	for i := 0; i < cfg.HalfOpenMaxCalls; i++ {
		if err := cb.Execute(context.Background(), func() error { return nil }); err != nil {
			t.Fatalf("Probe %d failed: %v", i, err)
		}
	}

	if state := cb.GetState(); state != StateClosed {
		t.Errorf("Expected state %s after recovery, got %s", StateClosed, state)
	}
}

func TestBreakerReopensOnProbeFailure(t *testing.T) {
	cfg := testConfig()
	cb := NewCircuitBreaker(cfg)

	failN(cb, 3)
	time.Sleep(cfg.Timeout + 5*time.Millisecond)

	failN(cb, 1)

	if state := cb.GetState(); state != StateOpen {
		t.Errorf("Expected state %s after failed probe, got %s", StateOpen, state)
	}
}

func TestBreakerLimitsHalfOpenProbes(t *testing.T) {
	cfg := testConfig()
	cb := NewCircuitBreaker(cfg)

	failN(cb, 3)
	time.Sleep(cfg.Timeout + 5*time.Millisecond)

	release := make(chan struct{})
	var started sync.WaitGroup
	var done sync.WaitGroup
	started.Add(cfg.HalfOpenMaxCalls)
	done.Add(cfg.HalfOpenMaxCalls)

	for i := 0; i < cfg.HalfOpenMaxCalls; i++ {
		go func() {
			defer done.Done()
			_ = cb.Execute(context.Background(), func() error {
				started.Done()
				<-release
				return nil
			})
		}()
	}
	started.Wait()

	// Probe budget is spent while the in-flight probes are still running
	err := cb.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("Expected ErrTooManyRequests, got %v", err)
	}

	close(release)
	done.Wait()

	if state := cb.GetState(); state != StateClosed {
		t.Errorf("Expected state %s after probes succeeded, got %s", StateClosed, state)
	}
}

func TestBreakerOpensOnFailureRate(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFailures = 4
	cb := NewCircuitBreaker(cfg)

	ctx := context.Background()
	// Alternate success and failure so consecutive failures never trip the
	// breaker, then push the failure rate past the threshold.
	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, func() error { return nil })
		failN(cb, 1)
	}

	if state := cb.GetState(); state != StateOpen {
		t.Errorf("Expected state %s from failure rate, got %s", StateOpen, state)
	}
}

func TestBreakerStats(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	_ = cb.Execute(context.Background(), func() error { return nil })
	failN(cb, 1)

	stats := cb.GetStats()
	if stats.Name != "test" {
		t.Errorf("Expected name test, got %s", stats.Name)
	}
	if stats.TotalCalls != 2 {
		t.Errorf("Expected 2 total calls, got %d", stats.TotalCalls)
	}
	if stats.Failures != 1 {
		t.Errorf("Expected 1 failure, got %d", stats.Failures)
	}
	if stats.FailureRate != 0.5 {
		t.Errorf("Expected failure rate 0.5, got %f", stats.FailureRate)
	}
}

func TestBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	failN(cb, 3)
	if state := cb.GetState(); state != StateOpen {
		t.Fatalf("Expected state %s before reset, got %s", StateOpen, state)
	}

	cb.Reset()

	if state := cb.GetState(); state != StateClosed {
		t.Errorf("Expected state %s after reset, got %s", StateClosed, state)
	}
	if err := cb.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("Expected call to pass after reset, got %v", err)
	}
}
