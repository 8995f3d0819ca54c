package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

func failing() error { return errors.New("boom") }
func succeeding() error { return nil }

func TestOpensAfterFailureThreshold(t *testing.T) {
	cb := NewCircuitBreaker(Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenMaxRequests: 1})

	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); err == nil {
			t.Fatal("expected error")
		}
	}

	err := cb.Execute(succeeding)
	if !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Errorf("error = %v, want open breaker", err)
	}
	if cb.GetState() != StateOpen {
		t.Errorf("state = %v, want open", cb.GetState())
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(Config{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenMaxRequests: 1})

	cb.Execute(failing)
	cb.Execute(succeeding)
	cb.Execute(failing)

	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("breaker opened despite interleaved successes: %v", err)
	}
}

func TestHalfOpenProbeClosesBreaker(t *testing.T) {
	cb := NewCircuitBreaker(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Millisecond, HalfOpenMaxRequests: 1})

	cb.Execute(failing)
	cb.Execute(failing) // trips the transition to open

	time.Sleep(5 * time.Millisecond)

	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("breaker still rejecting after successful probe: %v", err)
	}
}

func TestReset(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())
	for i := 0; i < DefaultConfig().FailureThreshold+1; i++ {
		cb.Execute(failing)
	}
	cb.Reset()
	if cb.GetState() != StateClosed {
		t.Errorf("state after reset = %v", cb.GetState())
	}
	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("Execute() after reset = %v", err)
	}
}
