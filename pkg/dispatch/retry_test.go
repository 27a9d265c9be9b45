package dispatch

import (
	"testing"
	"time"
)

func TestGenericRetryPolicyExponentialGrowth(t *testing.T) {
	p := NewGenericRetryPolicyWithConfig(GenericRetryPolicyConfig{
		InitialInterval: 100 * time.Millisecond,
		Multiplier:      2.0,
		MaxInterval:     time.Second,
		MaxAttempts:     5,
	})

	d1, ok := p.NextDelay(1)
	if !ok || d1 != 100*time.Millisecond {
		t.Fatalf("attempt 1: expected 100ms, got %v (ok=%v)", d1, ok)
	}

	d2, ok := p.NextDelay(2)
	if !ok || d2 != 200*time.Millisecond {
		t.Fatalf("attempt 2: expected 200ms, got %v (ok=%v)", d2, ok)
	}

	d4, ok := p.NextDelay(4)
	if !ok || d4 != 800*time.Millisecond {
		t.Fatalf("attempt 4: expected 800ms, got %v (ok=%v)", d4, ok)
	}
}

func TestGenericRetryPolicyCapsAtMaxInterval(t *testing.T) {
	p := NewGenericRetryPolicyWithConfig(GenericRetryPolicyConfig{
		InitialInterval: time.Second,
		Multiplier:      10,
		MaxInterval:     5 * time.Second,
		MaxAttempts:     10,
	})

	d, ok := p.NextDelay(5)
	if !ok || d != 5*time.Second {
		t.Fatalf("expected delay capped at 5s, got %v", d)
	}
}

func TestGenericRetryPolicyExhaustsAtMaxAttempts(t *testing.T) {
	p := NewGenericRetryPolicyWithConfig(GenericRetryPolicyConfig{MaxAttempts: 3})

	if _, ok := p.NextDelay(2); !ok {
		t.Fatalf("attempt 2 should still be allowed")
	}
	if _, ok := p.NextDelay(3); ok {
		t.Fatalf("attempt 3 should be exhausted")
	}
}

func TestNoRetryPolicyDisablesRetry(t *testing.T) {
	p := NoRetryPolicy()
	if _, ok := p.NextDelay(1); ok {
		t.Fatalf("NoRetryPolicy should exhaust on the very first attempt")
	}
}

func TestConstantRetryPolicyNeverExhausts(t *testing.T) {
	p := ConstantRetryPolicy(250 * time.Millisecond)
	for attempt := 1; attempt <= 50; attempt++ {
		d, ok := p.NextDelay(attempt)
		if !ok || d != 250*time.Millisecond {
			t.Fatalf("attempt %d: expected constant 250ms, got %v (ok=%v)", attempt, d, ok)
		}
	}
}

func TestLinearRetryPolicy(t *testing.T) {
	p := LinearRetryPolicy(time.Second, 500*time.Millisecond, 3*time.Second, 10)

	d1, _ := p.NextDelay(1)
	d3, _ := p.NextDelay(3)
	d10, _ := p.NextDelay(10)

	if d1 != time.Second {
		t.Errorf("attempt 1: expected 1s, got %v", d1)
	}
	if d3 != 2*time.Second {
		t.Errorf("attempt 3: expected 2s, got %v", d3)
	}
	if d10 != 3*time.Second {
		t.Errorf("attempt 10: expected capped 3s, got %v", d10)
	}
}

func TestGenericRetryPolicyJitterStaysInRange(t *testing.T) {
	p := NewGenericRetryPolicyWithConfig(GenericRetryPolicyConfig{
		InitialInterval:     time.Second,
		Multiplier:          1,
		MaxInterval:         time.Minute,
		RandomizationFactor: 0.5,
	})

	for i := 0; i < 20; i++ {
		d, ok := p.NextDelay(1)
		if !ok {
			t.Fatalf("unexpected exhaustion")
		}
		if d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Fatalf("jittered delay out of expected range: %v", d)
		}
	}
}
