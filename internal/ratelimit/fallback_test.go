package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLimiter struct {
	decision Decision
	err      error
	calls    int
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	f.calls++
	return f.decision, f.err
}

type fakeProber struct {
	err error
}

func (f *fakeProber) Ping(ctx context.Context) error { return f.err }

func TestFallbackLimiterUsesSharedWhenHealthy(t *testing.T) {
	shared := &fakeLimiter{decision: Decision{Allowed: true, Remaining: 7}}
	l := NewFallbackLimiter(shared, &fakeProber{}, NewMemoryLimiter(10, time.Minute), time.Hour)
	defer l.Close()

	d, err := l.Allow(context.Background(), "1.1.1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed || d.Remaining != 7 {
		t.Errorf("decision = %+v, want shared decision", d)
	}
	if shared.calls != 1 {
		t.Errorf("shared called %d times, want 1", shared.calls)
	}
	if l.InFallback() {
		t.Error("limiter should be in shared mode")
	}
}

func TestFallbackLimiterDegradesOnSharedError(t *testing.T) {
	shared := &fakeLimiter{err: errors.New("connection refused")}
	l := NewFallbackLimiter(shared, &fakeProber{}, NewMemoryLimiter(10, time.Minute), time.Hour)
	defer l.Close()

	// The failing request is still answered, from the local limiter.
	d, err := l.Allow(context.Background(), "1.1.1.1")
	if err != nil {
		t.Fatalf("store error leaked to caller: %v", err)
	}
	if !d.Allowed {
		t.Error("first local decision should allow")
	}
	if !l.InFallback() {
		t.Error("limiter should have degraded to fallback mode")
	}

	// Subsequent requests go straight to the local limiter.
	if _, err := l.Allow(context.Background(), "1.1.1.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared.calls != 1 {
		t.Errorf("shared called %d times after degrade, want 1", shared.calls)
	}
}

func TestFallbackLimiterStartsInFallbackWhenProbeFails(t *testing.T) {
	shared := &fakeLimiter{decision: Decision{Allowed: true}}
	l := NewFallbackLimiter(shared, &fakeProber{err: errors.New("unreachable")}, NewMemoryLimiter(10, time.Minute), time.Hour)
	defer l.Close()

	if !l.InFallback() {
		t.Error("limiter should start in fallback mode when the startup probe fails")
	}
	if _, err := l.Allow(context.Background(), "1.1.1.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared.calls != 0 {
		t.Errorf("shared called %d times in fallback mode, want 0", shared.calls)
	}
}

func TestFallbackLimiterUpgradesAfterProbe(t *testing.T) {
	shared := &fakeLimiter{err: errors.New("connection refused")}
	prober := &fakeProber{}
	l := NewFallbackLimiter(shared, prober, NewMemoryLimiter(10, time.Minute), 10*time.Millisecond)
	defer l.Close()

	if _, err := l.Allow(context.Background(), "1.1.1.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.InFallback() {
		t.Fatal("limiter should have degraded")
	}

	shared.err = nil
	shared.decision = Decision{Allowed: true, Remaining: 9}

	deadline := time.Now().Add(2 * time.Second)
	for l.InFallback() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if l.InFallback() {
		t.Fatal("limiter did not upgrade after the store recovered")
	}

	d, err := l.Allow(context.Background(), "1.1.1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Remaining != 9 {
		t.Errorf("decision = %+v, want shared decision", d)
	}
}

func TestFallbackLimiterNilSharedIsLocalOnly(t *testing.T) {
	l := NewFallbackLimiter(nil, nil, NewMemoryLimiter(2, time.Minute), time.Hour)
	defer l.Close()

	if !l.InFallback() {
		t.Error("nil shared store should mean permanent fallback mode")
	}
	for i := 0; i < 2; i++ {
		if d, _ := l.Allow(context.Background(), "1.1.1.1"); !d.Allowed {
			t.Fatalf("request %d denied", i+1)
		}
	}
	if d, _ := l.Allow(context.Background(), "1.1.1.1"); d.Allowed {
		t.Error("local limit not enforced")
	}
}
