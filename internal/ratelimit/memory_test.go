package ratelimit

import (
	"context"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestMemoryLimiterAllowsUpToLimit(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	l.now = fixedClock(time.Date(2026, 8, 10, 12, 0, 10, 0, time.UTC))

	for i := 0; i < 3; i++ {
		d, err := l.Allow(context.Background(), "1.1.1.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
		if want := int64(3 - i - 1); d.Remaining != want {
			t.Errorf("request %d remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	d, err := l.Allow(context.Background(), "1.1.1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Error("request over the limit was allowed")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("retry after = %v, want > 0", d.RetryAfter)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	l.now = fixedClock(time.Date(2026, 8, 10, 12, 0, 10, 0, time.UTC))

	if d, _ := l.Allow(context.Background(), "1.1.1.1"); !d.Allowed {
		t.Fatal("first key denied")
	}
	if d, _ := l.Allow(context.Background(), "1.1.1.1"); d.Allowed {
		t.Fatal("first key not limited")
	}
	if d, _ := l.Allow(context.Background(), "2.2.2.2"); !d.Allowed {
		t.Fatal("second key denied, windows leaked across keys")
	}
}

func TestMemoryLimiterWindowRolls(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)

	l.now = fixedClock(time.Date(2026, 8, 10, 12, 0, 10, 0, time.UTC))
	if d, _ := l.Allow(context.Background(), "1.1.1.1"); !d.Allowed {
		t.Fatal("first request denied")
	}
	if d, _ := l.Allow(context.Background(), "1.1.1.1"); d.Allowed {
		t.Fatal("second request in same window allowed")
	}

	// Next minute bucket: the counter resets.
	l.now = fixedClock(time.Date(2026, 8, 10, 12, 1, 10, 0, time.UTC))
	if d, _ := l.Allow(context.Background(), "1.1.1.1"); !d.Allowed {
		t.Fatal("request in the next window denied")
	}
}

func TestMemoryLimiterSubSecondWindow(t *testing.T) {
	l := NewMemoryLimiter(2, 500*time.Millisecond)
	l.now = fixedClock(time.Date(2026, 8, 10, 12, 0, 10, 100_000_000, time.UTC))

	for i := 0; i < 2; i++ {
		d, err := l.Allow(context.Background(), "1.1.1.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}

	d, err := l.Allow(context.Background(), "1.1.1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Error("request over the limit was allowed")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > 500*time.Millisecond {
		t.Errorf("retry after = %v, want within (0, 500ms]", d.RetryAfter)
	}

	// Half a second later the window has rolled.
	l.now = fixedClock(time.Date(2026, 8, 10, 12, 0, 10, 600_000_000, time.UTC))
	if d, _ := l.Allow(context.Background(), "1.1.1.1"); !d.Allowed {
		t.Error("request in the next window denied")
	}
}

func TestMemoryLimiterSweepsExpiredWindows(t *testing.T) {
	l := NewMemoryLimiter(5, time.Minute)

	l.now = fixedClock(time.Date(2026, 8, 10, 12, 0, 10, 0, time.UTC))
	for _, key := range []string{"a", "b", "c"} {
		if _, err := l.Allow(context.Background(), key); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Two windows later, touching the limiter prunes stale entries.
	l.now = fixedClock(time.Date(2026, 8, 10, 12, 2, 10, 0, time.UTC))
	if _, err := l.Allow(context.Background(), "d"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.mu.Lock()
	size := len(l.windows)
	l.mu.Unlock()
	if size != 1 {
		t.Errorf("windows map holds %d entries after sweep, want 1", size)
	}
}
