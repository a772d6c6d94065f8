package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a process-local fixed-window counter. Each instance
// enforces the limit independently, so a fleet of N instances allows up to
// N times the configured rate. Expired windows are pruned opportunistically
// so the map does not grow unbounded.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memWindow
	limit   int64
	window  time.Duration

	lastSweep time.Time
	now       func() time.Time
}

type memWindow struct {
	bucket int64
	count  int64
}

func NewMemoryLimiter(limit int64, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		windows: make(map[string]*memWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	if key == "" {
		key = "unknown"
	}

	now := l.now().UTC()
	// Bucket arithmetic in nanoseconds so sub-second windows work too.
	bucket := now.UnixNano() / int64(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now, bucket)

	w := l.windows[key]
	if w == nil || w.bucket != bucket {
		w = &memWindow{bucket: bucket}
		l.windows[key] = w
	}
	w.count++

	windowEnd := time.Unix(0, (bucket+1)*int64(l.window))
	return decide(w.count, l.limit, windowEnd.Sub(now)), nil
}

// maybeSweep drops expired windows at most once per window. Caller holds mu.
func (l *MemoryLimiter) maybeSweep(now time.Time, bucket int64) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, w := range l.windows {
		if w.bucket != bucket {
			delete(l.windows, key)
		}
	}
}
