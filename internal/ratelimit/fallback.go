package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/logger"
	"go.uber.org/zap"
)

type mode int32

const (
	modeShared mode = iota
	modeFallback
)

// Prober reports whether the shared store is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

// FallbackLimiter fronts a shared limiter with a local one. It runs in
// shared mode while the store answers; a store error on the request path
// downgrades to fallback mode immediately (the failing request is decided
// locally, never stalled), and a background probe upgrades back once the
// store responds again. Store errors never reach the caller.
type FallbackLimiter struct {
	shared Limiter
	prober Prober
	local  *MemoryLimiter

	mode         atomic.Int32
	probeTimeout time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewFallbackLimiter starts in shared mode when shared is non-nil,
// otherwise it is a plain local limiter. probeInterval governs the
// background upgrade checks.
func NewFallbackLimiter(shared Limiter, prober Prober, local *MemoryLimiter, probeInterval time.Duration) *FallbackLimiter {
	if probeInterval <= 0 {
		probeInterval = 10 * time.Second
	}

	l := &FallbackLimiter{
		shared:       shared,
		prober:       prober,
		local:        local,
		probeTimeout: 2 * time.Second,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if shared == nil || prober == nil {
		l.mode.Store(int32(modeFallback))
		close(l.doneCh)
		return l
	}

	// Startup probe sets the initial mode without delaying construction
	// beyond one bounded check.
	ctx, cancel := context.WithTimeout(context.Background(), l.probeTimeout)
	if err := prober.Ping(ctx); err != nil {
		l.mode.Store(int32(modeFallback))
		logger.Warn("rate limiter starting in fallback mode", zap.Error(err))
	}
	cancel()

	go l.probeLoop(probeInterval)
	return l
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if mode(l.mode.Load()) == modeShared {
		d, err := l.shared.Allow(ctx, key)
		if err == nil {
			return d, nil
		}
		l.downgrade(err)
	}
	return l.local.Allow(ctx, key)
}

// InFallback reports the current mode. Exposed for health reporting.
func (l *FallbackLimiter) InFallback() bool {
	return mode(l.mode.Load()) == modeFallback
}

// Close stops the background probe.
func (l *FallbackLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.doneCh
}

func (l *FallbackLimiter) downgrade(cause error) {
	if l.mode.CompareAndSwap(int32(modeShared), int32(modeFallback)) {
		logger.Warn("rate limiter degraded to local fallback mode", zap.Error(cause))
	}
}

func (l *FallbackLimiter) upgrade() {
	if l.mode.CompareAndSwap(int32(modeFallback), int32(modeShared)) {
		logger.Info("rate limiter restored to shared mode")
	}
}

func (l *FallbackLimiter) probeLoop(interval time.Duration) {
	defer close(l.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if mode(l.mode.Load()) != modeFallback {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), l.probeTimeout)
			err := l.prober.Ping(ctx)
			cancel()
			if err == nil {
				l.upgrade()
			}
		case <-l.stopCh:
			return
		}
	}
}
