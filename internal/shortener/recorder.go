package shortener

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Recorder appends click events and bumps the cached counter off the
// redirect path. Enqueue never blocks: when the queue is full the click is
// dropped and counted, per the log-and-drop policy. The event append and
// the counter increment are two separate writes; the event log stays
// authoritative when they diverge.
type Recorder struct {
	urls     URLRepository
	clicks   ClickRepository
	resolver VisitorResolver

	queue      chan pendingClick
	opTimeout  time.Duration
	now        func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}

	dropped atomic.Int64
}

type pendingClick struct {
	code  string
	at    time.Time
	visit Visit
}

type RecorderOptions struct {
	QueueSize int
	OpTimeout time.Duration
}

func NewRecorder(urls URLRepository, clicks ClickRepository, resolver VisitorResolver, opts RecorderOptions) *Recorder {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 10_000
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 2 * time.Second
	}

	r := &Recorder{
		urls:      urls,
		clicks:    clicks,
		resolver:  resolver,
		queue:     make(chan pendingClick, opts.QueueSize),
		opTimeout: opts.OpTimeout,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}

	go r.loop()
	return r
}

// Record enqueues one click. Safe to call from any number of goroutines.
func (r *Recorder) Record(code string, at time.Time, visit Visit) {
	if code == "" {
		return
	}

	select {
	case r.queue <- pendingClick{code: code, at: at.UTC(), visit: visit}:
	default:
		r.dropped.Add(1)
	}
}

// Dropped reports how many clicks were discarded because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Shutdown stops the worker after draining queued clicks, or returns early
// when ctx expires.
func (r *Recorder) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stopCh) })

	select {
	case <-r.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) loop() {
	defer close(r.doneCh)

	for {
		select {
		case p := <-r.queue:
			r.persist(p)
		case <-r.stopCh:
			for {
				select {
				case p := <-r.queue:
					r.persist(p)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) persist(p pendingClick) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()

	visitor := Visitor{Country: "Unknown", City: "Unknown"}
	if r.resolver != nil {
		visitor = r.resolver.Resolve(ctx, p.visit)
	}

	event := &ClickEvent{
		ID:        uuid.New().String(),
		ShortCode: p.code,
		ClickedAt: p.at,
		IPAddress: p.visit.IPAddress,
		UserAgent: p.visit.UserAgent,
		Referer:   p.visit.Referer,
		Country:   visitor.Country,
		City:      visitor.City,
		Browser:   visitor.Browser,
		Device:    visitor.Device,
	}

	if err := r.clicks.Append(ctx, event); err != nil {
		r.dropped.Add(1)
		logger.Warn("failed to append click event",
			zap.Error(err),
			zap.String("code", p.code),
		)
		return
	}

	if err := r.urls.IncrementClicks(ctx, p.code); err != nil {
		// The event is already in the log; the cached counter lags until
		// rebuilt. Not fatal.
		logger.Warn("failed to increment click counter",
			zap.Error(err),
			zap.String("code", p.code),
		)
	}
}
