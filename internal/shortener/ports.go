package shortener

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound covers both codes that never existed and deactivated
	// codes; callers cannot distinguish the two.
	ErrNotFound = errors.New("short url not found")
	// ErrCodeTaken signals a uniqueness violation on insert.
	ErrCodeTaken = errors.New("short code already taken")
	// ErrGenerationExhausted signals that the bounded generate-and-insert
	// loop ran out of attempts. The code space is saturated at the
	// configured length.
	ErrGenerationExhausted = errors.New("short code generation exhausted")
	ErrInvalidURL          = errors.New("invalid url")
	ErrInvalidCustomCode   = errors.New("invalid custom code")
	ErrInvalidRange        = errors.New("invalid date range")
)

// URLRepository is the durable store of URL records. Insert must be an
// atomic create-if-absent keyed by short code, and IncrementClicks must be
// an atomic counter bump safe under concurrent redirects to a hot code.
type URLRepository interface {
	Insert(ctx context.Context, record *URLRecord) error
	FindActiveByCode(ctx context.Context, code string) (*URLRecord, error)
	IncrementClicks(ctx context.Context, code string) error
	List(ctx context.Context, offset, limit int64) ([]URLRecord, error)
}

// ClickRepository is the append-only click event log. Events are never
// updated or deleted. Iterate streams events for one code within
// [since, until] ordered by clicked-at timestamp, invoking fn per event.
type ClickRepository interface {
	Append(ctx context.Context, event *ClickEvent) error
	Iterate(ctx context.Context, code string, since, until time.Time, fn func(ClickEvent) error) error
}

// CodeGenerator produces random short code candidates. Collisions are
// detected by the store's unique index, not by the generator.
type CodeGenerator interface {
	Generate() (string, error)
}

// VisitorResolver turns raw visit metadata into opaque labels. The core
// never interprets the labels beyond grouping by them.
type VisitorResolver interface {
	Resolve(ctx context.Context, visit Visit) Visitor
}

// ClickSink accepts a click for eventual recording. Implementations must
// not block the redirect path.
type ClickSink interface {
	Record(code string, at time.Time, visit Visit)
}
