package shortener

import "time"

// URLRecord is the durable mapping of a short code to its destination.
// ShortCode is unique and immutable once created; codes are never reused,
// even after deactivation.
type URLRecord struct {
	ID          string
	OriginalURL string
	ShortCode   string
	CreatedAt   time.Time
	ClickCount  int64
	IsActive    bool
	CreatorIP   string
}

// ClickEvent is the immutable record of one redirect traversal. The event
// log is authoritative for analytics; URLRecord.ClickCount is a cached
// fast-path value derived from it.
type ClickEvent struct {
	ID        string
	ShortCode string
	ClickedAt time.Time
	IPAddress string
	UserAgent string
	Referer   string
	Country   string
	City      string
	Browser   string
	Device    string
}

// Visit carries the raw request metadata captured at redirect time,
// before any resolver has run.
type Visit struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// Visitor is the resolved view of a Visit. All fields are opaque labels
// supplied by the configured resolvers.
type Visitor struct {
	Country string
	City    string
	Browser string
	Device  string
}

type CreateURLInput struct {
	OriginalURL string
	CustomCode  string
	CreatorIP   string
}

// LabelCount is one entry of a top-N breakdown, ordered by count
// descending with ties broken by first appearance in the event stream.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DailyCount is the number of clicks in one UTC calendar day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Summary aggregates the click events of one short code over a window.
type Summary struct {
	TotalClicks    int64        `json:"total_clicks"`
	UniqueVisitors int64        `json:"unique_visitors"`
	TopCountries   []LabelCount `json:"top_countries"`
	TopReferrers   []LabelCount `json:"top_referrers"`
	ClickHistory   []DailyCount `json:"click_history"`
	BrowserStats   []LabelCount `json:"browser_stats"`
}
