package shortener

import (
	"context"
	"sort"
	"time"
)

const defaultTopN = 10

// Aggregator is a read-side view over the URL store and the click event
// log. It holds no state of its own; Summarize is a single streaming pass
// with one accumulator per metric.
type Aggregator struct {
	urls   URLRepository
	clicks ClickRepository
	topN   int
}

func NewAggregator(urls URLRepository, clicks ClickRepository) *Aggregator {
	return &Aggregator{
		urls:   urls,
		clicks: clicks,
		topN:   defaultTopN,
	}
}

// labelCounter counts occurrences while remembering first-seen order, the
// tie-break for equal counts.
type labelCounter struct {
	counts map[string]int64
	order  map[string]int
	next   int
}

func newLabelCounter() *labelCounter {
	return &labelCounter{
		counts: make(map[string]int64),
		order:  make(map[string]int),
	}
}

func (c *labelCounter) add(label string) {
	if label == "" {
		return
	}
	if _, seen := c.order[label]; !seen {
		c.order[label] = c.next
		c.next++
	}
	c.counts[label]++
}

func (c *labelCounter) top(n int) []LabelCount {
	out := make([]LabelCount, 0, len(c.counts))
	for label, count := range c.counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return c.order[out[i].Label] < c.order[out[j].Label]
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Summarize computes the Summary for one code over [since, until].
// Unknown and inactive codes yield ErrNotFound. Re-running against an
// unchanged event set returns identical output.
func (a *Aggregator) Summarize(ctx context.Context, code string, since, until time.Time) (*Summary, error) {
	if _, err := a.urls.FindActiveByCode(ctx, code); err != nil {
		return nil, err
	}

	since = since.UTC()
	until = until.UTC()
	if until.Before(since) {
		return nil, ErrInvalidRange
	}

	var total int64
	uniqueIPs := make(map[string]struct{})
	countries := newLabelCounter()
	referrers := newLabelCounter()
	browsers := newLabelCounter()
	history := make(map[string]int64)

	err := a.clicks.Iterate(ctx, code, since, until, func(ev ClickEvent) error {
		total++
		if ev.IPAddress != "" {
			uniqueIPs[ev.IPAddress] = struct{}{}
		}
		countries.add(ev.Country)
		referrers.add(ev.Referer)
		browsers.add(ev.Browser)
		history[ev.ClickedAt.UTC().Format(time.DateOnly)]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	days := make([]string, 0, len(history))
	for day := range history {
		days = append(days, day)
	}
	sort.Strings(days)

	clickHistory := make([]DailyCount, 0, len(days))
	for _, day := range days {
		clickHistory = append(clickHistory, DailyCount{Date: day, Count: history[day]})
	}

	return &Summary{
		TotalClicks:    total,
		UniqueVisitors: int64(len(uniqueIPs)),
		TopCountries:   countries.top(a.topN),
		TopReferrers:   referrers.top(a.topN),
		ClickHistory:   clickHistory,
		BrowserStats:   browsers.top(a.topN),
	}, nil
}
