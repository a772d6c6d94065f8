package events

// ClickRecorded is emitted when a redirect is served for a short code.
// It carries the raw visitor metadata; country/city/browser resolution
// happens on the consumer side.
type ClickRecorded struct {
	EventID    string `json:"eventId"`
	ShortCode  string `json:"shortCode"`
	OccurredAt string `json:"occurredAt"`
	IPAddress  string `json:"ipAddress,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
	Referer    string `json:"referer,omitempty"`
}
