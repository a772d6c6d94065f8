// Package useragent labels User-Agent strings. The labels are consumed as
// opaque strings by analytics; nothing downstream interprets them.
package useragent

import (
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
)

// Parser wraps the uap-go parser with the regex set compiled into the
// library (no external regexes.yaml needed).
type Parser struct {
	parser *uaparser.Parser
}

func NewParser() *Parser {
	return &Parser{parser: uaparser.NewFromSaved()}
}

// Browser returns a "<family> <version>" label, or "Unknown" when the
// User-Agent is empty or unrecognized.
func (p *Parser) Browser(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown"
	}

	ua := p.parser.ParseUserAgent(userAgent)
	if ua.Family == "" || ua.Family == "Other" {
		return "Unknown"
	}

	version := ua.ToVersionString()
	if version == "" {
		return ua.Family
	}
	return ua.Family + " " + version
}

// Device classifies the User-Agent as mobile, tablet, bot, desktop, or
// unknown. Coarse on purpose; analytics only groups by the label.
func (p *Parser) Device(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "unknown"
	}

	lower := strings.ToLower(userAgent)
	for _, marker := range []string{"bot", "crawler", "spider", "scraper"} {
		if strings.Contains(lower, marker) {
			return "bot"
		}
	}

	client := p.parser.Parse(userAgent)
	switch {
	case strings.Contains(client.Device.Family, "iPad"),
		strings.Contains(lower, "tablet"),
		strings.Contains(client.Os.Family, "Android") && !strings.Contains(lower, "mobile"):
		return "tablet"
	case strings.Contains(client.Os.Family, "iOS"),
		strings.Contains(client.Os.Family, "Android"),
		strings.Contains(lower, "mobile"):
		return "mobile"
	case client.Os.Family != "" && client.Os.Family != "Other":
		return "desktop"
	default:
		return "unknown"
	}
}
