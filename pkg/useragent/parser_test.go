package useragent

import (
	"strings"
	"testing"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	firefoxLinuxUA  = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	iphoneSafariUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
	ipadUA          = "Mozilla/5.0 (iPad; CPU OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
	googlebotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestBrowser(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name       string
		userAgent  string
		wantPrefix string
	}{
		{"chrome", chromeDesktopUA, "Chrome"},
		{"firefox", firefoxLinuxUA, "Firefox"},
		{"mobile safari", iphoneSafariUA, "Mobile Safari"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Browser(tt.userAgent)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("Browser() = %q, want prefix %q", got, tt.wantPrefix)
			}
			// Family alone is acceptable, but a recognized UA must not be Unknown.
			if got == "Unknown" {
				t.Errorf("Browser() = Unknown for recognized UA")
			}
		})
	}
}

func TestBrowserUnknown(t *testing.T) {
	p := NewParser()

	for _, ua := range []string{"", "   ", "definitely-not-a-browser/0.0"} {
		if got := p.Browser(ua); got != "Unknown" {
			t.Errorf("Browser(%q) = %q, want Unknown", ua, got)
		}
	}
}

func TestDevice(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"desktop chrome", chromeDesktopUA, "desktop"},
		{"desktop firefox", firefoxLinuxUA, "desktop"},
		{"iphone", iphoneSafariUA, "mobile"},
		{"ipad", ipadUA, "tablet"},
		{"googlebot", googlebotUA, "bot"},
		{"empty", "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Device(tt.userAgent); got != tt.want {
				t.Errorf("Device() = %q, want %q", got, tt.want)
			}
		})
	}
}
