// Package geo resolves client IPs to country/city labels via an external
// HTTP geolocation service. The labels are opaque to the rest of the
// system; when no service is configured every lookup is "Unknown".
package geo

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nexuslabs/nexus-shortener/pkg/httpclient"
)

// Location is the resolved place of a client IP.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

var unknown = Location{Country: "Unknown", City: "Unknown"}

// Resolver looks up the location of an IP address. Implementations must be
// safe for concurrent use.
type Resolver interface {
	Lookup(ctx context.Context, ip string) Location
}

// StaticResolver always answers "Unknown". Used when no geolocation
// endpoint is configured.
type StaticResolver struct{}

func (StaticResolver) Lookup(context.Context, string) Location {
	return unknown
}

// HTTPResolver queries a geolocation endpoint (GET {endpoint}?ip={ip})
// through the retrying circuit-breaker client. Any failure resolves to
// "Unknown"; geolocation never breaks click recording.
type HTTPResolver struct {
	endpoint string
	client   *httpclient.Client
}

func NewHTTPResolver(endpoint string, timeout time.Duration) *HTTPResolver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPResolver{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   httpclient.NewClient(timeout, 5, 30*time.Second),
	}
}

func (r *HTTPResolver) Lookup(ctx context.Context, ip string) Location {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return unknown
	}

	resp, err := r.client.Get(ctx, r.endpoint, map[string]string{"ip": ip}, nil)
	if err != nil {
		return unknown
	}
	defer resp.Body.Close()

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return unknown
	}
	if loc.Country == "" {
		loc.Country = "Unknown"
	}
	if loc.City == "" {
		loc.City = "Unknown"
	}
	return loc
}
