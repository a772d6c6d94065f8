// Package visitor composes the User-Agent and geo resolvers into the
// single collaborator the click recorder depends on.
package visitor

import (
	"context"

	"github.com/nexuslabs/nexus-shortener/internal/shortener"
	"github.com/nexuslabs/nexus-shortener/pkg/geo"
	"github.com/nexuslabs/nexus-shortener/pkg/useragent"
)

type Resolver struct {
	ua  *useragent.Parser
	geo geo.Resolver
}

func NewResolver(ua *useragent.Parser, geoResolver geo.Resolver) *Resolver {
	if geoResolver == nil {
		geoResolver = geo.StaticResolver{}
	}
	return &Resolver{ua: ua, geo: geoResolver}
}

func (r *Resolver) Resolve(ctx context.Context, visit shortener.Visit) shortener.Visitor {
	loc := r.geo.Lookup(ctx, visit.IPAddress)

	v := shortener.Visitor{
		Country: loc.Country,
		City:    loc.City,
		Browser: "Unknown",
		Device:  "unknown",
	}
	if r.ua != nil {
		v.Browser = r.ua.Browser(visit.UserAgent)
		v.Device = r.ua.Device(visit.UserAgent)
	}
	return v
}
