package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"jimengapi/internal/region"
)

type regionContextKey struct{}

// RegionKey stores the resolved region descriptor in the request context.
var RegionKey = regionContextKey{}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// Region resolves the vendor region for each request. An explicit X-Region
// header wins; otherwise Accept-Language region subtags are tried, then a
// GeoIP country lookup. Requests with no usable hint default to the US site,
// matching the upstream behaviour for unknown regions.
func Region(lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := ResolveRegion(r, lookup)
			ctx := context.WithValue(r.Context(), RegionKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RegionFromContext returns the region stored by the Region middleware.
func RegionFromContext(ctx context.Context) region.Info {
	if v, ok := ctx.Value(RegionKey).(region.Info); ok {
		return v
	}
	return region.US
}

// ResolveRegion resolves a best-effort region descriptor for the request.
func ResolveRegion(r *http.Request, lookup CountryLookup) region.Info {
	if r == nil {
		return region.US
	}
	if info, ok := region.Parse(r.Header.Get("X-Region")); ok {
		return info
	}
	if info, ok := acceptLanguageRegion(r.Header.Get("Accept-Language")); ok {
		return info
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil {
				if info, ok := region.FromCountry(country); ok {
					return info
				}
			}
		}
	}
	return region.US
}

// acceptLanguageRegion extracts the first usable region subtag from an
// Accept-Language header, in the caller's preference order.
func acceptLanguageRegion(header string) (region.Info, bool) {
	if strings.TrimSpace(header) == "" {
		return region.Info{}, false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return region.Info{}, false
	}
	for _, tag := range tags {
		reg, conf := tag.Region()
		// Low confidence means the subtag was guessed, not written out.
		if conf <= language.Low {
			continue
		}
		if info, ok := region.FromCountry(reg.String()); ok {
			return info, true
		}
	}
	return region.Info{}, false
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
