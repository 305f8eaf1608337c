// Package tracking builds and validates tracked redirect links. Outbound
// links in notifications never expose their destination directly; recipients
// always pass through the public /r endpoint so the click can be logged first.
package tracking

import (
	"net/url"
	"strings"
)

// RedirectPath is the fixed public path of the redirect/event endpoint.
const RedirectPath = "/r"

// Query parameter names on the redirect endpoint.
const (
	ParamDestination = "to" // true destination URL, required
	ParamEventType   = "e"  // event type tag, defaults to "click"
	ParamFingerprint = "h"  // report fingerprint correlation
	ParamDomain      = "d"  // site domain correlation
	ParamTier        = "t"  // recommended tier correlation
)

// DefaultEventType is recorded when the inbound click carries no tag.
const DefaultEventType = "click"

// BuildRedirectURL encodes a destination plus correlation fields as query
// parameters on the public redirect path.
func BuildRedirectURL(baseURL, destination, eventType, fingerprint, domain, tier string) string {
	values := url.Values{}
	values.Set(ParamDestination, destination)
	if eventType != "" {
		values.Set(ParamEventType, eventType)
	}
	if fingerprint != "" {
		values.Set(ParamFingerprint, fingerprint)
	}
	if domain != "" {
		values.Set(ParamDomain, domain)
	}
	if tier != "" {
		values.Set(ParamTier, tier)
	}

	return strings.TrimRight(baseURL, "/") + RedirectPath + "?" + values.Encode()
}

// ValidDestination reports whether a redirect destination is safe to follow.
// Only absolute http(s) URLs qualify; anything else fails closed.
func ValidDestination(destination string) bool {
	return strings.HasPrefix(destination, "http://") || strings.HasPrefix(destination, "https://")
}
