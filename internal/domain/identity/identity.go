// Package identity normalizes raw user-supplied URLs into stable site identities.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidIdentity indicates the raw input could not be normalized into a site identity.
var ErrInvalidIdentity = errors.New("invalid site identity")

// SiteIdentity is the canonical form of a website address. Domain is the
// lowercase host with no scheme and no leading "www." label; Fingerprint is a
// deterministic hex digest of Domain used as the cache and storage key.
type SiteIdentity struct {
	Domain      string `json:"domain"`
	Fingerprint string `json:"fingerprint"`
}

// Normalize canonicalizes a raw URL string into a SiteIdentity. The function is
// pure string transformation: it prepends https:// when no http(s) scheme is
// present, parses, lowercases the host, and strips one leading "www." label.
// Blank input and unparseable input fail with ErrInvalidIdentity.
func Normalize(raw string) (SiteIdentity, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SiteIdentity{}, ErrInvalidIdentity
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return SiteIdentity{}, ErrInvalidIdentity
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return SiteIdentity{}, ErrInvalidIdentity
	}

	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return SiteIdentity{}, ErrInvalidIdentity
	}

	return SiteIdentity{
		Domain:      host,
		Fingerprint: Fingerprint(host),
	}, nil
}

// Fingerprint computes the hex SHA-256 digest of a normalized domain. Equal
// domains always yield equal fingerprints.
func Fingerprint(domain string) string {
	sum := sha256.Sum256([]byte(domain))
	return hex.EncodeToString(sum[:])
}
