package tracking

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRedirectURL(t *testing.T) {
	raw := BuildRedirectURL(
		"http://localhost:8080",
		"https://cal.com/sitepulse/intro",
		"cta_book_call",
		"abc123",
		"example.com",
		"business",
	)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, RedirectPath, parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "https://cal.com/sitepulse/intro", q.Get(ParamDestination))
	assert.Equal(t, "cta_book_call", q.Get(ParamEventType))
	assert.Equal(t, "abc123", q.Get(ParamFingerprint))
	assert.Equal(t, "example.com", q.Get(ParamDomain))
	assert.Equal(t, "business", q.Get(ParamTier))
}

func TestBuildRedirectURLOmitsEmptyParams(t *testing.T) {
	raw := BuildRedirectURL("http://localhost:8080/", "https://example.com", "", "", "", "")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "https://example.com", q.Get(ParamDestination))
	assert.False(t, q.Has(ParamEventType))
	assert.False(t, q.Has(ParamFingerprint))
	assert.False(t, q.Has(ParamDomain))
	assert.False(t, q.Has(ParamTier))
}

func TestBuildRedirectURLTrimsTrailingSlash(t *testing.T) {
	raw := BuildRedirectURL("http://localhost:8080/", "https://example.com", "click", "", "", "")
	assert.Contains(t, raw, "http://localhost:8080/r?")
}

func TestValidDestination(t *testing.T) {
	assert.True(t, ValidDestination("https://cal.com/sitepulse/intro"))
	assert.True(t, ValidDestination("http://example.com"))

	assert.False(t, ValidDestination(""))
	assert.False(t, ValidDestination("javascript:alert(1)"))
	assert.False(t, ValidDestination("//evil.example"))
	assert.False(t, ValidDestination("ftp://example.com"))
	assert.False(t, ValidDestination("cal.com/sitepulse"))
}
