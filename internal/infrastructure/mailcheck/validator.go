// Package mailcheck validates contact email addresses before any persisted
// state is written: a syntax check followed by a mail-exchanger lookup on the
// address domain.
package mailcheck

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/pkg/config"
)

var (
	// ErrInvalidEmailFormat indicates the address failed the syntax check.
	ErrInvalidEmailFormat = errors.New("invalid email format")
	// ErrUnreachableEmailDomain indicates the address domain has no usable
	// mail-exchanger records. Resolver failures fold into this error rather
	// than propagating raw network errors.
	ErrUnreachableEmailDomain = errors.New("email domain is not reachable")
)

// Non-space local part, @, non-space domain part containing a dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MXResolver resolves mail-exchanger records. *net.Resolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Validator performs the two-step email check.
type Validator struct {
	resolver MXResolver
	timeout  time.Duration
	logger   *logging.ChanneledLogger
}

// NewValidator creates a validator backed by the default DNS resolver.
func NewValidator(logger *logging.ChanneledLogger) *Validator {
	return &Validator{
		resolver: net.DefaultResolver,
		timeout:  config.MXLookupTimeout,
		logger:   logger,
	}
}

// NewValidatorWithResolver creates a validator with an injected resolver.
func NewValidatorWithResolver(resolver MXResolver, timeout time.Duration, logger *logging.ChanneledLogger) *Validator {
	return &Validator{
		resolver: resolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// ValidateSyntax checks the address shape without any I/O.
func (v *Validator) ValidateSyntax(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// Validate runs the syntax check and then resolves the domain's MX records.
// The MX lookup is bounded by the configured timeout; timeouts and resolver
// errors are treated as "unreachable".
func (v *Validator) Validate(ctx context.Context, email string) error {
	if err := v.ValidateSyntax(email); err != nil {
		return err
	}

	domain := email[strings.LastIndex(email, "@")+1:]

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := time.Now()
	records, err := v.resolver.LookupMX(lookupCtx, domain)
	if err != nil {
		v.logger.Analyze().Debug("MX lookup failed", "domain", domain, "error", err.Error(), "duration", time.Since(start))
		return ErrUnreachableEmailDomain
	}
	if len(records) == 0 {
		v.logger.Analyze().Debug("MX lookup returned no records", "domain", domain, "duration", time.Since(start))
		return ErrUnreachableEmailDomain
	}

	v.logger.Analyze().Debug("MX lookup succeeded", "domain", domain, "records", len(records), "duration", time.Since(start))
	return nil
}
