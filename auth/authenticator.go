package auth

import (
	"time"

	"github.com/stackline/user-gateway/token"
	"go.uber.org/zap"
)

// TokenVerifier verifies a signed token string against a clock reading
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (*token.Claims, error)
}

// Authenticator turns a raw bearer credential into a verified principal. It
// deliberately collapses every verification failure kind into "no principal":
// the distinction is logged for diagnostics but never exposed to callers, so
// the request outcome cannot be used as a token oracle.
type Authenticator struct {
	verifier TokenVerifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthenticator creates an authenticator backed by the given verifier
func NewAuthenticator(verifier TokenVerifier, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the clock source. Intended for tests.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Authenticate verifies the raw credential and returns the resulting
// principal, or nil when verification fails for any reason.
func (a *Authenticator) Authenticate(rawCredential string) *Principal {
	if rawCredential == "" {
		return nil
	}

	claims, err := a.verifier.Verify(rawCredential, a.now())
	if err != nil {
		a.logger.Debug("token verification failed", zap.Error(err))
		return nil
	}

	p := NewPrincipal(claims.Subject, claims.Roles)
	a.logger.Debug("authenticated", zap.String("sub", p.Subject))
	return p
}
