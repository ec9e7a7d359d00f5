package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when a token cannot be parsed or its signature
	// does not verify
	ErrMalformed = errors.New("malformed token")

	// ErrExpired is returned when the token is outside its validity window
	ErrExpired = errors.New("token expired")

	// ErrIssuerMismatch is returned when the issuer claim does not match the
	// configured issuer
	ErrIssuerMismatch = errors.New("issuer mismatch")
)

const (
	// ClockSkew is the tolerance applied to time-based claim checks
	ClockSkew = 30 * time.Second

	// MinSecretLength is the minimum signing secret length in bytes (256 bits)
	MinSecretLength = 32

	// TypeAccess marks a token usable for request authentication
	TypeAccess = "access"
)

// Claims is the signed payload carried by every issued token
type Claims struct {
	jwt.RegisteredClaims
	Roles     []string `json:"roles"`
	TokenType string   `json:"type"`
}

// Codec issues and verifies HS256-signed access tokens. It holds the signing
// key and issuer loaded once at startup and is safe for concurrent use.
type Codec struct {
	key      []byte
	issuer   string
	lifetime time.Duration
}

// NewCodec creates a token codec. It fails fast when the secret is missing or
// too short to be cryptographically meaningful.
func NewCodec(secret, issuer string, lifetime time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if issuer == "" {
		return nil, errors.New("token issuer is required")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}

	return &Codec{
		key:      []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
	}, nil
}

// Issue signs an access token for the given subject and role list. Expiry is
// always issued-at plus the configured lifetime.
func (c *Codec) Issue(subject string, roles []string, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if roles == nil {
		roles = []string{}
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
		Roles:     roles,
		TokenType: TypeAccess,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string against the given clock reading.
// It returns exactly one of the sentinel error kinds on failure; callers that
// must not leak the kind are responsible for collapsing it.
func (c *Codec) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(ClockSkew),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.Issuer != c.issuer {
		return nil, ErrIssuerMismatch
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrMalformed)
	}
	if claims.TokenType != TypeAccess {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrMalformed, claims.TokenType)
	}

	return claims, nil
}

// Lifetime returns the configured token lifetime.
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}
