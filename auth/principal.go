package auth

import "strings"

const (
	// RolePrefix is the canonical prefix for role authorities
	RolePrefix = "ROLE_"

	// ScopePrefix marks scope authorities, which are never re-prefixed
	ScopePrefix = "SCOPE_"
)

// Principal is the verified identity attached to a request. It is built fresh
// per request from token claims and discarded when the request completes.
type Principal struct {
	// Subject uniquely identifies the user
	Subject string

	// Authorities is the normalized, de-duplicated authority set. It is
	// never nil; a principal without roles carries an empty slice.
	Authorities []string
}

// NewPrincipal builds a principal with its authority set normalized exactly
// once, so downstream policy checks can use plain string equality.
func NewPrincipal(subject string, authorities []string) *Principal {
	normalized := make([]string, 0, len(authorities))
	seen := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		if a == "" {
			continue
		}
		n := NormalizeAuthority(a)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	return &Principal{Subject: subject, Authorities: normalized}
}

// NormalizeAuthority converts a raw role name to its canonical form. Names
// already carrying the role or scope prefix are left untouched.
func NormalizeAuthority(name string) string {
	if strings.HasPrefix(name, RolePrefix) || strings.HasPrefix(name, ScopePrefix) {
		return name
	}
	return RolePrefix + name
}

// HasAuthority reports whether the authority set contains the exact
// normalized authority string.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole reports whether the principal holds the given role, accepting
// either the plain or prefixed form of the name.
func (p *Principal) HasRole(role string) bool {
	return p.HasAuthority(NormalizeAuthority(role))
}
