package authz

import "github.com/stackline/user-gateway/auth"

// RouteContext carries the matched-route facts a policy may consult
type RouteContext struct {
	Method   string
	Path     string
	PathVars map[string]string
}

// Var returns the value of a path variable, or "" when absent
func (rc RouteContext) Var(name string) string {
	if rc.PathVars == nil {
		return ""
	}
	return rc.PathVars[name]
}

// Policy decides whether a principal may access a matched route. Policies are
// pure functions: they never error, and an absent principal always denies.
type Policy func(p *auth.Principal, rc RouteContext) bool

// RequireRole grants when the principal holds the given role
func RequireRole(role string) Policy {
	normalized := auth.NormalizeAuthority(role)
	return func(p *auth.Principal, rc RouteContext) bool {
		return p != nil && p.HasAuthority(normalized)
	}
}

// RequireAnyRole grants when the principal holds at least one of the roles
func RequireAnyRole(roles ...string) Policy {
	normalized := make([]string, len(roles))
	for i, r := range roles {
		normalized[i] = auth.NormalizeAuthority(r)
	}
	return func(p *auth.Principal, rc RouteContext) bool {
		if p == nil {
			return false
		}
		for _, r := range normalized {
			if p.HasAuthority(r) {
				return true
			}
		}
		return false
	}
}

// RequireOwner grants when the route's path variable names the principal's
// own subject. The comparison is exact string equality; a missing variable
// denies.
func RequireOwner(pathVar string) Policy {
	return func(p *auth.Principal, rc RouteContext) bool {
		if p == nil {
			return false
		}
		target := rc.Var(pathVar)
		return target != "" && target == p.Subject
	}
}

// RequireScope grants when the principal carries the exact scope marker
func RequireScope(scope string) Policy {
	return func(p *auth.Principal, rc RouteContext) bool {
		return p != nil && p.HasAuthority(scope)
	}
}

// RequireAuthenticated grants any established identity. It is the fallback
// for routes without an explicit binding.
func RequireAuthenticated() Policy {
	return func(p *auth.Principal, rc RouteContext) bool {
		return p != nil
	}
}
