package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stackline/user-gateway/auth"
	"github.com/stackline/user-gateway/authz"
	"github.com/stackline/user-gateway/utils"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// Decision is the outcome of one pipeline run. Unauthenticated and forbidden
// are distinct: the first means no identity was established, the second means
// an identity was established but lacks permission.
type Decision int

const (
	DecisionGranted Decision = iota
	DecisionForbidden
	DecisionUnauthenticated
)

// Pipeline composes credential extraction, authentication and route-to-policy
// dispatch into one middleware. It holds no per-request state; the binding
// table and authenticator it reads are immutable after startup.
type Pipeline struct {
	table  *authz.Table
	authn  *auth.Authenticator
	logger *zap.Logger
}

// NewPipeline creates the authorization pipeline middleware
func NewPipeline(table *authz.Table, authn *auth.Authenticator, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		table:  table,
		authn:  authn,
		logger: logger,
	}
}

// Handler wraps downstream handlers with the full per-request pipeline:
// allowlist check, bearer extraction, authentication, policy dispatch and
// terminal 401/403 mapping. Authentication failure never short-circuits the
// pipeline; it degrades to anonymous and authorization is what denies.
func (p *Pipeline) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.table.IsPublic(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var principal *auth.Principal
		if raw := ExtractBearer(r); raw != "" {
			principal = p.authn.Authenticate(raw)
		}

		policy, vars := p.table.Match(r.Method, r.URL.Path)
		rc := authz.RouteContext{
			Method:   r.Method,
			Path:     r.URL.Path,
			PathVars: vars,
		}

		switch Decide(policy, principal, rc) {
		case DecisionGranted:
			ctx := r.Context()
			if principal != nil {
				ctx = WithPrincipal(ctx, principal)
			}
			next.ServeHTTP(w, r.WithContext(ctx))

		case DecisionUnauthenticated:
			p.logger.Debug("request denied: no principal",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Unauthorized")

		case DecisionForbidden:
			p.logger.Debug("request denied: policy rejected principal",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.String("sub", principal.Subject))
			_ = utils.WriteForbidden(w, "Access Denied")
		}
	})
}

// Decide evaluates one policy against a principal-or-absent and tags the
// outcome. It is a pure function of its inputs.
func Decide(policy authz.Policy, principal *auth.Principal, rc authz.RouteContext) Decision {
	if policy(principal, rc) {
		return DecisionGranted
	}
	if principal == nil {
		return DecisionUnauthenticated
	}
	return DecisionForbidden
}

// ExtractBearer reads the raw credential from the Authorization header. The
// "Bearer " prefix is matched case-insensitively; anything after it is the
// credential as-is. Absence or a non-bearer scheme is not an error, just no
// credential.
func ExtractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}
