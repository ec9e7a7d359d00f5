package handlers

import (
	"net/http"

	"github.com/stackline/user-gateway/app"
	"github.com/stackline/user-gateway/middleware"
	"github.com/stackline/user-gateway/utils"
)

// SpecialDataHandler handles GET /api/special/x. Access requires the
// SCOPE_special authority, which the security pipeline checks before the
// request reaches this handler.
func SpecialDataHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := middleware.GetPrincipalFromContext(r.Context())
		if principal == nil {
			_ = utils.WriteUnauthorized(w, "Unauthorized")
			return
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"message": "Special data",
			"subject": principal.Subject,
		})
	}
}

// PublicInfoHandler handles GET /api/public/info. No authentication is
// required; a principal may still be present if a valid token was sent.
func PublicInfoHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, map[string]interface{}{
			"service": "user-gateway",
			"message": "Public information",
		})
	}
}
