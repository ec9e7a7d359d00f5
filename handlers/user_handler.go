package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stackline/user-gateway/app"
	"github.com/stackline/user-gateway/middleware"
	"github.com/stackline/user-gateway/models"
	"github.com/stackline/user-gateway/utils"
	"go.uber.org/zap"
)

// ProfileHandler handles GET /api/user/profile. It resolves the account of
// whoever the verified token identifies, so no path parameter is needed.
func ProfileHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := middleware.GetPrincipalFromContext(r.Context())
		if principal == nil {
			_ = utils.WriteUnauthorized(w, "Unauthorized")
			return
		}

		user, err := deps.UserService.GetBySubject(r.Context(), principal.Subject)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, user)
	}
}

// SecureDataHandler handles GET /api/user/secure-data
func SecureDataHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := middleware.GetPrincipalFromContext(r.Context())
		if principal == nil {
			_ = utils.WriteUnauthorized(w, "Unauthorized")
			return
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"message":     "Secure user data",
			"subject":     principal.Subject,
			"authorities": principal.Authorities,
		})
	}
}

// GetUserHandler handles GET /api/user/{id}. Ownership is enforced by the
// security pipeline before this handler runs.
func GetUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid user ID format", nil)
			return
		}

		user, err := deps.UserService.GetByID(r.Context(), userID)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, user)
	}
}

// UpdateUserHandler handles PUT /api/user/{id}
func UpdateUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid user ID format", nil)
			return
		}

		var req models.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			deps.Logger.Warn("failed to parse update request", zap.Error(err))
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := utils.ValidateStruct(&req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		user, err := deps.UserService.Update(r.Context(), userID, &req)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("user updated", zap.String("user_id", userID.String()))
		_ = utils.WriteOK(w, user)
	}
}

// DeleteUserHandler handles DELETE /api/user/{id}
func DeleteUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid user ID format", nil)
			return
		}

		if err := deps.UserService.Delete(r.Context(), userID); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("user deleted", zap.String("user_id", userID.String()))
		utils.WriteNoContent(w)
	}
}
