package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stackline/user-gateway/app"
	"github.com/stackline/user-gateway/models"
	"github.com/stackline/user-gateway/utils"
	"go.uber.org/zap"
)

// ListUsersHandler handles GET /api/admin/users
func ListUsersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.UserService.List(r.Context())
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Debug("listed users", zap.Int("count", len(users)))
		_ = utils.WriteOK(w, users)
	}
}

// AdminGetUserHandler handles GET /api/admin/users/{id}
func AdminGetUserHandler(deps *app.Dependencies) http.HandlerFunc {
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

// AdminDeleteUserHandler handles DELETE /api/admin/users/{id}
func AdminDeleteUserHandler(deps *app.Dependencies) http.HandlerFunc {
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

		deps.Logger.Info("user deleted by admin", zap.String("user_id", userID.String()))
		utils.WriteNoContent(w)
	}
}

// BulkDisableUsersHandler handles POST /api/admin/users/bulk-disable
func BulkDisableUsersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.BulkDisableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			deps.Logger.Warn("failed to parse bulk disable request", zap.Error(err))
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := utils.ValidateStruct(&req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		ids := make([]uuid.UUID, 0, len(req.UserIDs))
		for _, raw := range req.UserIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				_ = utils.WriteBadRequest(w, "Invalid user ID format", map[string]string{"user_id": raw})
				return
			}
			ids = append(ids, id)
		}

		disabled, err := deps.UserService.BulkDisable(r.Context(), ids)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("bulk disabled users",
			zap.Int("requested", len(ids)),
			zap.Int("disabled", disabled))
		_ = utils.WriteOK(w, map[string]interface{}{
			"requested": len(ids),
			"disabled":  disabled,
		})
	}
}
