package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stackline/user-gateway/app"
	"github.com/stackline/user-gateway/models"
	"github.com/stackline/user-gateway/utils"
	"go.uber.org/zap"
)

// LoginHandler handles POST /api/auth/login
func LoginHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			deps.Logger.Warn("failed to parse login request", zap.Error(err))
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := utils.ValidateStruct(&req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		resp, err := deps.AuthService.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("user logged in", zap.String("username", req.Username))
		_ = utils.WriteOK(w, resp)
	}
}

// SignupHandler handles POST /api/auth/signup
func SignupHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			deps.Logger.Warn("failed to parse signup request", zap.Error(err))
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := utils.ValidateStruct(&req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		user, err := deps.AuthService.Signup(r.Context(), &req)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("user registered",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username))
		_ = utils.WriteCreated(w, user)
	}
}
