package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackline/user-gateway/auth"
	"github.com/stackline/user-gateway/middleware"
	"github.com/stackline/user-gateway/models"
	"github.com/stackline/user-gateway/repositories"
)

// withURLParam attaches a chi route parameter to the request context
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withPrincipal(r *http.Request, subject string, authorities ...string) *http.Request {
	p := auth.NewPrincipal(subject, authorities)
	return r.WithContext(middleware.WithPrincipal(r.Context(), p))
}

func TestProfileHandler(t *testing.T) {
	user := models.NewUser("alice", "alice@example.com", "hash")

	t.Run("returns the caller's own account", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		deps := newTestDeps(t, repo)

		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		req = withPrincipal(req, user.ID.String(), "USER")
		rec := httptest.NewRecorder()
		ProfileHandler(deps)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice")
	})

	t.Run("no principal yields unauthorized", func(t *testing.T) {
		deps := newTestDeps(t, new(MockUserRepository))

		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		rec := httptest.NewRecorder()
		ProfileHandler(deps)(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("subject without account yields not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)
		deps := newTestDeps(t, repo)

		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		req = withPrincipal(req, id.String(), "USER")
		rec := httptest.NewRecorder()
		ProfileHandler(deps)(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSecureDataHandler(t *testing.T) {
	deps := newTestDeps(t, new(MockUserRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/user/secure-data", nil)
	req = withPrincipal(req, "user-1", "USER")
	rec := httptest.NewRecorder()
	SecureDataHandler(deps)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "user-1", response.Data["subject"])
}

func TestGetUserHandler(t *testing.T) {
	user := models.NewUser("alice", "alice@example.com", "hash")

	t.Run("found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		deps := newTestDeps(t, repo)

		req := httptest.NewRequest(http.MethodGet, "/api/user/"+user.ID.String(), nil)
		req = withURLParam(req, "id", user.ID.String())
		rec := httptest.NewRecorder()
		GetUserHandler(deps)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid id format", func(t *testing.T) {
		deps := newTestDeps(t, new(MockUserRepository))

		req := httptest.NewRequest(http.MethodGet, "/api/user/abc", nil)
		req = withURLParam(req, "id", "abc")
		rec := httptest.NewRecorder()
		GetUserHandler(deps)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	user := models.NewUser("alice", "alice@example.com", "hash")

	repo := new(MockUserRepository)
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	deps := newTestDeps(t, repo)

	body, err := json.Marshal(models.UpdateUserRequest{Email: "new@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/user/"+user.ID.String(), bytes.NewReader(body))
	req = withURLParam(req, "id", user.ID.String())
	rec := httptest.NewRecorder()
	UpdateUserHandler(deps)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new@example.com")
	repo.AssertExpectations(t)
}

func TestDeleteUserHandler(t *testing.T) {
	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Delete", mock.Anything, id).Return(nil)
		deps := newTestDeps(t, repo)

		req := httptest.NewRequest(http.MethodDelete, "/api/user/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		rec := httptest.NewRecorder()
		DeleteUserHandler(deps)(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Delete", mock.Anything, id).Return(repositories.ErrNotFound)
		deps := newTestDeps(t, repo)

		req := httptest.NewRequest(http.MethodDelete, "/api/user/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		rec := httptest.NewRecorder()
		DeleteUserHandler(deps)(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
