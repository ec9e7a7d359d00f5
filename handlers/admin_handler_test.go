package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackline/user-gateway/models"
	"github.com/stackline/user-gateway/repositories"
)

func TestListUsersHandler(t *testing.T) {
	users := []*models.User{
		models.NewUser("alice", "alice@example.com", "hash"),
		models.NewUser("bob", "bob@example.com", "hash"),
	}

	repo := new(MockUserRepository)
	repo.On("List", mock.Anything).Return(users, nil)
	deps := newTestDeps(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	ListUsersHandler(deps)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
	assert.Contains(t, rec.Body.String(), "bob")
}

func TestAdminGetUserHandler(t *testing.T) {
	user := models.NewUser("alice", "alice@example.com", "hash")

	t.Run("found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		deps := newTestDeps(t, repo)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/users/"+user.ID.String(), nil)
		req = withURLParam(req, "id", user.ID.String())
		rec := httptest.NewRecorder()
		AdminGetUserHandler(deps)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)
		deps := newTestDeps(t, repo)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/users/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		rec := httptest.NewRecorder()
		AdminGetUserHandler(deps)(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBulkDisableUsersHandler(t *testing.T) {
	t.Run("disables known accounts and skips unknown ones", func(t *testing.T) {
		known := uuid.New()
		unknown := uuid.New()

		repo := new(MockUserRepository)
		repo.On("SetEnabled", mock.Anything, known, false).Return(nil)
		repo.On("SetEnabled", mock.Anything, unknown, false).Return(repositories.ErrNotFound)
		deps := newTestDeps(t, repo)

		body, err := json.Marshal(models.BulkDisableRequest{
			UserIDs: []string{known.String(), unknown.String()},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/users/bulk-disable", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		BulkDisableUsersHandler(deps)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			Data map[string]int `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 2, response.Data["requested"])
		assert.Equal(t, 1, response.Data["disabled"])
		repo.AssertExpectations(t)
	})

	t.Run("malformed id rejected before any change", func(t *testing.T) {
		repo := new(MockUserRepository)
		deps := newTestDeps(t, repo)

		body, err := json.Marshal(models.BulkDisableRequest{UserIDs: []string{"not-a-uuid"}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/users/bulk-disable", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		BulkDisableUsersHandler(deps)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		repo.AssertNotCalled(t, "SetEnabled", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty list rejected", func(t *testing.T) {
		deps := newTestDeps(t, new(MockUserRepository))

		body, err := json.Marshal(models.BulkDisableRequest{UserIDs: []string{}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/users/bulk-disable", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		BulkDisableUsersHandler(deps)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
