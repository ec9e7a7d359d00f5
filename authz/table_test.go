package authz

import (
	"net/http"
	"testing"

	"github.com/stackline/user-gateway/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedPolicy(name string, decisions *[]string) Policy {
	return func(p *auth.Principal, rc RouteContext) bool {
		*decisions = append(*decisions, name)
		return true
	}
}

func TestTablePublicAllowlist(t *testing.T) {
	table, err := NewTable(
		[]string{"/api/auth/**", "/api/public/**", "/healthz"},
		nil,
	)
	require.NoError(t, err)

	assert.True(t, table.IsPublic(http.MethodPost, "/api/auth/login"))
	assert.True(t, table.IsPublic(http.MethodGet, "/api/auth"))
	assert.True(t, table.IsPublic(http.MethodGet, "/api/public/assets/logo.png"))
	assert.True(t, table.IsPublic(http.MethodGet, "/healthz"))

	assert.False(t, table.IsPublic(http.MethodGet, "/api/user/42"))
	assert.False(t, table.IsPublic(http.MethodGet, "/healthz/deep"))

	t.Run("pre-flight is always public", func(t *testing.T) {
		assert.True(t, table.IsPublic(http.MethodOptions, "/api/admin/users"))
	})
}

func TestTableMatchPrecedence(t *testing.T) {
	var decided []string
	table, err := NewTable(nil, []Binding{
		// declared least specific first on purpose: ordering must be structural
		{Pattern: "/api/user/**", Policy: namedPolicy("any-user", &decided)},
		{Pattern: "/api/user/{id}/**", Policy: namedPolicy("owner", &decided)},
		{Pattern: "/api/user/profile", Policy: namedPolicy("profile", &decided)},
	})
	require.NoError(t, err)

	run := func(path string) string {
		decided = decided[:0]
		policy, vars := table.Match(http.MethodGet, path)
		policy(nil, RouteContext{Path: path, PathVars: vars})
		require.Len(t, decided, 1, "exactly one policy must decide")
		return decided[0]
	}

	assert.Equal(t, "profile", run("/api/user/profile"))
	assert.Equal(t, "owner", run("/api/user/42"))
	assert.Equal(t, "owner", run("/api/user/42/settings"))
	assert.Equal(t, "any-user", run("/api/user"))
}

func TestTableMatchPathVariables(t *testing.T) {
	table, err := NewTable(nil, []Binding{
		{Pattern: "/api/user/{id}/**", Policy: RequireOwner("id")},
	})
	require.NoError(t, err)

	_, vars := table.Match(http.MethodGet, "/api/user/42")
	assert.Equal(t, map[string]string{"id": "42"}, vars)

	_, vars = table.Match(http.MethodGet, "/api/user/42/settings/email")
	assert.Equal(t, map[string]string{"id": "42"}, vars)
}

func TestTableMethodSets(t *testing.T) {
	var decided []string
	table, err := NewTable(nil, []Binding{
		{Pattern: "/api/reports/**", Methods: []string{"POST"}, Policy: namedPolicy("writer", &decided)},
	})
	require.NoError(t, err)

	policy, _ := table.Match(http.MethodPost, "/api/reports/new")
	policy(nil, RouteContext{})
	assert.Equal(t, []string{"writer"}, decided)

	t.Run("other methods fall through to the default", func(t *testing.T) {
		policy, _ := table.Match(http.MethodGet, "/api/reports/new")
		assert.False(t, policy(nil, RouteContext{}))
		assert.True(t, policy(auth.NewPrincipal("1", nil), RouteContext{}))
	})
}

func TestTableFallback(t *testing.T) {
	table, err := NewTable(nil, []Binding{
		{Pattern: "/api/admin/**", Policy: RequireRole("ADMIN")},
	})
	require.NoError(t, err)

	policy, vars := table.Match(http.MethodGet, "/api/anything/else")
	assert.Nil(t, vars)
	assert.False(t, policy(nil, RouteContext{}))
	assert.True(t, policy(auth.NewPrincipal("42", nil), RouteContext{}))
}

func TestCompilePatternErrors(t *testing.T) {
	_, err := NewTable([]string{"no-leading-slash"}, nil)
	assert.Error(t, err)

	_, err = NewTable(nil, []Binding{{Pattern: "/api/**/users", Policy: RequireAuthenticated()}})
	assert.Error(t, err)

	_, err = NewTable(nil, []Binding{{Pattern: "/api/users"}})
	assert.Error(t, err, "binding without a policy must be rejected")
}
