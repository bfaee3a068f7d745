package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodPost, "/api/register", registration("alice"), "")
	require.Equal(t, http.StatusCreated, resp.status)
	assert.NotEmpty(t, resp.body["token"])

	user, ok := resp.body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, string(resp.raw), "$2a$")

	require.Len(t, resp.cookies, 1)
	cookie := resp.cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, resp.body["token"], cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
}

func TestRegisterFailures(t *testing.T) {
	ts := newTestServer(t, false)
	ts.register(t, "taken")

	dupEmail := registration("fresh")
	dupEmail["email"] = "taken@example.com"

	short := registration("shortpw")
	short["password"] = "12345"

	missing := registration("noprofile")
	delete(missing, "profession")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"duplicate username", registration("taken"), http.StatusConflict, "CONFLICT"},
		{"duplicate email", dupEmail, http.StatusConflict, "CONFLICT"},
		{"short password", short, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing profile field", missing, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPost, "/api/register", tt.body, "")
			assert.Equal(t, tt.status, resp.status)
			assert.Equal(t, tt.code, resp.body["code"])
			assert.NotEmpty(t, resp.body["error"])
		})
	}
}

func TestRegisterInvalidBody(t *testing.T) {
	ts := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, false)
	ts.register(t, "bob")

	t.Run("by username", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/api/login", map[string]string{"username": "bob", "password": "secret1"}, "")
		assert.Equal(t, http.StatusOK, resp.status)
		assert.NotEmpty(t, resp.body["token"])
	})

	t.Run("by email in email field", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@example.com", "password": "secret1"}, "")
		assert.Equal(t, http.StatusOK, resp.status)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/api/login", map[string]string{"username": "bob"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.status)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		wrong := ts.do(t, http.MethodPost, "/api/login", map[string]string{"username": "bob", "password": "nope123"}, "")
		unknown := ts.do(t, http.MethodPost, "/api/login", map[string]string{"username": "nobody", "password": "nope123"}, "")

		assert.Equal(t, http.StatusUnauthorized, wrong.status)
		assert.Equal(t, http.StatusUnauthorized, unknown.status)
		assert.Equal(t, wrong.body, unknown.body)
		assert.Equal(t, "INVALID_CREDENTIALS", wrong.body["code"])
	})
}

func TestMe(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.register(t, "carol")

	t.Run("bearer token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/me", nil, token)
		require.Equal(t, http.StatusOK, resp.status)
		user := resp.body["user"].(map[string]any)
		assert.Equal(t, "carol", user["username"])
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("no token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Equal(t, "UNAUTHORIZED", resp.body["code"])
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/me", nil, "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t, true)
	token := ts.register(t, "dave")

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/me", nil, token).status)

	resp := ts.do(t, http.MethodPost, "/api/logout", nil, token)
	assert.Equal(t, http.StatusOK, resp.status)
	require.NotEmpty(t, resp.cookies)
	assert.Equal(t, "token", resp.cookies[0].Name)
	assert.Empty(t, resp.cookies[0].Value)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/me", nil, token).status)
}

func TestLogoutWithoutTokenSucceeds(t *testing.T) {
	ts := newTestServer(t, false)
	resp := ts.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, resp.status)
}

func TestUpdatePassword(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.register(t, "erin")

	wrong := ts.do(t, http.MethodPost, "/api/update-password",
		map[string]string{"currentPassword": "bad-guess", "newPassword": "newsecret"}, token)
	assert.Equal(t, http.StatusUnauthorized, wrong.status)

	invalid := ts.do(t, http.MethodPost, "/api/update-password",
		map[string]string{"currentPassword": "secret1", "newPassword": "123"}, token)
	assert.Equal(t, http.StatusBadRequest, invalid.status)

	ok := ts.do(t, http.MethodPost, "/api/update-password",
		map[string]string{"currentPassword": "secret1", "newPassword": "newsecret"}, token)
	require.Equal(t, http.StatusOK, ok.status)
	assert.Equal(t, true, ok.body["success"])

	old := ts.do(t, http.MethodPost, "/api/login", map[string]string{"username": "erin", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, old.status)
	fresh := ts.do(t, http.MethodPost, "/api/login", map[string]string{"username": "erin", "password": "newsecret"}, "")
	assert.Equal(t, http.StatusOK, fresh.status)

	unauth := ts.do(t, http.MethodPost, "/api/update-password",
		map[string]string{"currentPassword": "newsecret", "newPassword": "another1"}, "")
	assert.Equal(t, http.StatusUnauthorized, unauth.status)
}
