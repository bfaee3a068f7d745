package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codelearn/internal/database"
	"codelearn/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecks(t *testing.T) {
	ts := newTestServer(t, true)

	live := ts.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, live.status)
	assert.Equal(t, "up", live.body["status"])

	ready := ts.do(t, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, ready.status)
	checks := ready.body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "healthy", checks["redis"])
}

func TestReadinessWithoutRedis(t *testing.T) {
	ts := newTestServer(t, false)

	ready := ts.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, ready.status)
	checks := ready.body["checks"].(map[string]any)
	assert.Equal(t, "disabled", checks["redis"])
}

func TestReadinessReportsDatabaseOutage(t *testing.T) {
	ts := newTestServer(t, false)
	require.NoError(t, database.Close(ts.db))

	ready := ts.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, ready.status)
	assert.Equal(t, "unhealthy", ready.body["status"])
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodGet, "/api/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.NotEmpty(t, resp.body["error"])
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	ts := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestNewServerWithDepsRequiresDatabase(t *testing.T) {
	_, err := NewServerWithDeps(testConfig(), nil, nil, nil)
	assert.Error(t, err)
}

func TestCORSUsesConfiguredOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = " https://codelearn.test , ,https://admin.codelearn.test"
	srv, err := NewServerWithDeps(cfg, testutil.NewTestDB(t), nil, nil)
	require.NoError(t, err)
	app := srv.App()

	preflight := func(origin string) string {
		req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return resp.Header.Get("Access-Control-Allow-Origin")
	}

	assert.Equal(t, "https://admin.codelearn.test", preflight("https://admin.codelearn.test"))
	assert.Empty(t, preflight("https://evil.test"))
}

func TestLegacyRouteAliases(t *testing.T) {
	ts := newTestServer(t, false)
	code := map[string]string{"code": "print(1)", "programmingLanguage": "Python"}

	explanation := ts.do(t, http.MethodPost, "/api/code-explanation", code, "")
	require.Equal(t, http.StatusOK, explanation.status)
	assert.Equal(t, "generated text", explanation.body["explanation"])

	feedback := ts.do(t, http.MethodPost, "/api/code-feedback", code, "")
	require.Equal(t, http.StatusOK, feedback.status)
	assert.Equal(t, "generated text", feedback.body["feedback"])

	idea := ts.do(t, http.MethodPost, "/api/project-ideas",
		map[string]string{"programmingLanguage": "Go", "interestArea": "games"}, "")
	require.Equal(t, http.StatusOK, idea.status)
	assert.Equal(t, "generated text", idea.body["projectIdea"])

	count := ts.do(t, http.MethodGet, "/api/feature-usage/explanation/count", nil, "")
	assert.EqualValues(t, 1, count.body["count"])

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/user", nil, "").status)
	assert.Equal(t, http.StatusUnauthorized,
		ts.do(t, http.MethodPost, "/api/save-project", map[string]string{"title": "x", "content": "y"}, "").status)

	token := ts.register(t, "legacy")
	me := ts.do(t, http.MethodGet, "/api/user", nil, token)
	require.Equal(t, http.StatusOK, me.status)
	assert.Equal(t, "legacy", me.body["user"].(map[string]any)["username"])

	saved := ts.do(t, http.MethodPost, "/api/save-project",
		map[string]string{"title": "Snake", "content": "steps"}, token)
	require.Equal(t, http.StatusCreated, saved.status, string(saved.raw))
	assert.Equal(t, "Snake", saved.body["title"])
}
