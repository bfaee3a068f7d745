package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"codelearn/internal/config"
	"codelearn/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testServer struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
	gen *stubGenerator
}

type stubGenerator struct {
	calls int
	text  string
	err   error
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		Port:          "0",
		JWTSecret:     "server-test-secret-that-is-32-chars!",
		TokenTTLHours: 168,
		BcryptCost:    bcrypt.MinCost,
		FreeTierLimit: 3,
	}
}

// newTestServer builds a Server on in-memory SQLite. withRedis adds a miniredis
// instance for caching and token revocation.
func newTestServer(t *testing.T, withRedis bool) *testServer {
	t.Helper()

	db := testutil.NewTestDB(t)

	var rdb *redis.Client
	if withRedis {
		mr := miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
	}

	gen := &stubGenerator{text: "generated text"}
	srv, err := NewServerWithDeps(testConfig(), db, rdb, gen)
	require.NoError(t, err)

	return &testServer{srv: srv, app: srv.App(), db: db, gen: gen}
}

type apiResponse struct {
	status  int
	body    map[string]any
	raw     []byte
	cookies []*http.Cookie
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{status: resp.StatusCode, raw: raw, cookies: resp.Cookies()}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func registration(username string) map[string]string {
	return map[string]string{
		"username":       username,
		"email":          username + "@example.com",
		"password":       "secret1",
		"fullName":       "Test User",
		"phoneNumber":    "555-0100",
		"profession":     "Student",
		"referralSource": "search",
	}
}

// register creates an account over HTTP and returns its token.
func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/register", registration(username), "")
	require.Equal(t, http.StatusCreated, resp.status, string(resp.raw))
	token, ok := resp.body["token"].(string)
	require.True(t, ok)
	return token
}
