package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFreeTier(t *testing.T) {
	ts := newTestServer(t, false)
	body := map[string]string{"code": "print('hi')", "programmingLanguage": "Python"}

	for i := 0; i < 3; i++ {
		resp := ts.do(t, http.MethodPost, "/api/generate/explanation", body, "")
		require.Equal(t, http.StatusOK, resp.status, string(resp.raw))
		assert.Equal(t, "generated text", resp.body["explanation"])
	}

	resp := ts.do(t, http.MethodPost, "/api/generate/explanation", body, "")
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "USAGE_LIMIT_EXCEEDED", resp.body["code"])
	assert.Equal(t, 3, ts.gen.calls)

	token := ts.register(t, "grace")
	for i := 0; i < 4; i++ {
		resp := ts.do(t, http.MethodPost, "/api/generate/explanation", body, token)
		require.Equal(t, http.StatusOK, resp.status)
	}
	assert.Equal(t, 7, ts.gen.calls)

	count := ts.do(t, http.MethodGet, "/api/feature-usage/explanation/count", nil, token)
	assert.EqualValues(t, 4, count.body["count"])
}

func TestGenerateRefusedAfterTrackedFreeUses(t *testing.T) {
	ts := newTestServer(t, false)

	for i := 0; i < 3; i++ {
		resp := ts.do(t, http.MethodPost, "/api/feature-usage/feedback", nil, "")
		require.Equal(t, http.StatusCreated, resp.status)
	}

	resp := ts.do(t, http.MethodPost, "/api/generate/feedback",
		map[string]string{"code": "x = 1", "programmingLanguage": "Python"}, "")
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "USAGE_LIMIT_EXCEEDED", resp.body["code"])
	assert.Equal(t, 0, ts.gen.calls)

	count := ts.do(t, http.MethodGet, "/api/feature-usage/feedback/count", nil, "")
	assert.EqualValues(t, 3, count.body["count"])
}

func TestGenerateEndpoints(t *testing.T) {
	ts := newTestServer(t, false)

	feedback := ts.do(t, http.MethodPost, "/api/generate/feedback",
		map[string]string{"code": "x = ", "programmingLanguage": "Python"}, "")
	require.Equal(t, http.StatusOK, feedback.status)
	assert.Equal(t, "generated text", feedback.body["feedback"])

	project := ts.do(t, http.MethodPost, "/api/generate/project",
		map[string]string{"skillLevel": "Beginner", "programmingLanguage": "Go", "interestArea": "web"}, "")
	require.Equal(t, http.StatusOK, project.status)
	assert.Equal(t, "generated text", project.body["projectIdea"])

	invalid := ts.do(t, http.MethodPost, "/api/generate/project",
		map[string]string{"programmingLanguage": "Go"}, "")
	assert.Equal(t, http.StatusBadRequest, invalid.status)
}

func TestGenerateUpstreamFailureIsNotCharged(t *testing.T) {
	ts := newTestServer(t, false)
	ts.gen.err = errors.New("connection refused")

	resp := ts.do(t, http.MethodPost, "/api/generate/feedback",
		map[string]string{"code": "x", "programmingLanguage": "Go"}, "")
	assert.Equal(t, http.StatusBadGateway, resp.status)
	assert.Equal(t, "UPSTREAM_ERROR", resp.body["code"])
	assert.NotContains(t, string(resp.raw), "connection refused")

	count := ts.do(t, http.MethodGet, "/api/feature-usage/feedback/count", nil, "")
	assert.EqualValues(t, 0, count.body["count"])
}

func TestGenerateExplanationLanguageRequiresAccount(t *testing.T) {
	ts := newTestServer(t, false)
	body := map[string]string{"code": "x := 1", "programmingLanguage": "Go", "explanationLanguage": "French"}

	resp := ts.do(t, http.MethodPost, "/api/generate/explanation", body, "")
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "FORBIDDEN", resp.body["code"])

	token := ts.register(t, "henri")
	resp = ts.do(t, http.MethodPost, "/api/generate/explanation", body, token)
	assert.Equal(t, http.StatusOK, resp.status)
}
