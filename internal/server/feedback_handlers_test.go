package server

import (
	"net/http"
	"testing"

	"codelearn/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.register(t, "liam")

	anon := ts.do(t, http.MethodPost, "/api/feedback",
		map[string]string{"name": "Visitor", "email": "visitor@example.com", "feedback": "Nice"}, "")
	require.Equal(t, http.StatusCreated, anon.status)

	linked := ts.do(t, http.MethodPost, "/api/feedback",
		map[string]string{"name": "Liam", "email": "liam@example.com", "feedback": "More languages"}, token)
	require.Equal(t, http.StatusCreated, linked.status)

	var rows []models.UserFeedback
	require.NoError(t, ts.db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].UserID)
	require.NotNil(t, rows[1].UserID)

	bad := ts.do(t, http.MethodPost, "/api/feedback", map[string]string{"name": "x", "feedback": "y"}, "")
	assert.Equal(t, http.StatusBadRequest, bad.status)
}

func TestEarlyAccess(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodPost, "/api/early-access", map[string]string{"email": "first@example.com"}, "")
	require.Equal(t, http.StatusCreated, resp.status)

	dup := ts.do(t, http.MethodPost, "/api/early-access", map[string]string{"email": "FIRST@example.com"}, "")
	assert.Equal(t, http.StatusConflict, dup.status)

	invalid := ts.do(t, http.MethodPost, "/api/early-access", map[string]string{"email": "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, invalid.status)

	count := ts.do(t, http.MethodGet, "/api/early-access/count", nil, "")
	require.Equal(t, http.StatusOK, count.status)
	assert.EqualValues(t, 1, count.body["count"])
}
