package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	utils.Logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func statusServer(t *testing.T, status int) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseTargets(t *testing.T) {
	assert.Equal(t, []string{"http://a/health", "http://b/health"}, parseTargets(" http://a/health, ,http://b/health "))
	assert.Empty(t, parseTargets(""))
}

func TestHealthAllUp(t *testing.T) {
	c := &healthChecker{
		targets: []string{statusServer(t, http.StatusOK).URL, statusServer(t, http.StatusOK).URL},
		client:  http.DefaultClient,
	}
	rec := httptest.NewRecorder()
	c.handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestHealthReportsUnhealthyTargets(t *testing.T) {
	down := statusServer(t, http.StatusServiceUnavailable).URL
	c := &healthChecker{
		targets: []string{statusServer(t, http.StatusOK).URL, down, "http://127.0.0.1:1/health"},
		client:  http.DefaultClient,
	}
	rec := httptest.NewRecorder()
	c.handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), down)
	assert.Contains(t, rec.Body.String(), "127.0.0.1:1")
}
