package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)

	l.Info("BOOKING", "hidden")
	l.Warn("BOOKING", "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "[BOOKING")
}

func TestFatalUsesExitHook(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("config", "missing secret")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "missing secret")
	assert.Contains(t, buf.String(), "[CONFIG")
}

func TestMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)

	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tours", nil))

	assert.Contains(t, buf.String(), "GET /tours - 418")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel(""))
}
