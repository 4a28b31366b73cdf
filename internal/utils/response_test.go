package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
)

func TestWriteError_HidesUnexpectedFailures(t *testing.T) {
	var logs bytes.Buffer
	rec := httptest.NewRecorder()

	WriteError(rec, logger.New(&logs, logger.DEBUG), "API", errors.New("db exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error)
	assert.Contains(t, logs.String(), "db exploded")
}

func TestWriteError_SurfacesDomainErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, logger.Discard(), "API", apperrors.NotFound("tour", "T-9"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "tour T-9: not found")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Alps"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Alps", dst.Name)

	for _, body := range []string{``, `{"name":`, `{"unknown":1}`, `{"name":"a"}{"name":"b"}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(req, &dst)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "body %q", body)
	}
}
