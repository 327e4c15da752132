package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			"validation maps to 400",
			sharedDomain.NewValidationError("invalid task", map[string]string{"title": "cannot be empty"}),
			http.StatusBadRequest,
			"validation",
		},
		{
			"not found maps to 404",
			sharedDomain.NewNotFoundError("task", "abc"),
			http.StatusNotFound,
			"not_found",
		},
		{
			"authorization maps to 403",
			sharedDomain.NewAuthorizationError("not yours"),
			http.StatusForbidden,
			"authorization",
		},
		{
			"external service maps to 502",
			sharedDomain.NewExternalServiceError("model down", errors.New("timeout")),
			http.StatusBadGateway,
			"external_service",
		},
		{
			"persistence maps to 500",
			sharedDomain.NewPersistenceError("save failed", errors.New("disk full")),
			http.StatusInternalServerError,
			"persistence",
		},
		{
			"unclassified maps to opaque 500",
			errors.New("something leaked"),
			http.StatusInternalServerError,
			"internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, discardLogger(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			resp := decodeErrorResponse(t, rec)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestWriteError_UnknownDetailStaysOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, discardLogger(), errors.New("password for db is hunter2"))

	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestWriteError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, discardLogger(), sharedDomain.NewValidationError("invalid task", map[string]string{
		"title": "cannot be empty",
	}))

	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "cannot be empty", resp.Fields["title"])
}

func TestWriteUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUnauthorized(rec, "missing bearer token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "unauthorized", resp.Error)
}

func TestWriteBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	writeBadRequest(rec, "invalid JSON body")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "validation", resp.Error)
	assert.Equal(t, "invalid JSON body", resp.Message)
}
