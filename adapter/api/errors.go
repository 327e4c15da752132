package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
)

// errorResponse is the JSON shape of every error the API returns.
type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError maps a classified domain error to its HTTP status. Unknown
// errors become opaque 500s; their detail stays in the logs.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var de *sharedDomain.Error
	if !errors.As(err, &de) {
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})
		return
	}

	status := statusForKind(de.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:   de.Kind.String(),
		Message: de.Message,
		Fields:  de.Fields,
	})
}

func statusForKind(kind sharedDomain.ErrorKind) int {
	switch kind {
	case sharedDomain.KindValidation:
		return http.StatusBadRequest
	case sharedDomain.KindNotFound:
		return http.StatusNotFound
	case sharedDomain.KindAuthorization:
		return http.StatusForbidden
	case sharedDomain.KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "validation",
		Message: message,
	})
}

// writeUnauthorized reports a missing or invalid credential.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
