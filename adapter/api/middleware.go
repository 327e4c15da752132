package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/observability"
)

type authUserKey struct{}

// requestMiddleware stamps request and correlation ids, logs every
// request with its duration, and records request metrics.
func requestMiddleware(logger *slog.Logger, metrics observability.Metrics, next http.Handler) http.Handler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get("X-Correlation-ID"))
		r = r.WithContext(ctx)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(start)

		tags := []observability.Tag{
			observability.T("method", r.Method),
			observability.T("status", strconv.Itoa(recorder.status)),
		}
		metrics.Counter(observability.MetricHTTPRequests, 1, tags...)
		metrics.Timing(observability.MetricHTTPDuration, elapsed, tags...)

		logger.InfoContext(ctx, "request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.Int64(observability.DurationKey, elapsed.Milliseconds()),
		)
	})
}

// tokenVerifier validates an access token and returns the user it
// belongs to.
type tokenVerifier interface {
	VerifyAccess(raw string) (uuid.UUID, error)
}

// authMiddleware requires a valid bearer token and puts the
// authenticated user id on the request context.
func authMiddleware(verifier tokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeUnauthorized(w, "missing bearer token")
			return
		}

		userID, err := verifier.VerifyAccess(raw)
		if err != nil {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), authUserKey{}, userID)
		ctx = observability.WithUserID(ctx, userID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// authenticatedUser returns the user id placed by authMiddleware.
func authenticatedUser(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(authUserKey{}).(uuid.UUID)
	return id, ok
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
