package http

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"loan-advisor/observability"
)

const (
	requestIDHeader = "X-Request-ID"
	sessionIDHeader = "X-Session-ID"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RequestID propagates the client's X-Request-ID or generates one, and puts
// it in the context and the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.Must(uuid.NewV7()).String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), id)))
	})
}

// SessionID scopes stored results to the client's X-Session-ID. A session is
// opened when the header is absent; the ID is always echoed back.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionIDHeader)
		switch {
		case id == "":
			id = uuid.NewString()
		case !sessionIDPattern.MatchString(id):
			respondError(w, http.StatusBadRequest, "X-Session-ID must be 1-64 letters, digits, '-' or '_'")
			return
		}
		w.Header().Set(sessionIDHeader, id)
		next.ServeHTTP(w, r.WithContext(observability.WithSessionID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// routePattern is the matched chi pattern, which keeps metric labels bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// AccessLog logs one line per request and records request metrics. metrics
// may be nil.
func AccessLog(logger *slog.Logger, metrics observability.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			route := routePattern(r)
			if metrics != nil {
				metrics.RecordRequest(r.Context(), r.Method, route, observability.StatusClass(rec.status), duration)
			}
			// SessionID runs inside this middleware and echoes the ID it settled on.
			ctx := r.Context()
			if id := rec.Header().Get(sessionIDHeader); id != "" && observability.SessionID(ctx) == "" {
				ctx = observability.WithSessionID(ctx, id)
			}
			logger.InfoContext(ctx, "request",
				"method", r.Method,
				"route", route,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}
