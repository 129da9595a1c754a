package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"loan-advisor/loanerrors"
	"loan-advisor/service"
)

const maxJSONBodyBytes = 1 << 20

// ErrorDetail points at the offending input of a problem response.
type ErrorDetail struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ProblemDetails is an RFC 7807 error body.
type ProblemDetails struct {
	Type     string        `json:"type,omitempty"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
	// Input echoes the request back when it can be resubmitted unchanged.
	Input any `json:"input,omitempty"`
}

func respondProblem(w http.ResponseWriter, problem ProblemDetails) {
	if problem.Type == "" {
		problem.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondProblem(w, ProblemDetails{Title: http.StatusText(status), Status: status, Detail: detail})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// decodeJSON reads a single JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body: unexpected data after JSON value")
	}
	return nil
}

// writeServiceError maps service errors to problem responses. input, when
// not nil, is echoed back on errors the client may simply retry.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, input any) {
	problem := ProblemDetails{Instance: r.URL.Path}

	var verr *loanerrors.ValidationError
	var stale *loanerrors.StaleResultError
	switch {
	case errors.As(err, &verr):
		problem.Status = http.StatusBadRequest
		problem.Title = "Validation Error"
		problem.Detail = verr.Error()
		if verr.Field != "" {
			problem.Errors = []ErrorDetail{{Location: verr.Field, Message: verr.Message}}
		}
	case errors.Is(err, loanerrors.ErrNotFound):
		problem.Status = http.StatusNotFound
		problem.Title = "Not Found"
		problem.Detail = err.Error()
	case errors.As(err, &stale):
		problem.Status = http.StatusConflict
		problem.Title = "Superseded"
		problem.Detail = "a newer request for this session replaced this one"
	case errors.Is(err, loanerrors.ErrGeneration):
		problem.Status = http.StatusBadGateway
		problem.Title = "Recommendation Unavailable"
		problem.Detail = "Unable to get recommendations. Please try again."
		problem.Input = input
	case errors.Is(err, service.ErrPredictionUnconfigured):
		problem.Status = http.StatusServiceUnavailable
		problem.Title = "Service Unavailable"
		problem.Detail = err.Error()
	case errors.Is(err, loanerrors.ErrUpstream):
		problem.Status = http.StatusBadGateway
		problem.Title = "Bad Gateway"
		problem.Detail = "Failed to predict loan amount. Please try again."
		problem.Input = input
	default:
		slog.ErrorContext(r.Context(), "unhandled service error", "error", err, "path", r.URL.Path)
		problem.Status = http.StatusInternalServerError
		problem.Title = "Internal Server Error"
		problem.Detail = "an unexpected error occurred"
	}

	if problem.Status >= http.StatusInternalServerError {
		slog.WarnContext(r.Context(), "request failed", "status", problem.Status, "error", err)
	}
	respondProblem(w, problem)
}
