package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"accurate-report/internal/accurate"
	"accurate-report/internal/app"
	"accurate-report/internal/config"
	"accurate-report/internal/logger"
)

type errorResponse struct {
	Success   bool            `json:"success"`
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	Field     string          `json:"field,omitempty"`
	Upstream  json.RawMessage `json:"upstream,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, r, status, errorResponse{Error: message, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, resp errorResponse) {
	resp.RequestID = requestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a ReportService error onto a status and code.
// FetchError is checked before UpstreamError because it wraps one.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr     *app.ValidationError
		cfgErr   *config.ConfigError
		fetchErr *accurate.FetchError
		upErr    *accurate.UpstreamError
	)
	switch {
	case errors.As(err, &vErr):
		writeErrorResponse(w, r, http.StatusBadRequest, errorResponse{
			Error: vErr.Error(), Code: "VALIDATION_ERROR", Field: vErr.Field,
		})
	case errors.As(err, &cfgErr):
		logger.FromContext(r.Context()).Error("server misconfigured", "key", cfgErr.Key)
		writeError(w, r, cfgErr.Error(), "CONFIG_ERROR", http.StatusInternalServerError)
	case errors.As(err, &fetchErr):
		resp := errorResponse{Error: fetchErr.Error(), Code: "DETAIL_FETCH_FAILED"}
		if errors.As(err, &upErr) {
			resp.Upstream = upErr.Body
		}
		writeErrorResponse(w, r, http.StatusBadGateway, resp)
	case errors.As(err, &upErr):
		logger.FromContext(r.Context()).Error("upstream call failed", "op", upErr.Op, "status", upErr.Status, "err", err)
		writeErrorResponse(w, r, http.StatusInternalServerError, errorResponse{
			Error: "failed to fetch data from Accurate", Code: "UPSTREAM_ERROR", Upstream: upErr.Body,
		})
	default:
		logger.FromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, "method not allowed, use GET", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, "not found", "NOT_FOUND", http.StatusNotFound)
}
