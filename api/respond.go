package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/garnizeh/gigpay/pkg/apperr"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses and a
// machine-readable body. Untagged errors are logged and surfaced as 500.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindBadRequest, apperr.KindInvalidOperation:
		status = http.StatusBadRequest
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	default:
		logger.Error("internal error", slog.Any("err", err))
		status = http.StatusInternalServerError
	}

	detail := errorDetail{Code: apperr.CodeOf(err), Message: "internal error"}
	var e *apperr.Error
	if errors.As(err, &e) {
		detail.Message = e.Message
	}

	writeJSON(w, errorBody{Error: detail}, status)
}

// parseDateParam accepts RFC 3339 timestamps and plain dates. An empty value
// is a nil bound.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil, apperr.New(apperr.KindBadRequest, "invalid_date", "dates must be RFC 3339 or YYYY-MM-DD")
	}

	return &t, nil
}
