package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response body is read while looking
// for a server-provided message.
const maxErrorBody = 8 << 10

// StatusError describes a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// newStatusError extracts the most specific message the backend provided.
// The backend wraps errors in a handful of shapes: {"error": ...},
// {"detail": ...}, and the throttle handler's {"error", "message", ...}.
func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error          string   `json:"error"`
		Detail         string   `json:"detail"`
		Message        string   `json:"message"`
		NonFieldErrors []string `json:"non_field_errors"`
	}

	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.Error != "":
			message = payload.Error
		case payload.Detail != "":
			message = payload.Detail
		case len(payload.NonFieldErrors) > 0:
			message = strings.Join(payload.NonFieldErrors, "; ")
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &StatusError{Code: resp.StatusCode, Message: message}
}
