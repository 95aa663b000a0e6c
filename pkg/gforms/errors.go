package gforms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the platform, decoded from its
// standard error envelope when possible.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("gforms: api error %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("gforms: api error %d: %s", e.StatusCode, msg)
}

// IsNotFound reports whether the error is the platform saying the resource
// does not exist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || strings.HasSuffix(apiErr.Code, "_not_found")
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
	}
	if apiErr.Message == "" && len(body) > 0 {
		apiErr.Message = truncate(string(body), 200)
	}
	return apiErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
