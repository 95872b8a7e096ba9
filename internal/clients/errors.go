package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx reply from the backend. Detail carries the
// backend's own message verbatim when the body provided one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend request failed with status %d: %s", e.StatusCode, e.Detail)
}

// newAPIError extracts the {"detail": "..."} message the backend uses for
// rejections, falling back to the raw body.
func newAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &APIError{StatusCode: statusCode, Detail: payload.Detail}
	}
	return &APIError{StatusCode: statusCode, Detail: strings.TrimSpace(string(body))}
}

// IsUnauthorized checks whether the error is a 401 reply.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsValidation checks whether the error is a 4xx rejection other than 401,
// i.e. the backend refused the request content itself.
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
			apiErr.StatusCode != http.StatusUnauthorized
	}
	return false
}
