package pdns

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the PowerDNS client.
var (
	// ErrConnectionFailed indicates the API endpoint could not be reached
	// or rejected the API key.
	ErrConnectionFailed = errors.New("connection to PowerDNS failed")

	// ErrNotSupported is returned for endpoints the upstream API documents
	// but no released PowerDNS version actually serves.
	ErrNotSupported = errors.New("endpoint not supported by the PowerDNS API")
)

// APIError represents a non-2xx response from the PowerDNS API.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("powerdns API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// newAPIError builds an APIError from a response. PowerDNS reports errors as
// {"error": "..."}; anything else falls back to the HTTP status text.
func newAPIError(statusCode int, body []byte) *APIError {
	message := http.StatusText(statusCode)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Body:       string(body),
	}
}
