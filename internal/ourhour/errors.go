package ourhour

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is returned when the API rejects the bearer token.
	ErrUnauthorized = errors.New("ourhour: unauthorized")
	// ErrTokenExpired is returned when the API reports the token as expired.
	// It wraps ErrUnauthorized.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
	// ErrForbidden is returned when the caller lacks access to the resource.
	ErrForbidden = errors.New("ourhour: forbidden")
	// ErrResponseTooLarge is returned when a response body exceeds the
	// client's read cap.
	ErrResponseTooLarge = errors.New("ourhour: response too large")
)

// APIError is a non-success response from the groupware API, either a
// non-2xx HTTP status or an envelope whose status is not "OK".
type APIError struct {
	Path       string
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Status
	}
	return fmt.Sprintf("ourhour API %s: HTTP %d: %s", e.Path, e.StatusCode, msg)
}

// Unwrap maps authentication failures onto the sentinel errors so callers
// can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		if isExpiredMessage(e.Message) {
			return ErrTokenExpired
		}
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

func isExpiredMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "expired") || strings.Contains(m, "만료")
}
