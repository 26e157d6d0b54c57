package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCorrupt marks a persisted session that exists but cannot be
	// read back. It is discarded like an absent one.
	ErrSessionCorrupt    = errors.New("session record is corrupt")
	ErrSecretNotFound    = errors.New("secret not found")
	ErrLoginRequired     = errors.New("login required")
	ErrOperationInFlight = errors.New("another request is already in progress")
)

// ValidationError is raised locally, before any request is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthError means the server rejected credentials or a token exchange.
type AuthError struct {
	StatusCode    int
	ServerMessage string
	Err           error
}

func (e *AuthError) Error() string {
	switch {
	case e.ServerMessage != "":
		return fmt.Sprintf("authentication failed: %s", e.ServerMessage)
	case e.Err != nil:
		return fmt.Sprintf("authentication failed: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("authentication failed: status %d", e.StatusCode)
	default:
		return "authentication failed"
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// TimeoutError is a client-enforced deadline; callers may retry.
type TimeoutError struct {
	Op    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.After)
}

func (e *TimeoutError) Retryable() bool { return true }

// FetchError means the dashboard could not be retrieved. It always
// invalidates the session.
type FetchError struct {
	StatusCode    int
	ServerMessage string
	Err           error
}

func (e *FetchError) Error() string {
	switch {
	case e.ServerMessage != "":
		return fmt.Sprintf("fetch dashboard: %s", e.ServerMessage)
	case e.Err != nil:
		return fmt.Sprintf("fetch dashboard: %v", e.Err)
	default:
		return fmt.Sprintf("fetch dashboard: status %d", e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// MalformedSnapshotError lists the fields the dashboard response was missing
// or could not be decoded.
type MalformedSnapshotError struct {
	Fields []string
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed dashboard snapshot: %s", strings.Join(e.Fields, ", "))
}

// UserMessage returns the single notification text shown for err. Server
// messages win over the per-type fallback; internal details are never shown.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return "The request timed out. Please try again."
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		if authErr.ServerMessage != "" {
			return authErr.ServerMessage
		}
		return "Authentication failed. Please check your credentials and try again."
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		if fetchErr.ServerMessage != "" {
			return fetchErr.ServerMessage
		}
		return "Could not load your dashboard. Please log in again."
	}

	switch {
	case errors.Is(err, ErrOperationInFlight):
		return "A request is already in progress."
	case errors.Is(err, ErrLoginRequired), errors.Is(err, ErrSessionNotFound):
		return "Please log in to continue."
	}

	return "Something went wrong. Please try again."
}
