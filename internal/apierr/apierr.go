package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable means the backing store client was never constructed.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAuthUnavailable means the auth service was never constructed.
	ErrAuthUnavailable = errors.New("auth unavailable")
)

// Error carries an HTTP status and a stable code alongside the wrapped cause.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// ValidationError reports required fields that were empty on submit.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// UploadError wraps a media upload failure. Validation failures (size, type)
// are classified separately from transport failures via Code.
type UploadError struct {
	Code string // "invalid_file" | "transport"
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (%s): %v", e.Code, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError wraps a store write failure. The caller keeps its in-memory
// edits so the user can retry without re-entering data.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist failed: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// HTTPStatus maps a classified error onto a response status.
func HTTPStatus(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	var uErr *UploadError
	if errors.As(err, &uErr) {
		if uErr.Code == "invalid_file" {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	}
	var pErr *PersistError
	if errors.As(err, &pErr) {
		return http.StatusInternalServerError
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrAuthUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
