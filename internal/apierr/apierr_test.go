package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"explicit status", New(http.StatusConflict, "email_taken", errors.New("dup")), http.StatusConflict},
		{"validation", &ValidationError{Missing: []string{"title"}}, http.StatusBadRequest},
		{"invalid file upload", &UploadError{Code: "invalid_file", Err: errors.New("bad ext")}, http.StatusBadRequest},
		{"transport upload", &UploadError{Code: "transport", Err: errors.New("gcs down")}, http.StatusBadGateway},
		{"persist", &PersistError{Err: errors.New("write failed")}, http.StatusInternalServerError},
		{"not found sentinel", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get topic: %w", ErrNotFound), http.StatusNotFound},
		{"store unavailable", ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"auth unavailable", ErrAuthUnavailable, http.StatusServiceUnavailable},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus(%v): want=%d got=%d", tc.err, tc.want, got)
			}
		})
	}
}

func TestErrorUnwrapChain(t *testing.T) {
	cause := errors.New("row locked")
	err := fmt.Errorf("save: %w", &PersistError{Err: cause})

	var pErr *PersistError
	if !errors.As(err, &pErr) {
		t.Fatalf("PersistError lost in chain: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
}
