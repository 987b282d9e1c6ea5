package adapthttp

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timeclock/internal/domain"

	"github.com/rs/zerolog"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{log: zerolog.New(&buf)}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("OK")) //nolint:errcheck
	})
	handler := s.loggingMiddleware(next)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, w.Code)
	}

	logOutput := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/test-path"`, `"status":418`} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("log output missing %s. Got: %s", want, logOutput)
		}
	}
}

func TestEmployerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "token abc123", "abc123", false},
		{"missing", "", "", true},
		{"bearer scheme", "Bearer abc123", "", true},
		{"empty value", "token ", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/work/start", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, err := employerToken(req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("employerToken = %q, %v; wantErr=%v", got, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected token %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &domain.ValidationError{Field: "email", Reason: "bad"}, http.StatusBadRequest},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"invalid state", domain.ErrInvalidState, http.StatusUnprocessableEntity},
		{"wrapped", errors.Join(errors.New("outer"), domain.ErrConflict), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
