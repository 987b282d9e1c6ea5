package adapthttp

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"timeclock/internal/app"
	"timeclock/internal/domain"
	"timeclock/internal/metrics"
)

type contextKey string

const ownerContextKey contextKey = "owner"

// requireOwner validates the access-token cookie and resolves the owner
// into the request context.
func (s *Server) requireOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessCookie)
		if err != nil {
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		subject, err := s.tokens.Verify(cookie.Value, app.TokenAccess)
		if err != nil {
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		owner, err := s.auth.ResolveOwner(r.Context(), subject)
		if err != nil {
			// A valid token for a vanished account is still unauthenticated.
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ownerContextKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func ownerFrom(ctx context.Context) *domain.User {
	owner, _ := ctx.Value(ownerContextKey).(*domain.User)
	return owner
}

// employerToken extracts the personal token from the
// "Authorization: token <value>" header.
func employerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "token ") {
		return "", fmt.Errorf("missing or invalid authorization header: %w", domain.ErrUnauthenticated)
	}
	token := strings.TrimPrefix(header, "token ")
	if token == "" {
		return "", fmt.Errorf("missing or invalid authorization header: %w", domain.ErrUnauthenticated)
	}
	return token, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs every request and feeds the request counter.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
