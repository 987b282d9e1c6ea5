// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"timeclock/internal/app"
	"timeclock/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Cookie names for the owner token pair.
const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// OIDCConfig carries the optional SSO provider wiring.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth      *app.AuthService
	employees *app.EmployeeService
	work      *app.WorkService
	reports   *app.ReportService
	tokens    *app.TokenAuth
	oidc      OIDCConfig
	log       zerolog.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, employees *app.EmployeeService, work *app.WorkService, reports *app.ReportService, tokens *app.TokenAuth, oidcCfg OIDCConfig, log zerolog.Logger) *Server {
	return &Server{
		auth:      auth,
		employees: employees,
		work:      work,
		reports:   reports,
		tokens:    tokens,
		oidc:      oidcCfg,
		log:       log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("POST /users/register", s.handleRegister)
	api.HandleFunc("POST /users/login", s.handleLogin)
	api.HandleFunc("POST /users/token-refresh", s.handleTokenRefresh)
	api.HandleFunc("GET /users/me", s.requireOwner(s.handleCurrentUser))

	api.HandleFunc("GET /auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("GET /auth/sso/callback", s.handleSSOCallback)

	api.HandleFunc("POST /workplaces", s.requireOwner(s.handleCreateWorkplace))
	api.HandleFunc("GET /workplaces", s.requireOwner(s.handleListWorkplaces))
	api.HandleFunc("DELETE /workplaces/{id}", s.requireOwner(s.handleDeleteWorkplace))

	api.HandleFunc("POST /employees", s.requireOwner(s.handleCreateEmployee))
	api.HandleFunc("GET /employees", s.requireOwner(s.handleListEmployees))
	api.HandleFunc("GET /employees/{id}", s.requireOwner(s.handleEmployeeDetail))
	api.HandleFunc("POST /employees/{id}/token", s.requireOwner(s.handleRegenerateToken))
	api.HandleFunc("DELETE /employees/{id}", s.requireOwner(s.handleDeleteEmployee))

	api.HandleFunc("POST /work/start", s.handleStartWork)
	api.HandleFunc("POST /work/end", s.handleEndWork)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("GET /metrics", metrics.Handler())

	return s.loggingMiddleware(root)
}
