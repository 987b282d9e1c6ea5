package app

import (
	"time"

	"timeclock/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two JWT classes issued to owners.
type TokenKind string

// Token kinds.
const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// TokenConfig holds the signing secret and lifetimes for issued tokens.
// It is injected at construction; there is no package-level auth state.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenAuth issues and verifies HS256-signed JWTs carrying an owner
// subject.
type TokenAuth struct {
	cfg   TokenConfig
	clock Clock
}

// NewTokenAuth creates a TokenAuth. Zero lifetimes fall back to 5 minutes
// for access tokens and 5 days for refresh tokens.
func NewTokenAuth(cfg TokenConfig, clock Clock) *TokenAuth {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 5 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 5 * 24 * time.Hour
	}
	return &TokenAuth{cfg: cfg, clock: clock}
}

// AccessTTL returns the configured access token lifetime.
func (a *TokenAuth) AccessTTL() time.Duration { return a.cfg.AccessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (a *TokenAuth) RefreshTTL() time.Duration { return a.cfg.RefreshTTL }

// Issue signs a token of the given kind for subject.
func (a *TokenAuth) Issue(subject string, kind TokenKind) (string, error) {
	now := a.clock.Now()
	ttl := a.cfg.AccessTTL
	if kind == TokenRefresh {
		ttl = a.cfg.RefreshTTL
	}
	claims := jwt.MapClaims{
		"sub": subject,
		"typ": string(kind),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.Secret))
}

// Verify checks signature, expiry and kind, returning the embedded
// subject. Any failure surfaces as ErrUnauthenticated.
func (a *TokenAuth) Verify(token string, kind TokenKind) (string, error) {
	parsed, err := jwt.Parse(token,
		func(*jwt.Token) (any, error) { return []byte(a.cfg.Secret), nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(a.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	if typ, _ := claims["typ"].(string); typ != string(kind) {
		return "", domain.ErrUnauthenticated
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrUnauthenticated
	}
	return sub, nil
}
