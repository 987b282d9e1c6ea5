// Package app holds the application services and business logic.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"timeclock/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates that the provided email or password was
// incorrect.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthenticated)

// AuthService handles owner registration, login and token refresh.
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenAuth
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, tokens *TokenAuth) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register validates input and creates a new owner account.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password, confirm string) (*domain.User, error) {
	if err := domain.ValidateRequired("first_name", firstName); err != nil {
		return nil, err
	}
	if err := domain.ValidateRequired("last_name", lastName); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password, confirm); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, firstName, lastName, email, string(hash))
}

// Login authenticates an owner and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (access, refresh string, err error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}
	return s.issuePair(user.ID)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.tokens.Verify(refreshToken, TokenRefresh)
	if err != nil {
		return "", err
	}
	user, err := s.ResolveOwner(ctx, subject)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(strconv.FormatInt(user.ID, 10), TokenAccess)
}

// ResolveOwner maps a verified token subject to an existing owner account.
func (s *AuthService) ResolveOwner(ctx context.Context, subject string) (*domain.User, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("owner %q: %w", subject, domain.ErrNotFound)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("owner %q: %w", subject, domain.ErrNotFound)
	}
	return user, nil
}

// LoginWithOwner issues a token pair for an externally authenticated owner
// (e.g. via SSO), provisioning the account on first login.
func (s *AuthService) LoginWithOwner(ctx context.Context, email string) (access, refresh string, err error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		// SSO users carry no local password; login stays external.
		first := email
		if i := strings.IndexByte(email, '@'); i > 0 {
			first = email[:i]
		}
		user, err = s.users.Create(ctx, first, "", email, "")
		if err != nil {
			// Creation can race with another SSO callback.
			createErr := err
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil {
				return "", "", err
			}
			if user == nil {
				return "", "", fmt.Errorf("provision sso owner: %w", createErr)
			}
		}
	}
	return s.issuePair(user.ID)
}

func (s *AuthService) issuePair(userID int64) (access, refresh string, err error) {
	subject := strconv.FormatInt(userID, 10)
	access, err = s.tokens.Issue(subject, TokenAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.Issue(subject, TokenRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
