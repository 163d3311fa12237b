// Package service provides authentication and catalog business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/GreenFacade/internal/models"
)

// ErrInvalidCredentials is returned by Login for a rejected attempt.
var ErrInvalidCredentials = models.ErrInvalidCredentials

// CredentialProvider defines the credential check required by the
// authentication service. Implementations return models.ErrInvalidCredentials
// for a login/password pair that does not match.
type CredentialProvider interface {
	// Authenticate returns the role granted to login when password matches.
	// ctx carries deadlines, cancellation signals, and other request-scoped values.
	Authenticate(ctx context.Context, login, password string) (models.Role, error)
}

// AuthService drives the session state machine between the anonymous and
// authenticated states.
type AuthService struct {
	// provider verifies submitted credentials.
	provider CredentialProvider
}

// NewAuthService constructs a new AuthService using the provided credential provider.
func NewAuthService(provider CredentialProvider) *AuthService {
	return &AuthService{provider: provider}
}

// Login authenticates login/password and, on success, moves sess to the
// authenticated state. On failure sess is left unchanged.
func (s *AuthService) Login(ctx context.Context, sess *models.Session, login, password string) error {
	role, err := s.provider.Authenticate(ctx, login, password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("authenticate %q: %w", login, err)
	}
	sess.Login(login, role)
	return nil
}

// Logout returns sess to the anonymous state and clears its filters.
func (s *AuthService) Logout(sess *models.Session) {
	sess.Logout()
}
