package ports

import (
	"context"

	"github.com/devconnector/profile-api/internal/core/domain"
)

type AuthService interface {
	// Register creates an account and returns a signed token for it.
	Register(ctx context.Context, name, email, password string) (string, error)
	// Login checks credentials and returns a signed token. Unknown email and
	// wrong password are indistinguishable (both ErrInvalidCredentials).
	Login(ctx context.Context, email, password string) (string, error)
	// CurrentUser loads the authenticated caller's account (no password hash).
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
