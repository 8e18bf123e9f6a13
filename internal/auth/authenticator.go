package auth

import (
	"context"

	"github.com/tabmate/tabmate/internal/models"
)

// Authenticator defines the interface for authentication implementations,
// so the HTTP layer does not care whether credentials are passwords,
// OAuth tokens, or something else.
type Authenticator interface {
	// Register creates a new user account with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the user on success.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Lookup resolves an authenticated session's user id to the account.
	Lookup(ctx context.Context, userID string) (*models.User, error)
}
