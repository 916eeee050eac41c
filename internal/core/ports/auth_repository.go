package ports

import (
	"context"

	"github.com/carepoint/portal-client/internal/core/domain"
)

// AccountRepository backs the sandbox API's /api/auth routes.
type AccountRepository interface {
	// CreateAccount stores u with a hash of password and assigns its UserID.
	CreateAccount(ctx context.Context, u domain.User, password string) (domain.User, error)
	// Authenticate returns domain.ErrInvalidCredentials for an unknown email
	// or a wrong password alike.
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	Account(ctx context.Context, userID int64) (domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch domain.ProfileUpdate) (domain.User, error)
}
