package ports

import (
	"context"

	"github.com/carepoint/portal-client/internal/core/domain"
)

// LoginInput carries the login form.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput carries the registration form. ConfirmPassword and
// AcceptTerms are checked client-side and never sent.
type RegisterInput struct {
	FirstName       string `json:"firstName"   validate:"required"`
	LastName        string `json:"lastName"    validate:"required"`
	Email           string `json:"email"       validate:"required,email"`
	Password        string `json:"password"    validate:"required,min=6"`
	ConfirmPassword string `json:"-"           validate:"required,eqfield=Password"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	DateOfBirth     string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Sex             string `json:"sex"         validate:"required"`
	AcceptTerms     bool   `json:"-"           validate:"eq=true"`
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*domain.Session, error)
	Register(ctx context.Context, in RegisterInput) (*domain.Session, error)
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, patch domain.ProfileUpdate) (*domain.User, error)
	Logout(ctx context.Context) error
}
