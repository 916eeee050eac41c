package domain

import (
	"slices"
	"strings"
	"time"
)

const (
	RoleCustomer   = "Customer"
	RoleStaff      = "Staff"
	RoleConsultant = "Consultant"
	RoleManager    = "Manager"
	RoleAdmin      = "Admin"
)

// User is the authenticated actor's profile as returned by /api/auth.
type User struct {
	UserID      int64    `json:"userId"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Roles       []string `json:"roles"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Sex         string   `json:"sex,omitempty"`
}

// HasRole matches role names case-insensitively; the API is not consistent
// about casing across endpoints.
func (u User) HasRole(role string) bool {
	return slices.ContainsFunc(u.Roles, func(r string) bool {
		return strings.EqualFold(r, role)
	})
}

// Session is the process-wide authenticated identity.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry. A zero ExpiresAt
// never expires.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ProfileUpdate is a partial profile; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Sex         *string `json:"sex,omitempty"`
}
