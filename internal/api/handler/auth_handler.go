package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// TokenIssuer signs a bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(u domain.User) (string, time.Time, error)
}

type AuthHandler struct {
	accounts ports.AccountRepository
	tokens   TokenIssuer
	log      zerolog.Logger
}

func NewAuthHandler(accounts ports.AccountRepository, tokens TokenIssuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, log: log}
}

type registerRequest struct {
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Sex         string `json:"sex"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

// Register creates a customer account and signs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.CreateAccount(c.Request().Context(), domain.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
		Sex:         req.Sex,
		Roles:       []string{domain.RoleCustomer},
	}, req.Password)
	if err != nil {
		return err
	}

	h.log.Info().Int64("user_id", user.UserID).Msg("account registered")
	return h.signIn(c, http.StatusCreated, "Registration successful", user)
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.signIn(c, http.StatusOK, "Login successful", user)
}

// Profile returns the caller's account.
func (h *AuthHandler) Profile(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	user, err := h.accounts.Account(c.Request().Context(), who.userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", user)
}

// UpdateProfile applies a partial profile to the caller's account.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var patch domain.ProfileUpdate
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), who.userID, patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile updated", user)
}

func (h *AuthHandler) signIn(c echo.Context, status int, msg string, user domain.User) error {
	token, exp, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	return c.JSON(status, authResponse{
		Success:   true,
		Message:   msg,
		Token:     token,
		ExpiresAt: exp.UTC(),
		User:      user,
	})
}
