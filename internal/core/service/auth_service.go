package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/envelope"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// SessionWriter is the session surface the AuthService needs. It is the only
// component allowed to install or clear the process session.
type SessionWriter interface {
	ports.SessionProvider
	Install(ctx context.Context, s *domain.Session) error
	Clear(ctx context.Context) error
	Restore(ctx context.Context) error
}

const (
	pathLogin    = "/api/auth/login"
	pathRegister = "/api/auth/register"
	pathProfile  = "/api/auth/profile"
)

// expiresAt layouts seen from the API, most specific first.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
}

// AuthService implements login, registration and the profile of the
// authenticated user against the remote API.
type AuthService struct {
	transport ports.Transport
	sessions  SessionWriter
	profile   *cache.Cache[int64, domain.User]
	log       zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(transport ports.Transport, sessions SessionWriter, ttl time.Duration, log zerolog.Logger, opts ...cache.Option) *AuthService {
	return &AuthService{
		transport: transport,
		sessions:  sessions,
		profile:   cache.New[int64, domain.User]("profile", ttl, opts...),
		log:       log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*domain.Session, error) {
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "login", pathLogin, in)
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Session, error) {
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "register", pathRegister, in)
}

// Restore loads the persisted session, if any, at startup.
func (s *AuthService) Restore(ctx context.Context) (*domain.Session, bool, error) {
	if err := s.sessions.Restore(ctx); err != nil {
		return nil, false, err
	}
	sess, ok := s.sessions.Current()
	return sess, ok, nil
}

// Profile returns the authenticated user's profile.
func (s *AuthService) Profile(ctx context.Context) (*domain.User, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, domain.ErrNoSession
	}
	if u, ok := s.profile.Get(sess.User.UserID); ok {
		return &u, nil
	}

	gen := s.profile.Generation()
	raw, err := s.transport.Do(ctx, http.MethodGet, pathProfile, nil)
	if err != nil {
		return nil, &domain.FetchError{Op: "get profile", Err: err}
	}
	u, err := envelope.DecodeObject[domain.User](raw)
	if err != nil {
		return nil, &domain.FetchError{Op: "get profile", Err: err}
	}
	s.profile.PutIfCurrent(sess.User.UserID, *u, gen)
	return u, nil
}

// UpdateProfile sends a partial profile; nil fields are left untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, patch domain.ProfileUpdate) (*domain.User, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, domain.ErrNoSession
	}

	raw, err := s.transport.Do(ctx, http.MethodPut, pathProfile, patch)
	if err != nil {
		if writeOutcomeUnknown(err) {
			s.profile.InvalidateAll()
		}
		return nil, &domain.FetchError{Op: "update profile", Err: err}
	}
	if err := checkDeclined(raw); err != nil {
		return nil, &domain.FetchError{Op: "update profile", Err: err}
	}
	s.profile.InvalidateAll()
	if u, err := envelope.DecodeObject[domain.User](raw); err == nil && u.UserID == sess.User.UserID {
		return u, nil
	}
	return s.Profile(ctx)
}

// Logout drops the session locally. The API has no logout route.
func (s *AuthService) Logout(ctx context.Context) error {
	s.profile.InvalidateAll()
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Msg("logged out")
	return nil
}

func (s *AuthService) InvalidateAll() {
	s.profile.InvalidateAll()
}

func (s *AuthService) authenticate(ctx context.Context, op, path string, body any) (*domain.Session, error) {
	raw, err := s.transport.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, &domain.FetchError{Op: op, Err: err}
	}

	sess, err := parseAuthResponse(raw)
	if err != nil {
		return nil, &domain.FetchError{Op: op, Err: err}
	}
	if err := s.sessions.Install(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s: install session: %w", op, err)
	}

	s.log.Info().
		Str("op", op).
		Int64("user_id", sess.User.UserID).
		Strs("roles", sess.User.Roles).
		Msg("authenticated")
	return sess, nil
}

type authPayload struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expiresAt"`
	User      domain.User `json:"user"`
}

// parseAuthResponse reads {success, message, token, expiresAt, user}. The
// same fields are also accepted nested under data.
func parseAuthResponse(raw []byte) (*domain.Session, error) {
	payload, err := envelope.Normalize(raw, envelope.ShapeObject)
	if err != nil {
		return nil, err
	}
	if string(payload) == "null" {
		payload = raw
	}

	var p authPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, &domain.NormalizationError{Reason: fmt.Sprintf("decode auth response: %v", err)}
	}
	if p.Token == "" {
		return nil, &domain.NormalizationError{Reason: "auth response has no token"}
	}

	expires, err := parseExpiry(p.ExpiresAt, p.Token)
	if err != nil {
		return nil, err
	}
	return &domain.Session{Token: p.Token, User: p.User, ExpiresAt: expires}, nil
}

// parseExpiry reads expiresAt, falling back to the token's exp claim. A
// token without either never expires client-side.
func parseExpiry(value, token string) (time.Time, error) {
	if value = strings.TrimSpace(value); value != "" {
		for _, layout := range expiryLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, &domain.NormalizationError{Reason: "invalid expiresAt " + value}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque token.
		return time.Time{}, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.UTC(), nil
}

// IsAuthError reports whether err means the caller must log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrNoSession)
}
