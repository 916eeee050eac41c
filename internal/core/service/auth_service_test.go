package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
	"github.com/carepoint/portal-client/internal/core/session"
)

const loginBody = `{"success":true,"message":"Login successful","token":"tok-1","expiresAt":"2099-01-01T00:00:00Z","user":{"userId":4,"firstName":"Cara","email":"a@b.com","roles":["Consultant"]}}`

func newAuthFixture(fn func(method, path string, body any) ([]byte, error)) (*AuthService, *session.Manager, *stubTransport) {
	tr := &stubTransport{fn: fn}
	mgr := session.NewManager(session.NewMemoryStore(), zerolog.Nop())
	return NewAuthService(tr, mgr, cache.DefaultTTL, zerolog.Nop()), mgr, tr
}

func TestAuthService_LoginInstallsSession(t *testing.T) {
	var sent ports.LoginInput
	svc, mgr, _ := newAuthFixture(func(method, path string, body any) ([]byte, error) {
		if method != http.MethodPost || path != "/api/auth/login" {
			t.Fatalf("unexpected request %s %s", method, path)
		}
		sent = body.(ports.LoginInput)
		return []byte(loginBody), nil
	})

	sess, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sent.Email != "a@b.com" || sent.Password != "secret1" {
		t.Fatalf("unexpected credentials sent: %+v", sent)
	}
	if !sess.User.HasRole(domain.RoleConsultant) {
		t.Fatalf("expected Consultant role, got %v", sess.User.Roles)
	}
	if want := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC); !sess.ExpiresAt.Equal(want) {
		t.Fatalf("unexpected expiry: %v", sess.ExpiresAt)
	}

	current, ok := mgr.Current()
	if !ok || current.Token != "tok-1" || current.User.UserID != 4 {
		t.Fatalf("expected session installed, got %+v", current)
	}
}

func TestAuthService_LoginWrappedInData(t *testing.T) {
	svc, mgr, _ := newAuthFixture(func(string, string, any) ([]byte, error) {
		return []byte(`{"success":true,"data":{"token":"tok-2","user":{"userId":5,"roles":["Customer"]}}}`), nil
	})

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "c@d.com", Password: "secret1"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tok := mgr.Token(); tok != "tok-2" {
		t.Fatalf("expected tok-2, got %q", tok)
	}
}

func TestAuthService_ExpiryFromTokenClaim(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second).UTC()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	svc, _, _ := newAuthFixture(func(string, string, any) ([]byte, error) {
		return []byte(`{"success":true,"token":"` + token + `","user":{"userId":1}}`), nil
	})

	sess, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !sess.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v from token, got %v", exp, sess.ExpiresAt)
	}
}

func TestAuthService_LoginDeclined(t *testing.T) {
	svc, mgr, _ := newAuthFixture(func(string, string, any) ([]byte, error) {
		return []byte(`{"success":false,"message":"Invalid email or password"}`), nil
	})

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "wrong12"})
	if !errors.Is(err, domain.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if _, ok := mgr.Current(); ok {
		t.Fatalf("expected no session after a declined login")
	}
}

func TestAuthService_LoginUnauthorized(t *testing.T) {
	svc, _, _ := newAuthFixture(func(method, path string, _ any) ([]byte, error) {
		return nil, statusError(method, path, http.StatusUnauthorized)
	})

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "wrong12"})
	if !IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, tr := newAuthFixture(func(string, string, any) ([]byte, error) { return []byte(loginBody), nil })

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName:       "Ana",
		LastName:        "Silva",
		Email:           "ana@clinic.test",
		Password:        "abc",
		ConfirmPassword: "abd",
		PhoneNumber:     "0900000000",
		DateOfBirth:     "1990-02-30x",
		Sex:             "Female",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	want := map[string]string{
		"password":        "min",
		"confirmPassword": "eqfield",
		"dateOfBirth":     "datetime",
		"acceptTerms":     "eq",
	}
	for field, rule := range want {
		v, ok := ve.Field(field)
		if !ok || v.Rule != rule {
			t.Fatalf("expected %s violation on %s, got %+v", rule, field, ve.Violations)
		}
	}
	if v, _ := ve.Field("acceptTerms"); v.Message != "acceptTerms must be accepted" {
		t.Fatalf("unexpected message: %q", v.Message)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("expected no request for an invalid form, got %d", len(tr.calls))
	}
}

func TestAuthService_ProfileRequiresSession(t *testing.T) {
	svc, _, _ := newAuthFixture(func(string, string, any) ([]byte, error) { return nil, nil })

	if _, err := svc.Profile(context.Background()); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestAuthService_ProfileCachedAndUpdated(t *testing.T) {
	svc, _, tr := newAuthFixture(func(method, path string, _ any) ([]byte, error) {
		switch {
		case path == "/api/auth/login":
			return []byte(loginBody), nil
		case method == http.MethodGet:
			return []byte(`{"userId":4,"firstName":"Cara","phoneNumber":"1"}`), nil
		default:
			return []byte(`{"success":true,"data":{"userId":4,"firstName":"Cara","phoneNumber":"2"}}`), nil
		}
	})
	ctx := context.Background()

	if _, err := svc.Login(ctx, ports.LoginInput{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	for range 2 {
		u, err := svc.Profile(ctx)
		if err != nil || u.PhoneNumber != "1" {
			t.Fatalf("unexpected profile %+v, %v", u, err)
		}
	}
	if n := tr.count(http.MethodGet, "/api/auth/profile"); n != 1 {
		t.Fatalf("expected cached profile, got %d fetches", n)
	}

	phone := "2"
	u, err := svc.UpdateProfile(ctx, domain.ProfileUpdate{PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if u.PhoneNumber != "2" {
		t.Fatalf("expected echoed profile, got %+v", u)
	}
}

func TestAuthService_DeclinedProfileUpdateKeepsCache(t *testing.T) {
	svc, _, tr := newAuthFixture(func(method, path string, _ any) ([]byte, error) {
		switch {
		case path == "/api/auth/login":
			return []byte(loginBody), nil
		case method == http.MethodGet:
			return []byte(`{"userId":4,"firstName":"Cara","phoneNumber":"1"}`), nil
		default:
			return []byte(`{"success":false,"message":"phone number rejected"}`), nil
		}
	})
	ctx := context.Background()

	if _, err := svc.Login(ctx, ports.LoginInput{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if _, err := svc.Profile(ctx); err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	phone := "2"
	if _, err := svc.UpdateProfile(ctx, domain.ProfileUpdate{PhoneNumber: &phone}); !errors.Is(err, domain.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if _, err := svc.Profile(ctx); err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if n := tr.count(http.MethodGet, "/api/auth/profile"); n != 1 {
		t.Fatalf("expected cached profile after declined update, got %d fetches", n)
	}
}

func TestAuthService_LogoutClearsSession(t *testing.T) {
	svc, mgr, _ := newAuthFixture(func(string, string, any) ([]byte, error) { return []byte(loginBody), nil })
	ctx := context.Background()

	if _, err := svc.Login(ctx, ports.LoginInput{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := mgr.Current(); ok {
		t.Fatalf("expected session cleared")
	}
	if _, err := svc.Profile(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}
