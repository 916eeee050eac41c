package ports

import (
	"context"
	"time"

	"github.com/carepoint/portal-client/internal/core/domain"
)

// CallOptions tunes a single Transport call.
type CallOptions struct {
	// Timeout bounds the call; zero means no timeout beyond ctx.
	Timeout time.Duration
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithTimeout bounds one call.
func WithTimeout(d time.Duration) CallOption {
	return func(o *CallOptions) { o.Timeout = d }
}

// Transport performs one HTTP round trip against the remote API and returns
// the raw response envelope. It never retries.
type Transport interface {
	Do(ctx context.Context, method, path string, body any, opts ...CallOption) ([]byte, error)
}

// SessionProvider exposes the current session read-only.
type SessionProvider interface {
	Current() (*domain.Session, bool)
}

// SessionStore persists the session under well-known keys so that a later
// process can restore it. Load returns (nil, nil) when no token is stored.
type SessionStore interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Clear(ctx context.Context) error
}

// Well-known keys of the persisted session. A missing KeyAuthToken means
// unauthenticated.
const (
	KeyAuthToken = "authToken"
	KeyUser      = "user"
	KeyExpiresAt = "expiresAt"
)
