package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// Fields flattens s into the well-known persisted keys. The user profile is
// stored as a JSON string; a zero expiry is omitted.
func Fields(s *domain.Session) (map[string]string, error) {
	user, err := json.Marshal(s.User)
	if err != nil {
		return nil, fmt.Errorf("encode session user: %w", err)
	}
	out := map[string]string{
		ports.KeyAuthToken: s.Token,
		ports.KeyUser:      string(user),
	}
	if !s.ExpiresAt.IsZero() {
		out[ports.KeyExpiresAt] = s.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}

// FromFields rebuilds a session from the persisted keys. It returns nil when
// no token is present.
func FromFields(get func(key string) (string, bool)) (*domain.Session, error) {
	token, ok := get(ports.KeyAuthToken)
	if !ok || token == "" {
		return nil, nil
	}

	s := &domain.Session{Token: token}
	if raw, ok := get(ports.KeyUser); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.User); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
	}
	if raw, ok := get(ports.KeyExpiresAt); ok && raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("decode session expiry: %w", err)
		}
		s.ExpiresAt = t
	}
	return s, nil
}
