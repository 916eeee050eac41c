// Package session owns the single process-wide authenticated identity.
//
// Manager is injected into the Transport (read-only, for the auth header) and
// into the AuthService (the only writer). Replacing the identity runs the
// registered change hooks, which accessors use to drop user-scoped caches.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

type Manager struct {
	store ports.SessionStore
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.RWMutex
	current *domain.Session
	hooks   []func()
}

// NewManager returns a Manager with no active session. Call Restore to load
// a persisted one.
func NewManager(store ports.SessionStore, log zerolog.Logger) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{store: store, log: log, now: time.Now}
}

// SetClock replaces time.Now, for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// OnChange registers fn to run whenever the active identity changes.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Current returns a copy of the active session. An expired session is
// reported absent and cleared on first sight, which runs the change hooks.
func (m *Manager) Current() (*domain.Session, bool) {
	m.mu.RLock()
	cur := m.current
	expired := cur != nil && cur.Expired(m.now())
	m.mu.RUnlock()

	if cur == nil {
		return nil, false
	}
	if expired {
		m.expire(cur)
		return nil, false
	}
	s := *cur
	return &s, true
}

// Token returns the active bearer token, or "" when unauthenticated.
func (m *Manager) Token() string {
	s, ok := m.Current()
	if !ok {
		return ""
	}
	return s.Token
}

// Restore loads the persisted session. An expired one is cleared from the
// store and the manager stays unauthenticated.
func (m *Manager) Restore(ctx context.Context) error {
	s, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if s == nil || s.Token == "" {
		return nil
	}
	if s.Expired(m.clock()) {
		m.log.Info().Int64("user_id", s.User.UserID).Msg("persisted session expired")
		if err := m.store.Clear(ctx); err != nil {
			return fmt.Errorf("restore session: clear expired: %w", err)
		}
		return nil
	}
	m.replace(s)
	return nil
}

// Install makes s the active session and persists it.
func (m *Manager) Install(ctx context.Context, s *domain.Session) error {
	if s == nil || s.Token == "" {
		return fmt.Errorf("install session: %w", domain.ErrNoSession)
	}
	cp := *s
	m.replace(&cp)
	if err := m.store.Save(ctx, &cp); err != nil {
		return fmt.Errorf("install session: %w", err)
	}
	m.log.Info().Int64("user_id", cp.User.UserID).Strs("roles", cp.User.Roles).Msg("session installed")
	return nil
}

// Clear destroys the active session and its persisted copy.
func (m *Manager) Clear(ctx context.Context) error {
	m.replace(nil)
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// expire drops s if it is still the active session.
func (m *Manager) expire(s *domain.Session) {
	m.mu.Lock()
	if m.current != s {
		m.mu.Unlock()
		return
	}
	m.current = nil
	hooks := append([]func(){}, m.hooks...)
	m.mu.Unlock()

	m.log.Info().Int64("user_id", s.User.UserID).Msg("session expired")
	if err := m.store.Clear(context.Background()); err != nil {
		m.log.Warn().Err(err).Msg("clear expired session")
	}
	for _, fn := range hooks {
		fn()
	}
}

func (m *Manager) replace(s *domain.Session) {
	m.mu.Lock()
	prev := m.current
	m.current = s
	changed := identity(prev) != identity(s)
	hooks := append([]func(){}, m.hooks...)
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range hooks {
		fn()
	}
}

func (m *Manager) clock() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now()
}

// identity is 0 for no session; user IDs issued by the API start at 1.
func identity(s *domain.Session) int64 {
	if s == nil {
		return 0
	}
	return s.User.UserID
}
