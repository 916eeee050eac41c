package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carepoint/portal-client/internal/core/domain"
)

func TestSessionStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal", "session.json")
	store, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("NewSessionStore() error: %v", err)
	}
	ctx := context.Background()

	in := &domain.Session{
		Token:     "tok",
		User:      domain.User{UserID: 4, Email: "a@b.com", Roles: []string{"Consultant"}},
		ExpiresAt: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	store2, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("NewSessionStore() second error: %v", err)
	}
	got, err := store2.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Token != "tok" || got.User.UserID != 4 || !got.User.HasRole("consultant") || !got.ExpiresAt.Equal(in.ExpiresAt) {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionStoreWellKnownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, _ := NewSessionStore(path)

	if err := store.Save(context.Background(), &domain.Session{Token: "tok", User: domain.User{UserID: 1}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var fields map[string]string
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("decode file: %v", err)
	}
	if fields["authToken"] != "tok" || fields["user"] == "" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if _, ok := fields["expiresAt"]; ok {
		t.Fatalf("expected no expiresAt for a non-expiring session")
	}
}

func TestSessionStoreMissingTokenIsUnauthenticated(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, _ := NewSessionStore(filepath.Join(dir, "absent.json"))
	if s, err := store.Load(ctx); err != nil || s != nil {
		t.Fatalf("expected no session for a missing file, got %+v, %v", s, err)
	}

	path := filepath.Join(dir, "no-token.json")
	if err := os.WriteFile(path, []byte(`{"user":"{\"userId\":1}"}`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	store, _ = NewSessionStore(path)
	if s, err := store.Load(ctx); err != nil || s != nil {
		t.Fatalf("expected no session without a token, got %+v, %v", s, err)
	}
}

func TestSessionStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, _ := NewSessionStore(path)
	ctx := context.Background()

	_ = store.Save(ctx, &domain.Session{Token: "tok"})
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear() error: %v", err)
	}
	if s, _ := store.Load(ctx); s != nil {
		t.Fatalf("expected no session after Clear, got %+v", s)
	}
}

func TestNewSessionStoreRequiresPath(t *testing.T) {
	if _, err := NewSessionStore("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
