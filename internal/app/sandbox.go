package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/api"
	"github.com/carepoint/portal-client/internal/config"
	"github.com/carepoint/portal-client/internal/infrastructure/db/memory"
)

const shutdownTimeout = 10 * time.Second

// Sandbox is a local stand-in for the remote clinic API, backed by a seeded
// in-memory store.
type Sandbox struct {
	Store *memory.Store
	echo  *echo.Echo
	addr  string
	log   zerolog.Logger
}

func NewSandbox(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...memory.Option) (*Sandbox, error) {
	store := memory.NewStore(opts...)
	if err := memory.Seed(ctx, store); err != nil {
		return nil, fmt.Errorf("seed sandbox: %w", err)
	}

	e := api.NewRouter(api.Deps{
		Accounts:  store,
		Clinic:    store,
		JWTSecret: cfg.Sandbox.JWTSecret,
		TokenTTL:  cfg.Sandbox.TokenTTL,
		Log:       log,
	})

	return &Sandbox{
		Store: store,
		echo:  e,
		addr:  ":" + cfg.Sandbox.Port,
		log:   log,
	}, nil
}

// Handler exposes the router, for httptest servers.
func (s *Sandbox) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Sandbox) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("sandbox listening")
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("sandbox shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
