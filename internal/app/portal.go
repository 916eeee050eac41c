// Package app wires configuration, logging, session persistence and the
// resource accessors into a ready-to-use portal client, and the in-memory
// store into the sandbox API server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/config"
	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/ports"
	"github.com/carepoint/portal-client/internal/core/service"
	"github.com/carepoint/portal-client/internal/core/session"
	"github.com/carepoint/portal-client/internal/infrastructure/db/filestore"
	"github.com/carepoint/portal-client/internal/infrastructure/db/redis"
	"github.com/carepoint/portal-client/internal/infrastructure/transport"
)

// Portal is the client-side object graph. All accessors share one Transport
// and one session Manager.
type Portal struct {
	Sessions       *session.Manager
	Auth           *service.AuthService
	Employees      *service.EmployeeService
	Qualifications *service.QualificationService
	Catalog        *service.CatalogService
	Feedback       *service.FeedbackService
	Bookings       *service.BookingService
	Dashboard      *service.DashboardService

	log     zerolog.Logger
	closers []func() error
}

// Option overrides a collaborator NewPortal would otherwise build from
// configuration.
type Option func(*portalOptions)

type portalOptions struct {
	store      ports.SessionStore
	httpClient *http.Client
	cacheOpts  []cache.Option
}

// WithSessionStore bypasses the configured session store.
func WithSessionStore(store ports.SessionStore) Option {
	return func(o *portalOptions) { o.store = store }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *portalOptions) { o.httpClient = hc }
}

// WithCacheOptions is applied to every accessor cache.
func WithCacheOptions(opts ...cache.Option) Option {
	return func(o *portalOptions) { o.cacheOpts = append(o.cacheOpts, opts...) }
}

// NewPortal builds the client and restores the persisted session, if any.
func NewPortal(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*Portal, error) {
	var o portalOptions
	for _, opt := range opts {
		opt(&o)
	}

	p := &Portal{log: log}

	store := o.store
	if store == nil {
		var err error
		store, err = p.openSessionStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.API.Timeout}
	}

	p.Sessions = session.NewManager(store, log.With().Str("component", "session").Logger())
	client := transport.New(transport.Config{BaseURL: cfg.API.BaseURL, HTTPClient: hc}, p.Sessions, log.With().Str("component", "transport").Logger())

	ttl := cfg.API.CacheTTL
	p.Auth = service.NewAuthService(client, p.Sessions, ttl, log, o.cacheOpts...)
	p.Employees = service.NewEmployeeService(client, ttl, log, o.cacheOpts...)
	p.Qualifications = service.NewQualificationService(client, ttl, log, o.cacheOpts...)
	p.Catalog = service.NewCatalogService(client, ttl, log, o.cacheOpts...)
	p.Feedback = service.NewFeedbackService(client, p.Sessions, ttl, log, o.cacheOpts...)
	p.Dashboard = service.NewDashboardService(client, ttl, cfg.API.DemoMode, log, o.cacheOpts...)
	p.Bookings = service.NewBookingService(client, log, p.Dashboard)

	// Every cached answer may depend on who asked.
	p.Sessions.OnChange(p.InvalidateAll)

	if _, ok, err := p.Auth.Restore(ctx); err != nil {
		_ = p.Close()
		return nil, err
	} else if ok {
		log.Debug().Msg("restored persisted session")
	}
	return p, nil
}

// InvalidateAll drops every accessor cache.
func (p *Portal) InvalidateAll() {
	for _, inv := range []service.Invalidator{
		p.Auth, p.Employees, p.Qualifications, p.Catalog, p.Feedback, p.Dashboard,
	} {
		inv.InvalidateAll()
	}
	p.log.Debug().Msg("caches invalidated")
}

// Close releases connections opened for the session store.
func (p *Portal) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c())
	}
	p.closers = nil
	return errors.Join(errs...)
}

func (p *Portal) openSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, error) {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), nil
	case config.SessionStoreRedis:
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		p.closers = append(p.closers, rdb.Close)
		return redis.NewSessionStore(rdb), nil
	default:
		store, err := filestore.NewSessionStore(cfg.Session.File)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		return store, nil
	}
}
