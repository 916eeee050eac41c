package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/envelope"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// Invalidator is implemented by every accessor so that other accessors and
// the session manager can drop its cached state.
type Invalidator interface {
	InvalidateAll()
}

// cacheKey identifies an entry in an accessor's cache. scopeItem entries hold
// a single resource keyed by its identity; every other scope holds a
// collection (the aggregate list or a server-side filtered sub-list).
type cacheKey struct {
	scope string
	id    int64
	id2   int64
}

const (
	scopeList = "list"
	scopeItem = "item"
)

var listKey = cacheKey{scope: scopeList}

func itemKey(id int64) cacheKey { return cacheKey{scope: scopeItem, id: id} }

// resourceConfig describes one resource kind on the remote API.
type resourceConfig[T any] struct {
	kind     string // singular, for errors and logs
	plural   string // cache name
	listPath string
	// itemPath is the base for /{id} routes; empty when the API has none.
	itemPath   string
	createPath string
	// getFromList resolves Get by scanning the list because the API has no
	// fetch-by-id route for this kind.
	getFromList bool
	id          func(T) int64
	ttl         time.Duration
}

// resource composes Transport, the envelope normalizer and a Cache into the
// typed read/write operations every accessor needs.
type resource[T any] struct {
	cfg       resourceConfig[T]
	transport ports.Transport
	cache     *cache.Cache[cacheKey, []T]
	group     singleflight.Group
	log       zerolog.Logger
}

func newResource[T any](cfg resourceConfig[T], transport ports.Transport, log zerolog.Logger, opts ...cache.Option) *resource[T] {
	return &resource[T]{
		cfg:       cfg,
		transport: transport,
		cache:     cache.New[cacheKey, []T](cfg.plural, cfg.ttl, opts...),
		log:       log.With().Str("resource", cfg.plural).Logger(),
	}
}

func (r *resource[T]) InvalidateAll() {
	r.cache.InvalidateAll()
}

// list returns the canonical collection, from cache when fresh.
func (r *resource[T]) list(ctx context.Context) ([]T, error) {
	return r.collection(ctx, listKey, r.cfg.listPath, "list "+r.cfg.plural)
}

// collection serves a collection endpoint through the cache. Concurrent
// misses for the same path share one round trip.
func (r *resource[T]) collection(ctx context.Context, key cacheKey, path, op string) ([]T, error) {
	if items, ok := r.cache.Get(key); ok {
		return slices.Clone(items), nil
	}

	// Calls are shared only within one cache generation, so a miss that
	// follows an invalidation never joins a fetch started before it.
	gen := r.cache.Generation()
	v, err, _ := r.group.Do(fmt.Sprintf("%s#%d", path, gen), func() (any, error) {
		raw, err := r.transport.Do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		items, err := envelope.DecodeList[T](raw)
		if err != nil {
			return nil, err
		}
		if !r.cache.PutIfCurrent(key, items, gen) && r.cache.TTL() > 0 {
			r.log.Debug().Str("path", path).Msg("discarded fill invalidated during fetch")
		}
		return items, nil
	})
	if err != nil {
		r.log.Debug().Err(err).Str("path", path).Msg("fetch failed")
		return nil, &domain.FetchError{Op: op, Err: err}
	}
	return slices.Clone(v.([]T)), nil
}

// get returns one resource by identity.
func (r *resource[T]) get(ctx context.Context, id int64) (*T, error) {
	if r.cfg.getFromList {
		items, err := r.list(ctx)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if r.cfg.id(it) == id {
				return &it, nil
			}
		}
		return nil, r.notFound(id)
	}

	key := itemKey(id)
	if items, ok := r.cache.Get(key); ok && len(items) == 1 {
		it := items[0]
		return &it, nil
	}

	gen := r.cache.Generation()
	raw, err := r.transport.Do(ctx, http.MethodGet, r.itemURL(id), nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, r.notFound(id)
		}
		return nil, &domain.FetchError{Op: "get " + r.cfg.kind, Err: err}
	}
	it, err := envelope.DecodeObject[T](raw)
	if err != nil {
		return nil, &domain.FetchError{Op: "get " + r.cfg.kind, Err: err}
	}
	r.cache.PutIfCurrent(key, []T{*it}, gen)
	return it, nil
}

// create posts body and returns the created resource.
func (r *resource[T]) create(ctx context.Context, body any) (*T, error) {
	path := r.cfg.createPath
	if path == "" {
		path = r.cfg.listPath
	}
	raw, err := r.transport.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		r.afterFailedWrite(err, 0)
		return nil, &domain.FetchError{Op: "create " + r.cfg.kind, Err: err}
	}
	it, err := envelope.DecodeObject[T](raw)
	if errors.Is(err, domain.ErrDeclined) {
		return nil, &domain.FetchError{Op: "create " + r.cfg.kind, Err: err}
	}
	r.invalidateAfterWrite(0)
	if err != nil {
		return nil, &domain.FetchError{Op: "create " + r.cfg.kind, Err: err}
	}
	return it, nil
}

// update puts body to the item route. The updated resource is returned when
// the API echoes it; otherwise it is re-read.
func (r *resource[T]) update(ctx context.Context, id int64, body any) (*T, error) {
	raw, err := r.transport.Do(ctx, http.MethodPut, r.itemURL(id), body)
	if err != nil {
		r.afterFailedWrite(err, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, r.notFound(id)
		}
		return nil, &domain.FetchError{Op: "update " + r.cfg.kind, Err: err}
	}
	if err := checkDeclined(raw); err != nil {
		return nil, &domain.FetchError{Op: "update " + r.cfg.kind, Err: err}
	}
	r.invalidateAfterWrite(id)
	if it, err := envelope.DecodeObject[T](raw); err == nil && r.cfg.id(*it) == id {
		return it, nil
	}
	return r.get(ctx, id)
}

// remove deletes the item. A missing identity yields NotFoundError, so a
// repeated delete is distinguishable from an upstream failure.
func (r *resource[T]) remove(ctx context.Context, id int64) error {
	raw, err := r.transport.Do(ctx, http.MethodDelete, r.itemURL(id), nil)
	if err != nil {
		r.afterFailedWrite(err, id)
		if errors.Is(err, domain.ErrNotFound) {
			return r.notFound(id)
		}
		return &domain.FetchError{Op: "delete " + r.cfg.kind, Err: err}
	}
	if err := checkDeclined(raw); err != nil {
		return &domain.FetchError{Op: "delete " + r.cfg.kind, Err: err}
	}
	r.invalidateAfterWrite(id)
	return nil
}

// invalidateAfterWrite drops the written identity and every collection,
// since membership may have changed. id 0 means no single identity.
func (r *resource[T]) invalidateAfterWrite(id int64) {
	r.cache.InvalidateFunc(func(k cacheKey) bool {
		return k.scope != scopeItem || k.id == id
	})
}

// afterFailedWrite invalidates when the remote effect of the failed write is
// unknown. A definite rejection leaves the cache untouched.
func (r *resource[T]) afterFailedWrite(err error, id int64) {
	if !writeOutcomeUnknown(err) {
		return
	}
	r.log.Warn().Err(err).Int64("id", id).Msg("write outcome unknown, invalidating cache")
	r.invalidateAfterWrite(id)
}

// writeOutcomeUnknown reports whether a write that returned err may still
// have been applied remotely: no response, a 5xx, or a response that could
// not be read back. Definite rejections (4xx, success=false) are known.
func writeOutcomeUnknown(err error) bool {
	if errors.Is(err, domain.ErrDeclined) {
		return false
	}
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te.Ambiguous()
	}
	return true
}

func (r *resource[T]) itemURL(id int64) string {
	return r.cfg.itemPath + "/" + strconv.FormatInt(id, 10)
}

func (r *resource[T]) notFound(id int64) error {
	return &domain.NotFoundError{Kind: r.cfg.kind, ID: strconv.FormatInt(id, 10)}
}

// checkDeclined reports a {"success": false} answer to a write. Bodies that
// are empty or not envelopes are accepted.
func checkDeclined(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	_, err := envelope.Normalize(raw, envelope.ShapeObject)
	if errors.Is(err, domain.ErrDeclined) {
		return err
	}
	return nil
}

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
