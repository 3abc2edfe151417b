package cache

import (
	"context"
	"encoding/json"
	"time"

	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/pkg/logger"
)

// Cache keys.
const (
	KeyActiveClients      = "clients:active"
	KeyActiveCatalogItems = "catalog_items:active"
)

const defaultTTL = 5 * time.Minute

// ActiveList is a read-through cache over a ListActive query. Cache failures
// are logged and the source is queried directly.
type ActiveList[T any] struct {
	store Store
	key   string
	ttl   time.Duration
	load  func(ctx context.Context) ([]T, error)
}

// NewActiveList creates a read-through list cached under key.
func NewActiveList[T any](store Store, key string, ttl time.Duration, load func(ctx context.Context) ([]T, error)) *ActiveList[T] {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ActiveList[T]{store: store, key: key, ttl: ttl, load: load}
}

// ListActive returns the cached list, loading and caching it on a miss.
func (l *ActiveList[T]) ListActive(ctx context.Context) ([]T, error) {
	data, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		logger.Warn(ctx, "cache read failed", "key", l.key, "error", err)
	}
	if ok {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			logger.Debug(ctx, "cache hit", "key", l.key)
			return items, nil
		}
		logger.Warn(ctx, "corrupted cache entry dropped", "key", l.key)
		_ = l.store.Delete(ctx, l.key)
	}

	items, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(items)
	if err != nil {
		logger.Warn(ctx, "cache encode failed", "key", l.key, "error", err)
		return items, nil
	}
	if err := l.store.Set(ctx, l.key, data, l.ttl); err != nil {
		logger.Warn(ctx, "cache write failed", "key", l.key, "error", err)
	}
	return items, nil
}

// Invalidate drops the cached list.
func (l *ActiveList[T]) Invalidate(ctx context.Context) error {
	return l.store.Delete(ctx, l.key)
}

// Evict has the shape of a service lifecycle hook. A failed eviction is
// logged; the entry still expires after its TTL.
func (l *ActiveList[T]) Evict(ctx context.Context, _ T) error {
	if err := l.Invalidate(ctx); err != nil {
		logger.Warn(ctx, "cache invalidation failed", "key", l.key, "error", err)
	}
	return nil
}

// ActiveClients caches client.Service.ListActive.
type ActiveClients = ActiveList[*client.Client]

// ActiveCatalogItems caches catalogitem.Service.ListActive.
type ActiveCatalogItems = ActiveList[*catalogitem.CatalogItem]

// NewActiveClients wires the client list cache and evicts it on every client write.
func NewActiveClients(store Store, ttl time.Duration, svc *client.Service) *ActiveClients {
	l := NewActiveList(store, KeyActiveClients, ttl, svc.ListActive)
	hooks := svc.Hooks()
	hooks.OnAfterCreate(l.Evict)
	hooks.OnAfterUpdate(l.Evict)
	hooks.OnAfterDelete(l.Evict)
	return l
}

// NewActiveCatalogItems wires the catalog list cache and evicts it on every item write.
func NewActiveCatalogItems(store Store, ttl time.Duration, svc *catalogitem.Service) *ActiveCatalogItems {
	l := NewActiveList(store, KeyActiveCatalogItems, ttl, svc.ListActive)
	hooks := svc.Hooks()
	hooks.OnAfterCreate(l.Evict)
	hooks.OnAfterUpdate(l.Evict)
	hooks.OnAfterDelete(l.Evict)
	return l
}
