// Package domaintest provides in-memory repositories for service tests.
package domaintest

import (
	"context"
	"sync"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
)

// Entity is what MemoryRepo can store.
type Entity interface {
	entity.Validatable
	entity.Identifiable
}

// MemoryRepo is a map-backed domain.CatalogRepository keeping insertion order.
type MemoryRepo[T Entity] struct {
	mu    sync.Mutex
	name  string
	items map[id.ID]T
	order []id.ID

	// Err, when set, is returned by every write.
	Err error
}

// NewMemoryRepo creates an empty repository; name is used in not-found errors.
func NewMemoryRepo[T Entity](name string) *MemoryRepo[T] {
	return &MemoryRepo[T]{name: name, items: make(map[id.ID]T)}
}

func (r *MemoryRepo[T]) Create(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[e.GetID()]; ok {
		return apperror.NewConflict(r.name + " already exists")
	}
	r.items[e.GetID()] = e
	r.order = append(r.order, e.GetID())
	return nil
}

func (r *MemoryRepo[T]) GetByID(_ context.Context, entityID id.ID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[entityID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(r.name, entityID.String())
	}
	return e, nil
}

func (r *MemoryRepo[T]) Update(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[e.GetID()]; !ok {
		return apperror.NewNotFound(r.name, e.GetID().String())
	}
	r.items[e.GetID()] = e
	return nil
}

func (r *MemoryRepo[T]) Delete(_ context.Context, entityID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[entityID]; !ok {
		return apperror.NewNotFound(r.name, entityID.String())
	}
	delete(r.items, entityID)
	for i, k := range r.order {
		if k == entityID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List ignores search and filters and returns everything in insertion order.
func (r *MemoryRepo[T]) List(_ context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	all := r.All()
	return domain.ListResult[T]{Items: all, TotalCount: int64(len(all)), Limit: f.Limit, Offset: f.Offset}, nil
}

func (r *MemoryRepo[T]) Exists(_ context.Context, entityID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[entityID]
	return ok, nil
}

// All returns the stored entities in insertion order.
func (r *MemoryRepo[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.items[k])
	}
	return out
}

// Where returns stored entities matching keep.
func (r *MemoryRepo[T]) Where(keep func(T) bool) []T {
	var out []T
	for _, e := range r.All() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
