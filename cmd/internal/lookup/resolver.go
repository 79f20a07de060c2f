// Package lookup resolves related records (contacts, customers, users) by id
// on demand. Resolved records are kept in an explicit cache owned by the
// caller rather than on the entities referencing them.
package lookup

import (
	"context"
	"fmt"
)

type Cache[T any] interface {
	Get(ctx context.Context, id int) (T, bool)
	Add(ctx context.Context, id int, value T)
	Remove(ctx context.Context, id int)
}

// FetchFunc loads a record by id, returning nil and no error when it does not exist.
type FetchFunc[T any] func(ctx context.Context, id int) (*T, error)

type Resolver[T any] struct {
	name  string
	fetch FetchFunc[T]
	cache Cache[T]
}

func NewResolver[T any](name string, fetch FetchFunc[T], cache Cache[T]) *Resolver[T] {
	return &Resolver[T]{name: name, fetch: fetch, cache: cache}
}

// Resolve returns the record and true when found, or nil and false when the
// id references nothing.
func (r *Resolver[T]) Resolve(ctx context.Context, id int) (*T, bool, error) {
	if cached, ok := r.cache.Get(ctx, id); ok {
		return &cached, true, nil
	}

	record, err := r.fetch(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("resolving %s %d: %w", r.name, id, err)
	}
	if record == nil {
		return nil, false, nil
	}

	r.cache.Add(ctx, id, *record)
	return record, true, nil
}

// Forget drops a cached record after it changed or was deleted.
func (r *Resolver[T]) Forget(ctx context.Context, id int) {
	r.cache.Remove(ctx, id)
}
