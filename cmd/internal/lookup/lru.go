package lookup

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

type LRUCache[T any] struct {
	arena *lru.Cache[int, T]
}

func NewLRUCache[T any](size int) (*LRUCache[T], error) {
	arena, err := lru.New[int, T](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache[T]{arena: arena}, nil
}

func (c *LRUCache[T]) Get(_ context.Context, id int) (T, bool) {
	return c.arena.Get(id)
}

func (c *LRUCache[T]) Add(_ context.Context, id int, value T) {
	c.arena.Add(id, value)
}

func (c *LRUCache[T]) Remove(_ context.Context, id int) {
	c.arena.Remove(id)
}
