package cache

import "context"

// Query is typed access to one key.
type Query[T any] struct {
	cache *Cache
	key   Key
	fetch func(ctx context.Context) (T, error)
}

func NewQuery[T any](c *Cache, key Key, fetch func(ctx context.Context) (T, error)) *Query[T] {
	return &Query[T]{cache: c, key: key, fetch: fetch}
}

func (q *Query[T]) Key() Key {
	return q.key
}

func (q *Query[T]) Read(ctx context.Context) (T, error) {
	v, err := q.cache.Read(ctx, q.key, func(ctx context.Context) (any, error) {
		return q.fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

func (q *Query[T]) Peek() (T, bool) {
	v, ok := q.cache.Peek(q.key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func (q *Query[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return q.cache.Subscribe(q.key, func(v any) {
		if t, ok := v.(T); ok {
			fn(t)
		}
	})
}

func (q *Query[T]) Invalidate(ctx context.Context) {
	q.cache.Invalidate(ctx, q.key)
}

// Mutation runs a write against a backend and, once it succeeds, invalidates
// the keys it affects.
type Mutation[In, Out any] struct {
	cache *Cache
	fn    func(ctx context.Context, in In) (Out, error)
	keys  func() []Key
}

func NewMutation[In, Out any](c *Cache, fn func(ctx context.Context, in In) (Out, error), invalidates ...Key) *Mutation[In, Out] {
	return NewMutationFunc(c, fn, func() []Key { return invalidates })
}

// NewMutationFunc is NewMutation for keys only known when the mutation runs,
// such as keys scoped to the signed-in user.
func NewMutationFunc[In, Out any](c *Cache, fn func(ctx context.Context, in In) (Out, error), keys func() []Key) *Mutation[In, Out] {
	return &Mutation[In, Out]{cache: c, fn: fn, keys: keys}
}

func (m *Mutation[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	var out Out
	err := m.cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		out, err = m.fn(ctx, in)
		return err
	}, m.keys()...)
	return out, err
}
