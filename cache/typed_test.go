package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/stretchr/testify/require"
)

type cart struct {
	Items int
}

func TestTypedQueryAndMutation(t *testing.T) {
	c := setupTestFixture(t)
	backend := &cart{Items: 1}
	fetches := 0
	query := cache.NewQuery(c, cartKey, func(ctx context.Context) (*cart, error) {
		fetches++
		copied := *backend
		return &copied, nil
	})

	got, err := query.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, got.Items)

	var latest *cart
	unsubscribe := query.Subscribe(func(c *cart) { latest = c })
	defer unsubscribe()
	require.Equal(t, 1, latest.Items)

	add := cache.NewMutation(c, func(ctx context.Context, n int) (int, error) {
		if n < 1 {
			return 0, errors.New("invalid")
		}
		backend.Items += n
		return backend.Items, nil
	}, cartKey)

	_, err = add.Run(context.Background(), 0)
	require.Error(t, err)
	c.Wait()
	require.Equal(t, 1, fetches)

	total, err := add.Run(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	c.Wait()

	require.Equal(t, 3, latest.Items)
	peeked, ok := query.Peek()
	require.True(t, ok)
	require.Equal(t, 3, peeked.Items)
	require.Equal(t, cartKey, query.Key())
}

func TestMutationFuncResolvesKeysOnRun(t *testing.T) {
	c := setupTestFixture(t)
	owner := "user-1"
	fetches := map[string]int{}
	read := func(subject string) {
		_, err := c.Read(context.Background(), cache.NewKey("cart", subject), func(ctx context.Context) (any, error) {
			fetches[subject]++
			return subject, nil
		})
		require.NoError(t, err)
	}
	read("user-1")
	read("user-2")

	empty := cache.NewMutationFunc(c, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, nil
	}, func() []cache.Key { return []cache.Key{cache.NewKey("cart", owner)} })

	owner = "user-2"
	_, err := empty.Run(context.Background(), struct{}{})
	require.NoError(t, err)
	c.Wait()

	require.Equal(t, 1, fetches["user-1"])
	require.Equal(t, 2, fetches["user-2"])
}
