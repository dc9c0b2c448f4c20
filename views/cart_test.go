package views_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/utils"
	"github.com/jrsteele09/go-storefront/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cartBackend keeps a single cart and applies PUTs to it.
func cartBackend(f *testFixture, quantity int) {
	var mu sync.Mutex
	cart := gateway.Cart{ID: utils.Ptr(int64(7)), UserID: "user-1", Items: []gateway.CartItem{{ProductID: "p1", Quantity: quantity}}}

	f.backend.handle("GET /products/cart", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, cart)
	})
	f.backend.handle("PUT /products/cart", func(w http.ResponseWriter, r *http.Request) {
		var update gateway.Cart
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad cart", http.StatusBadRequest)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		cart.Items[0].Quantity = update.Items[0].Quantity
		writeJSON(w, http.StatusOK, cart)
	})
}

func TestCartDecrementStopsAtOne(t *testing.T) {
	f := setupTestFixture(t)
	cartBackend(f, 2)
	cart := views.NewCartView(f.deps)
	ctx := context.Background()

	loaded, err := cart.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Quantity("p1"))

	require.NoError(t, cart.Decrement(ctx, "p1"))
	f.cache.Wait()
	require.Equal(t, "Cart updated successfully", f.lastMessage(t).Message)

	reqs := f.backend.Requests()
	put := reqs[1]
	require.Equal(t, http.MethodPut, put.Method)
	require.EqualValues(t, 7, put.Body["id"])
	require.Equal(t, "user-1", put.Body["userId"])

	before := f.backend.Count()
	err = cart.Decrement(ctx, "p1")
	require.ErrorIs(t, err, errors.ErrInvalidQuantity)
	require.Equal(t, before, f.backend.Count(), "rejected before any network call")

	last := f.lastMessage(t)
	require.Equal(t, views.LevelError, last.Level)
	require.Equal(t, "Quantity cannot be less than 1", last.Message)
}

func TestCartSetQuantityRejectsZeroWithoutSession(t *testing.T) {
	f := setupTestFixture(t)
	f.session.authenticated = false

	err := views.NewCartView(f.deps).SetQuantity(context.Background(), "p1", 0)

	require.ErrorIs(t, err, errors.ErrInvalidQuantity)
	require.Zero(t, f.backend.Count())
	require.Empty(t, f.session.Logins())
}

func TestCartRequiresLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.session.authenticated = false

	_, err := views.NewCartView(f.deps).Load(context.Background())

	require.ErrorIs(t, err, errors.ErrNotAuthenticated)
	require.Equal(t, []string{views.RouteCart}, f.session.Logins())
	require.Zero(t, f.backend.Count())
}

func TestCartUpdateFailureSurfacesBackendMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.handle("PUT /products/cart", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Not enough stock"})
	})

	err := views.NewCartView(f.deps).SetQuantity(context.Background(), "p1", 5)

	require.ErrorIs(t, err, errors.ErrValidation)
	require.Equal(t, "Not enough stock", f.lastMessage(t).Message)
}

func TestCartSubscribersSeeRefetchAfterMutation(t *testing.T) {
	f := setupTestFixture(t)
	cartBackend(f, 3)
	cart := views.NewCartView(f.deps)
	ctx := context.Background()

	_, err := cart.Load(ctx)
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []int
	unsubscribe := cart.Subscribe(func(c *gateway.Cart) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, c.Quantity("p1"))
	})
	defer unsubscribe()

	require.NoError(t, cart.Decrement(ctx, "p1"))
	f.cache.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3, 2}, seen)
}

func TestCartClear(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.handle("DELETE /products/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, views.NewCartView(f.deps).Clear(context.Background()))
	require.Equal(t, "Cart cleared successfully", f.lastMessage(t).Message)
}

func TestCheckoutNavigatesAndInvalidates(t *testing.T) {
	f := setupTestFixture(t)
	cartBackend(f, 1)
	orderCalls := 0
	var mu sync.Mutex
	f.backend.handle("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		orderCalls++
		mu.Unlock()
		writeJSON(w, http.StatusOK, []gateway.Order{})
	})
	f.backend.handle("POST /orders/checkout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"sessionUrl": "https://pay.test/session/9"})
	})
	ctx := context.Background()
	cart := views.NewCartView(f.deps)
	orders := views.NewOrdersView(f.deps)

	_, err := cart.Load(ctx)
	require.NoError(t, err)
	_, err = orders.Orders(ctx)
	require.NoError(t, err)

	url, err := cart.Checkout(ctx)
	require.NoError(t, err)
	f.cache.Wait()

	require.Equal(t, "https://pay.test/session/9", url)
	require.Equal(t, []string{"https://pay.test/session/9"}, f.Navigated())
	require.Equal(t, "Redirecting to checkout...", f.lastMessage(t).Message)
	mu.Lock()
	require.Equal(t, 2, orderCalls, "orders re-fetched after checkout")
	mu.Unlock()
}

func TestCheckoutFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.handle("POST /orders/checkout", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stripe unavailable", http.StatusBadGateway)
	})

	_, err := views.NewCartView(f.deps).Checkout(context.Background())

	require.ErrorIs(t, err, errors.ErrServer)
	require.Equal(t, "Checkout failed", f.lastMessage(t).Message)
	require.Empty(t, f.Navigated())
}

func TestCartConsecutiveDecrementsWaitForRefetch(t *testing.T) {
	f := setupTestFixture(t)
	var mu sync.Mutex
	quantity := 2
	puts := 0
	f.backend.handle("GET /products/cart", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, gateway.Cart{ID: utils.Ptr(int64(7)), UserID: "user-1", Items: []gateway.CartItem{{ProductID: "p1", Quantity: quantity}}})
	})
	f.backend.handle("PUT /products/cart", func(w http.ResponseWriter, r *http.Request) {
		var update gateway.Cart
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad cart", http.StatusBadRequest)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		puts++
		quantity = update.Items[0].Quantity
		writeJSON(w, http.StatusOK, update)
	})
	cart := views.NewCartView(f.deps)
	ctx := context.Background()

	_, err := cart.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, cart.Decrement(ctx, "p1"))
	err = cart.Decrement(ctx, "p1")

	require.ErrorIs(t, err, errors.ErrInvalidQuantity)
	require.Equal(t, "Quantity cannot be less than 1", f.lastMessage(t).Message)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, puts)
	assert.Equal(t, 1, quantity)
}

func TestCartIsScopedToSignedInUser(t *testing.T) {
	f := setupTestFixture(t)
	var mu sync.Mutex
	owner := "user-1"
	f.backend.handle("GET /products/cart", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, gateway.Cart{UserID: owner, Items: []gateway.CartItem{{ProductID: "p1", Quantity: 1}}})
	})
	cart := views.NewCartView(f.deps)
	ctx := context.Background()

	first, err := cart.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", first.UserID)

	mu.Lock()
	owner = "user-2"
	mu.Unlock()
	f.session.mu.Lock()
	f.session.subject = "user-2"
	f.session.mu.Unlock()

	second, err := cart.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-2", second.UserID)
	assert.Equal(t, 2, f.backend.Count())
}
