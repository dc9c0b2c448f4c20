package views

import (
	"context"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/utils"
)

// CartView is the shopping cart page.
type CartView struct {
	deps     Deps
	update   *cache.Mutation[gateway.Cart, *gateway.Cart]
	clear    *cache.Mutation[struct{}, struct{}]
	checkout *cache.Mutation[struct{}, *gateway.CheckoutSession]
}

func NewCartView(deps Deps) *CartView {
	return &CartView{
		deps: deps,
		update: cache.NewMutationFunc(deps.Cache, func(ctx context.Context, cart gateway.Cart) (*gateway.Cart, error) {
			return deps.Catalog.UpdateCart(ctx, cart)
		}, deps.cartKeys),
		clear: cache.NewMutationFunc(deps.Cache, func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, deps.Catalog.DeleteCart(ctx)
		}, deps.cartKeys),
		checkout: cache.NewMutationFunc(deps.Cache, func(ctx context.Context, _ struct{}) (*gateway.CheckoutSession, error) {
			return deps.Orders.Checkout(ctx)
		}, func() []cache.Key {
			subject := deps.Session.Subject()
			return []cache.Key{CartKey(subject), OrdersKey(subject)}
		}),
	}
}

// cartQuery is the signed-in user's cart.
func (d Deps) cartQuery() *cache.Query[*gateway.Cart] {
	return cache.NewQuery(d.Cache, CartKey(d.Session.Subject()), d.Catalog.GetCart)
}

func (d Deps) cartKeys() []cache.Key {
	return []cache.Key{CartKey(d.Session.Subject())}
}

// Load returns the cart, or nil when the user has none.
func (v *CartView) Load(ctx context.Context) (*gateway.Cart, error) {
	if err := v.deps.requireLogin(ctx, RouteCart); err != nil {
		return nil, err
	}
	cart, err := v.deps.cartQuery().Read(ctx)
	if err != nil {
		return nil, v.deps.fail(err, "Failed to load cart")
	}
	return cart, nil
}

// Subscribe calls fn with the cart whenever a new version is loaded.
func (v *CartView) Subscribe(fn func(*gateway.Cart)) (unsubscribe func()) {
	return v.deps.cartQuery().Subscribe(fn)
}

// SetQuantity replaces the quantity of productID. Quantities below one are
// rejected without contacting the backend.
func (v *CartView) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		v.deps.notify(LevelError, MsgQuantityBelowOne)
		return errors.Wrapf(errors.ErrInvalidQuantity, "%s", MsgQuantityBelowOne)
	}
	if err := v.deps.requireLogin(ctx, RouteCart); err != nil {
		return err
	}

	payload := gateway.Cart{
		UserID: v.deps.Session.Subject(),
		Items:  []gateway.CartItem{{ProductID: productID, Quantity: quantity}},
	}
	if current, ok := v.deps.cartQuery().Peek(); ok && current != nil {
		payload.ID = utils.Clone(current.ID)
	}

	if _, err := v.update.Run(ctx, payload); err != nil {
		return v.deps.fail(err, "Failed to update cart")
	}
	v.deps.success("Cart updated successfully")
	return nil
}

func (v *CartView) Increment(ctx context.Context, productID string) error {
	current, err := v.currentQuantity(ctx, productID)
	if err != nil {
		return err
	}
	return v.SetQuantity(ctx, productID, current+1)
}

func (v *CartView) Decrement(ctx context.Context, productID string) error {
	current, err := v.currentQuantity(ctx, productID)
	if err != nil {
		return err
	}
	return v.SetQuantity(ctx, productID, current-1)
}

// currentQuantity waits for any re-fetch in flight, so back-to-back steps
// each see the quantity the previous one wrote.
func (v *CartView) currentQuantity(ctx context.Context, productID string) (int, error) {
	cart, err := v.Load(ctx)
	if err != nil {
		return 0, err
	}
	return cart.Quantity(productID), nil
}

func (v *CartView) Clear(ctx context.Context) error {
	if err := v.deps.requireLogin(ctx, RouteCart); err != nil {
		return err
	}
	if _, err := v.clear.Run(ctx, struct{}{}); err != nil {
		return v.deps.fail(err, "Failed to clear cart")
	}
	v.deps.success("Cart cleared successfully")
	return nil
}

// Checkout creates the order and navigates to the payment session.
func (v *CartView) Checkout(ctx context.Context) (string, error) {
	if err := v.deps.requireLogin(ctx, RouteCart); err != nil {
		return "", err
	}
	session, err := v.checkout.Run(ctx, struct{}{})
	if err != nil {
		return "", v.deps.fail(err, "Checkout failed")
	}
	v.deps.info("Redirecting to checkout...")
	v.deps.navigate(ctx, session.SessionURL)
	return session.SessionURL, nil
}
