package views

import (
	"context"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/rs/zerolog/log"
)

// Routes the views navigate to.
const (
	RouteLogin    = "/login"
	RouteProducts = "/products"
	RouteCart     = "/cart"
	RouteOrders   = "/orders"
)

// Cache keys shared by the views. Mutations invalidate these.
var (
	KeyProducts            = cache.NewKey("products")
	KeyInventoryProducts   = cache.NewKey("inventory-products")
	KeyInventoryCategories = cache.NewKey("categories")
)

func ProductKey(id string) cache.Key          { return cache.NewKey("products", id) }
func InventoryProductKey(id string) cache.Key { return cache.NewKey("inventory-products", id) }
func CategoryKey(id string) cache.Key         { return cache.NewKey("categories", id) }

// Keys for data that belongs to one user carry the subject, so signing in as
// someone else never serves the previous user's cart or orders.
func CartKey(subject string) cache.Key      { return cache.NewKey("cart", subject) }
func OrdersKey(subject string) cache.Key    { return cache.NewKey("orders", subject) }
func OrderKey(subject, id string) cache.Key { return cache.NewKey("orders", subject, id) }

// Session is the part of the session client the views depend on.
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
	Subject() string
	Login(ctx context.Context, returnURL string) error
	SignIn(ctx context.Context, accessToken string) error
}

var _ Session = (*session.Client)(nil)

// Deps are the collaborators shared by every view.
type Deps struct {
	Session   Session
	Catalog   *gateway.CatalogClient
	Orders    *gateway.OrderClient
	Inventory *gateway.InventoryClient
	Cache     *cache.Cache
	Navigator session.Navigator
	Notifier  Notifier
}

func (d Deps) notify(level Level, message string) {
	if d.Notifier != nil {
		d.Notifier.Notify(level, message)
	}
}

func (d Deps) success(message string) {
	d.notify(LevelSuccess, message)
}

func (d Deps) info(message string) {
	d.notify(LevelInfo, message)
}

// fail reports err to the user and returns it unchanged.
func (d Deps) fail(err error, fallback string) error {
	d.notify(LevelError, UserMessage(err, fallback))
	return err
}

// lookupFailed reports a failed detail read. A 404 always shows notFound.
func (d Deps) lookupFailed(err error, notFound, fallback string) error {
	if errors.Is(err, errors.ErrNotFound) {
		d.notify(LevelError, notFound)
		return err
	}
	return d.fail(err, fallback)
}

// requireLogin starts the login flow when there is no session.
func (d Deps) requireLogin(ctx context.Context, returnURL string) error {
	if d.Session.IsAuthenticated() {
		return nil
	}
	if err := d.Session.Login(ctx, returnURL); err != nil {
		log.Err(err).Msg("Failed to start login")
	}
	return d.fail(errors.ErrNotAuthenticated, MsgLoginRequired)
}

// requireAdmin rejects a write before any request when the session lacks
// the admin role. denied is the message shown to the user.
func (d Deps) requireAdmin(denied string) error {
	if d.Session.IsAdmin() {
		return nil
	}
	d.notify(LevelError, denied)
	return errors.Wrapf(errors.ErrNotAdmin, "%s", denied)
}

// adminWriteFailed reports a failed admin write. A 403 from the backend gets
// the same message as the client-side gate.
func (d Deps) adminWriteFailed(err error, denied, fallback string) error {
	if errors.Is(err, errors.ErrForbidden) {
		d.notify(LevelError, denied)
		return err
	}
	return d.fail(err, fallback)
}

func (d Deps) navigate(ctx context.Context, target string) {
	if d.Navigator == nil {
		return
	}
	if err := d.Navigator.Navigate(ctx, target); err != nil {
		log.Err(err).Str("target", target).Msg("Navigation failed")
	}
}
