package views

import (
	"context"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
)

// OrdersView is the order history page. It requires a session.
type OrdersView struct {
	deps Deps
}

func NewOrdersView(deps Deps) *OrdersView {
	return &OrdersView{deps: deps}
}

func (v *OrdersView) Orders(ctx context.Context) ([]gateway.Order, error) {
	if err := v.deps.requireLogin(ctx, RouteOrders); err != nil {
		return nil, err
	}
	query := cache.NewQuery(v.deps.Cache, OrdersKey(v.deps.Session.Subject()), v.deps.Orders.ListOrders)
	orders, err := query.Read(ctx)
	if err != nil {
		return nil, v.deps.fail(err, "Failed to load orders")
	}
	return orders, nil
}

func (v *OrdersView) Order(ctx context.Context, id string) (*gateway.Order, error) {
	if err := v.deps.requireLogin(ctx, RouteOrders+"/"+id); err != nil {
		return nil, err
	}
	query := cache.NewQuery(v.deps.Cache, OrderKey(v.deps.Session.Subject(), id), func(ctx context.Context) (*gateway.Order, error) {
		return v.deps.Orders.GetOrder(ctx, id)
	})
	order, err := query.Read(ctx)
	if err != nil {
		return nil, v.deps.lookupFailed(err, "Order not found", "Failed to load order")
	}
	return order, nil
}
