package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

const ordersPath = "/orders"

// OrderClient talks to the order service.
type OrderClient struct {
	client *Client
}

func NewOrderClient(baseURL *BaseURL, options ...Option) *OrderClient {
	return &OrderClient{client: NewClient("order", baseURL, options...)}
}

func (c *OrderClient) BaseURL() *BaseURL {
	return c.client.BaseURL()
}

// Checkout turns the caller's cart into an order and returns the payment
// session to send the user to.
func (c *OrderClient) Checkout(ctx context.Context) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.client.doJSON(ctx, http.MethodPost, ordersPath+"/checkout", nil, &session); err != nil {
		return nil, err
	}
	if session.SessionURL == "" {
		return nil, errors.Wrapf(errors.ErrServer, "checkout returned no session url")
	}
	return &session, nil
}

func (c *OrderClient) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.client.getJSON(ctx, ordersPath, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *OrderClient) GetOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.client.getJSON(ctx, ordersPath+"/"+url.PathEscape(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}
