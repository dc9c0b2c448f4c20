package gateway

import (
	"context"
	"net/http"
	"net/url"
)

const (
	productsPath = "/products/info"
	cartPath     = "/products/cart"
)

// CatalogClient talks to the product service: catalog reads and the cart.
type CatalogClient struct {
	client *Client
}

func NewCatalogClient(baseURL *BaseURL, options ...Option) *CatalogClient {
	return &CatalogClient{client: NewClient("product", baseURL, options...)}
}

func (c *CatalogClient) BaseURL() *BaseURL {
	return c.client.BaseURL()
}

func (c *CatalogClient) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.client.getJSON(ctx, productsPath, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.client.getJSON(ctx, productsPath+"/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCart returns the caller's cart, or nil when the service has none.
func (c *CatalogClient) GetCart(ctx context.Context) (*Cart, error) {
	var cart *Cart
	if err := c.client.getJSON(ctx, cartPath, &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (c *CatalogClient) AddToCart(ctx context.Context, cart Cart) (*Cart, error) {
	return c.sendCart(ctx, http.MethodPost, cart)
}

func (c *CatalogClient) UpdateCart(ctx context.Context, cart Cart) (*Cart, error) {
	return c.sendCart(ctx, http.MethodPut, cart)
}

func (c *CatalogClient) DeleteCart(ctx context.Context) error {
	return c.client.doJSON(ctx, http.MethodDelete, cartPath, nil, nil)
}

func (c *CatalogClient) sendCart(ctx context.Context, method string, cart Cart) (*Cart, error) {
	var updated *Cart
	if err := c.client.doJSON(ctx, method, cartPath, cart, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}
