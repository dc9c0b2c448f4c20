package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

const (
	usersPath               = "/users"
	inventoryProductsPath   = "/products"
	inventoryCategoriesPath = "/categories"
)

// SessionExpirer is told when the inventory service rejects the session.
type SessionExpirer interface {
	Expire(ctx context.Context)
}

// InventoryClient talks to the inventory service. Every 401 it receives
// expires the session, whichever operation triggered it.
type InventoryClient struct {
	client *Client
}

func NewInventoryClient(baseURL *BaseURL, sessions SessionExpirer, options ...Option) *InventoryClient {
	if sessions != nil {
		options = append(options, WithUnauthorizedHandler(sessions.Expire))
	}
	return &InventoryClient{client: NewClient("inventory", baseURL, options...)}
}

func (c *InventoryClient) BaseURL() *BaseURL {
	return c.client.BaseURL()
}

func (c *InventoryClient) Register(ctx context.Context, creds Credentials) error {
	return c.client.doJSON(ctx, http.MethodPost, usersPath+"/register", creds, nil)
}

// Login exchanges credentials for a bearer token.
func (c *InventoryClient) Login(ctx context.Context, creds Credentials) (string, error) {
	var token authToken
	if err := c.client.doJSON(ctx, http.MethodPost, usersPath+"/login", creds, &token); err != nil {
		return "", err
	}
	if token.Token == "" {
		return "", errors.Wrapf(errors.ErrInvalidToken, "login returned no token")
	}
	return token.Token, nil
}

func (c *InventoryClient) VerifyEmail(ctx context.Context, token string) error {
	return c.client.getJSON(ctx, usersPath+"/verify/"+url.PathEscape(token), nil)
}

func (c *InventoryClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.client.doJSON(ctx, http.MethodPost, usersPath+"/password/reset", body, nil)
}

func (c *InventoryClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"new_password": newPassword}
	return c.client.doJSON(ctx, http.MethodPost, usersPath+"/password/reset/"+url.PathEscape(token), body, nil)
}

func (c *InventoryClient) ListProducts(ctx context.Context) ([]InventoryProduct, error) {
	var products []InventoryProduct
	if err := c.client.getJSON(ctx, inventoryProductsPath, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *InventoryClient) GetProduct(ctx context.Context, id string) (*InventoryProduct, error) {
	var product InventoryProduct
	if err := c.client.getJSON(ctx, inventoryProductsPath+"/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct uploads the product as a multipart form: the product as a
// JSON "product" field and the image as the "image" file.
func (c *InventoryClient) CreateProduct(ctx context.Context, product InventoryProduct, image File) (*InventoryProduct, error) {
	if image.Content == nil {
		return nil, errors.Wrapf(errors.ErrValidation, "image is required")
	}
	var created InventoryProduct
	if err := c.client.doMultipart(ctx, http.MethodPost, inventoryProductsPath, "product", product, "image", &image, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct sends the product as JSON, or as a multipart form when a
// replacement image is supplied.
func (c *InventoryClient) UpdateProduct(ctx context.Context, id string, product InventoryProduct, image *File) (*InventoryProduct, error) {
	path := inventoryProductsPath + "/" + url.PathEscape(id)
	var updated InventoryProduct
	var err error
	if image != nil {
		err = c.client.doMultipart(ctx, http.MethodPut, path, "product", product, "image", image, &updated)
	} else {
		err = c.client.doJSON(ctx, http.MethodPut, path, product, &updated)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *InventoryClient) DeleteProduct(ctx context.Context, id string) error {
	return c.client.doJSON(ctx, http.MethodDelete, inventoryProductsPath+"/"+url.PathEscape(id), nil, nil)
}

func (c *InventoryClient) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.client.getJSON(ctx, inventoryCategoriesPath, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *InventoryClient) GetCategory(ctx context.Context, id string) (*Category, error) {
	var category Category
	if err := c.client.getJSON(ctx, inventoryCategoriesPath+"/"+url.PathEscape(id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *InventoryClient) CreateCategory(ctx context.Context, category Category) (*Category, error) {
	var created Category
	if err := c.client.doJSON(ctx, http.MethodPost, inventoryCategoriesPath, category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *InventoryClient) UpdateCategory(ctx context.Context, id string, category Category) (*Category, error) {
	var updated Category
	if err := c.client.doJSON(ctx, http.MethodPut, inventoryCategoriesPath+"/"+url.PathEscape(id), category, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *InventoryClient) DeleteCategory(ctx context.Context, id string) error {
	return c.client.doJSON(ctx, http.MethodDelete, inventoryCategoriesPath+"/"+url.PathEscape(id), nil, nil)
}
