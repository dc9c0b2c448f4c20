package views

import (
	"context"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/utils"
	"github.com/rs/zerolog/log"
)

// CatalogView is the public product listing and product detail page.
type CatalogView struct {
	deps      Deps
	products  *cache.Query[[]gateway.Product]
	addToCart *cache.Mutation[gateway.Cart, *gateway.Cart]
}

func NewCatalogView(deps Deps) *CatalogView {
	return &CatalogView{
		deps:     deps,
		products: cache.NewQuery(deps.Cache, KeyProducts, deps.Catalog.ListProducts),
		addToCart: cache.NewMutationFunc(deps.Cache, func(ctx context.Context, cart gateway.Cart) (*gateway.Cart, error) {
			return deps.Catalog.AddToCart(ctx, cart)
		}, deps.cartKeys),
	}
}

func (v *CatalogView) Products(ctx context.Context) ([]gateway.Product, error) {
	products, err := v.products.Read(ctx)
	if err != nil {
		return nil, v.deps.fail(err, "Failed to load products")
	}
	return products, nil
}

func (v *CatalogView) Product(ctx context.Context, id string) (*gateway.Product, error) {
	query := cache.NewQuery(v.deps.Cache, ProductKey(id), func(ctx context.Context) (*gateway.Product, error) {
		return v.deps.Catalog.GetProduct(ctx, id)
	})
	product, err := query.Read(ctx)
	if err != nil {
		return nil, v.deps.lookupFailed(err, "Product not found", "Failed to load product details")
	}
	return product, nil
}

// AddToCart adds one unit of productID, reusing the user's cart when one
// exists. Unauthenticated users are sent to log in instead.
func (v *CatalogView) AddToCart(ctx context.Context, productID string) error {
	if err := v.deps.requireLogin(ctx, RouteProducts+"/"+productID); err != nil {
		return err
	}

	payload := gateway.Cart{
		UserID: v.deps.Session.Subject(),
		Items:  []gateway.CartItem{{ProductID: productID, Quantity: 1}},
	}
	existing, err := v.deps.cartQuery().Read(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("No existing cart found, creating new one")
	} else if existing != nil {
		payload.ID = utils.Clone(existing.ID)
	}

	if _, err := v.addToCart.Run(ctx, payload); err != nil {
		return v.deps.fail(err, "Failed to add to cart")
	}
	v.deps.success("Added to cart!")
	return nil
}
