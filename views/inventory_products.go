package views

import (
	"context"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
)

const (
	MsgAdminCreateProduct = "Only admins can create products"
	MsgAdminUpdateProduct = "Only admins can update products"
	MsgAdminDeleteProduct = "Only admins can delete products"
)

// InventoryProductsView manages inventory products with the same gating as
// CategoriesView.
type InventoryProductsView struct {
	deps     Deps
	products *cache.Query[[]gateway.InventoryProduct]
}

func NewInventoryProductsView(deps Deps) *InventoryProductsView {
	return &InventoryProductsView{
		deps:     deps,
		products: cache.NewQuery(deps.Cache, KeyInventoryProducts, deps.Inventory.ListProducts),
	}
}

func (v *InventoryProductsView) List(ctx context.Context) ([]gateway.InventoryProduct, error) {
	products, err := v.products.Read(ctx)
	if err != nil {
		return nil, v.deps.fail(err, "Failed to load data")
	}
	return products, nil
}

func (v *InventoryProductsView) Get(ctx context.Context, id string) (*gateway.InventoryProduct, error) {
	query := cache.NewQuery(v.deps.Cache, InventoryProductKey(id), func(ctx context.Context) (*gateway.InventoryProduct, error) {
		return v.deps.Inventory.GetProduct(ctx, id)
	})
	product, err := query.Read(ctx)
	if err != nil {
		return nil, v.deps.lookupFailed(err, "Product not found", "Failed to load product details")
	}
	return product, nil
}

func (v *InventoryProductsView) Create(ctx context.Context, product gateway.InventoryProduct, image gateway.File) (*gateway.InventoryProduct, error) {
	if err := v.deps.requireAdmin(MsgAdminCreateProduct); err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, v.deps.fail(err, "")
	}
	if image.Content == nil {
		return nil, v.deps.fail(&InputError{Message: "Image is required"}, "")
	}

	var created *gateway.InventoryProduct
	err := v.deps.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = v.deps.Inventory.CreateProduct(ctx, product, image)
		return err
	}, KeyInventoryProducts)
	if err != nil {
		return nil, v.deps.adminWriteFailed(err, MsgAdminCreateProduct, "Failed to create product")
	}
	v.deps.success("Product created successfully")
	return created, nil
}

// Update saves product. image may be nil to keep the current one.
func (v *InventoryProductsView) Update(ctx context.Context, id string, product gateway.InventoryProduct, image *gateway.File) (*gateway.InventoryProduct, error) {
	if err := v.deps.requireAdmin(MsgAdminUpdateProduct); err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, v.deps.fail(err, "")
	}

	var updated *gateway.InventoryProduct
	err := v.deps.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = v.deps.Inventory.UpdateProduct(ctx, id, product, image)
		return err
	}, KeyInventoryProducts, InventoryProductKey(id))
	if err != nil {
		return nil, v.deps.adminWriteFailed(err, MsgAdminUpdateProduct, "Failed to update product")
	}
	v.deps.success("Product updated successfully")
	return updated, nil
}

func (v *InventoryProductsView) Delete(ctx context.Context, id string) error {
	if err := v.deps.requireAdmin(MsgAdminDeleteProduct); err != nil {
		return err
	}
	err := v.deps.Cache.Mutate(ctx, func(ctx context.Context) error {
		return v.deps.Inventory.DeleteProduct(ctx, id)
	}, KeyInventoryProducts, InventoryProductKey(id))
	if err != nil {
		return v.deps.adminWriteFailed(err, MsgAdminDeleteProduct, "Failed to delete product")
	}
	v.deps.success("Product deleted successfully")
	return nil
}

func validateProduct(product gateway.InventoryProduct) error {
	switch {
	case product.Name == "":
		return &InputError{Message: "Name is required"}
	case product.Price < 0:
		return &InputError{Message: "Price cannot be negative"}
	case product.Stock < 0:
		return &InputError{Message: "Stock cannot be negative"}
	}
	return nil
}
