package views

import (
	"context"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
)

const (
	MsgAdminCreateCategory = "Only admins can create categories"
	MsgAdminUpdateCategory = "Only admins can update categories"
	MsgAdminDeleteCategory = "Only admins can delete categories"
)

// CategoriesView manages inventory categories. Reads are open to everyone;
// writes require the admin role.
type CategoriesView struct {
	deps       Deps
	categories *cache.Query[[]gateway.Category]
}

func NewCategoriesView(deps Deps) *CategoriesView {
	return &CategoriesView{
		deps:       deps,
		categories: cache.NewQuery(deps.Cache, KeyInventoryCategories, deps.Inventory.ListCategories),
	}
}

func (v *CategoriesView) List(ctx context.Context) ([]gateway.Category, error) {
	categories, err := v.categories.Read(ctx)
	if err != nil {
		return nil, v.deps.fail(err, "Failed to fetch categories")
	}
	return categories, nil
}

func (v *CategoriesView) Get(ctx context.Context, id string) (*gateway.Category, error) {
	query := cache.NewQuery(v.deps.Cache, CategoryKey(id), func(ctx context.Context) (*gateway.Category, error) {
		return v.deps.Inventory.GetCategory(ctx, id)
	})
	category, err := query.Read(ctx)
	if err != nil {
		return nil, v.deps.lookupFailed(err, "Category not found", "Failed to load category details")
	}
	return category, nil
}

// Save creates category when it has no ID and updates it otherwise.
func (v *CategoriesView) Save(ctx context.Context, category gateway.Category) (*gateway.Category, error) {
	if category.ID == "" {
		return v.create(ctx, category)
	}
	return v.update(ctx, category)
}

func (v *CategoriesView) create(ctx context.Context, category gateway.Category) (*gateway.Category, error) {
	if err := v.deps.requireAdmin(MsgAdminCreateCategory); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, v.deps.fail(err, "")
	}

	var created *gateway.Category
	err := v.deps.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = v.deps.Inventory.CreateCategory(ctx, category)
		return err
	}, KeyInventoryCategories)
	if err != nil {
		return nil, v.deps.adminWriteFailed(err, MsgAdminCreateCategory, "Failed to save category")
	}
	v.deps.success("Category created successfully")
	return created, nil
}

func (v *CategoriesView) update(ctx context.Context, category gateway.Category) (*gateway.Category, error) {
	if err := v.deps.requireAdmin(MsgAdminUpdateCategory); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, v.deps.fail(err, "")
	}

	var updated *gateway.Category
	err := v.deps.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = v.deps.Inventory.UpdateCategory(ctx, category.ID, category)
		return err
	}, KeyInventoryCategories, CategoryKey(category.ID))
	if err != nil {
		return nil, v.deps.adminWriteFailed(err, MsgAdminUpdateCategory, "Failed to save category")
	}
	v.deps.success("Category updated successfully")
	return updated, nil
}

func (v *CategoriesView) Delete(ctx context.Context, id string) error {
	if err := v.deps.requireAdmin(MsgAdminDeleteCategory); err != nil {
		return err
	}
	err := v.deps.Cache.Mutate(ctx, func(ctx context.Context) error {
		return v.deps.Inventory.DeleteCategory(ctx, id)
	}, KeyInventoryCategories, CategoryKey(id))
	if err != nil {
		return v.deps.adminWriteFailed(err, MsgAdminDeleteCategory, "Failed to delete category")
	}
	v.deps.success("Category deleted successfully")
	return nil
}

func validateCategory(category gateway.Category) error {
	switch {
	case category.Name == "":
		return &InputError{Message: "Name is required"}
	case category.Description == "":
		return &InputError{Message: "Description is required"}
	}
	return nil
}
