package cmd

import (
	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var inventoryCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage product categories",
}

var (
	categoryName        string
	categoryDescription string
	categoryYes         bool
)

var inventoryCategoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := app.categoriesView.List(cmd.Context())
		if err != nil {
			return reported(err)
		}
		renderTable(categoriesTable(categories))
		return nil
	},
}

var inventoryCategoriesGetCmd = &cobra.Command{
	Use:   "get <category-id>",
	Short: "Show a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := app.categoriesView.Get(cmd.Context(), args[0])
		if err != nil {
			return reported(err)
		}
		renderTable(categoriesTable([]gateway.Category{*category}))
		return nil
	},
}

var inventoryCategoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := app.categoriesView.Save(cmd.Context(), gateway.Category{Name: categoryName, Description: categoryDescription})
		if err != nil {
			return reported(err)
		}
		pterm.Info.Printfln("Category id: %s", created.ID)
		return nil
	},
}

var inventoryCategoriesUpdateCmd = &cobra.Command{
	Use:   "update <category-id>",
	Short: "Update a category (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := app.categoriesView.Get(cmd.Context(), args[0])
		if err != nil {
			return reported(err)
		}
		category := *current
		category.ID = args[0]
		if cmd.Flags().Changed("name") {
			category.Name = categoryName
		}
		if cmd.Flags().Changed("description") {
			category.Description = categoryDescription
		}
		if _, err := app.categoriesView.Save(cmd.Context(), category); err != nil {
			return reported(err)
		}
		return nil
	},
}

var inventoryCategoriesDeleteCmd = &cobra.Command{
	Use:   "delete <category-id>",
	Short: "Delete a category (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm(categoryYes, "Delete category "+args[0]+"?")
		if err != nil || !ok {
			return err
		}
		return reported(app.categoriesView.Delete(cmd.Context(), args[0]))
	},
}

func init() {
	for _, c := range []*cobra.Command{inventoryCategoriesCreateCmd, inventoryCategoriesUpdateCmd} {
		c.Flags().StringVar(&categoryName, "name", "", "Category name")
		c.Flags().StringVar(&categoryDescription, "description", "", "Category description")
	}
	inventoryCategoriesDeleteCmd.Flags().BoolVarP(&categoryYes, "yes", "y", false, "Delete without asking")

	inventoryCategoriesCmd.AddCommand(inventoryCategoriesListCmd)
	inventoryCategoriesCmd.AddCommand(inventoryCategoriesGetCmd)
	inventoryCategoriesCmd.AddCommand(inventoryCategoriesCreateCmd)
	inventoryCategoriesCmd.AddCommand(inventoryCategoriesUpdateCmd)
	inventoryCategoriesCmd.AddCommand(inventoryCategoriesDeleteCmd)
}
