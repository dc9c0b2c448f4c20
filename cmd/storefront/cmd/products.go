package cmd

import (
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := app.catalogView.Products(cmd.Context())
		if err != nil {
			return reported(err)
		}
		renderTable(productsTable(products))
		return nil
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get <product-id>",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		product, err := app.catalogView.Product(cmd.Context(), args[0])
		if err != nil {
			return reported(err)
		}
		renderTable(productDetail(product))
		return nil
	},
}

func init() {
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsGetCmd)
}
