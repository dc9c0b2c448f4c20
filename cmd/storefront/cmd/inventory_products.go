package cmd

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/spf13/cobra"
)

var inventoryProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage inventory products",
}

var (
	productName        string
	productDescription string
	productPrice       float64
	productStock       int
	productCategory    string
	productImage       string
	productYes         bool
)

var inventoryProductsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory products",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := app.inventoryProductsView.List(cmd.Context())
		if err != nil {
			return reported(err)
		}
		renderTable(inventoryProductsTable(products))
		return nil
	},
}

var inventoryProductsGetCmd = &cobra.Command{
	Use:   "get <product-id>",
	Short: "Show an inventory product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		product, err := app.inventoryProductsView.Get(cmd.Context(), args[0])
		if err != nil {
			return reported(err)
		}
		renderTable(inventoryProductDetail(product))
		return nil
	},
}

var inventoryProductsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product with an image (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		image, closeImage, err := openImage(productImage)
		if err != nil {
			return err
		}
		defer closeImage()

		product := gateway.InventoryProduct{
			Name:        productName,
			Description: productDescription,
			Price:       productPrice,
			Stock:       productStock,
			Category:    productCategory,
		}
		created, err := app.inventoryProductsView.Create(cmd.Context(), product, *image)
		if err != nil {
			return reported(err)
		}
		renderTable(inventoryProductDetail(created))
		return nil
	},
}

var inventoryProductsUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Update a product (admin)",
	Long:  `Updates the fields given as flags and keeps the others. --image replaces the image.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := app.inventoryProductsView.Get(cmd.Context(), args[0])
		if err != nil {
			return reported(err)
		}
		product := *current
		flags := cmd.Flags()
		if flags.Changed("name") {
			product.Name = productName
		}
		if flags.Changed("description") {
			product.Description = productDescription
		}
		if flags.Changed("price") {
			product.Price = productPrice
		}
		if flags.Changed("stock") {
			product.Stock = productStock
		}
		if flags.Changed("category") {
			product.Category = productCategory
		}

		var image *gateway.File
		if productImage != "" {
			f, closeImage, err := openImage(productImage)
			if err != nil {
				return err
			}
			defer closeImage()
			image = f
		}

		updated, err := app.inventoryProductsView.Update(cmd.Context(), args[0], product, image)
		if err != nil {
			return reported(err)
		}
		renderTable(inventoryProductDetail(updated))
		return nil
	},
}

var inventoryProductsDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm(productYes, "Delete product "+args[0]+"?")
		if err != nil || !ok {
			return err
		}
		return reported(app.inventoryProductsView.Delete(cmd.Context(), args[0]))
	},
}

// openImage opens path for upload. The content type comes from the file
// extension, or is sniffed when the extension is unknown.
func openImage(path string) (*gateway.File, func(), error) {
	if path == "" {
		return &gateway.File{}, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		head := make([]byte, 512)
		n, _ := f.Read(head)
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, 0); err != nil {
			f.Close()
			return nil, nil, err
		}
	}
	return &gateway.File{Name: filepath.Base(path), ContentType: contentType, Content: f}, func() { f.Close() }, nil
}

func init() {
	for _, c := range []*cobra.Command{inventoryProductsCreateCmd, inventoryProductsUpdateCmd} {
		c.Flags().StringVar(&productName, "name", "", "Product name")
		c.Flags().StringVar(&productDescription, "description", "", "Product description")
		c.Flags().Float64Var(&productPrice, "price", 0, "Unit price")
		c.Flags().IntVar(&productStock, "stock", 0, "Units in stock")
		c.Flags().StringVar(&productCategory, "category", "", "Category name")
		c.Flags().StringVar(&productImage, "image", "", "Path to the product image")
	}
	inventoryProductsDeleteCmd.Flags().BoolVarP(&productYes, "yes", "y", false, "Delete without asking")

	inventoryProductsCmd.AddCommand(inventoryProductsListCmd)
	inventoryProductsCmd.AddCommand(inventoryProductsGetCmd)
	inventoryProductsCmd.AddCommand(inventoryProductsCreateCmd)
	inventoryProductsCmd.AddCommand(inventoryProductsUpdateCmd)
	inventoryProductsCmd.AddCommand(inventoryProductsDeleteCmd)
}
