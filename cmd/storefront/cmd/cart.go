package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage your shopping cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := app.cartView.Load(cmd.Context())
		if err != nil {
			return reported(err)
		}
		pterm.DefaultSection.Println(cartTitle(cart))
		renderTable(cartTable(cart))
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one of a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reported(app.catalogView.AddToCart(cmd.Context(), args[0]))
	},
}

var cartIncCmd = &cobra.Command{
	Use:   "inc <product-id>",
	Short: "Increase the quantity of a cart item by one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reported(app.cartView.Increment(cmd.Context(), args[0]))
	},
}

var cartDecCmd = &cobra.Command{
	Use:   "dec <product-id>",
	Short: "Decrease the quantity of a cart item by one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reported(app.cartView.Decrement(cmd.Context(), args[0]))
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <quantity>",
	Short: "Set the quantity of a cart item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return reported(app.cartView.SetQuantity(cmd.Context(), args[0], quantity))
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item from the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reported(app.cartView.Clear(cmd.Context()))
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check out and open the payment page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.cartView.Checkout(cmd.Context()); err != nil {
			return reported(err)
		}
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartIncCmd)
	cartCmd.AddCommand(cartDecCmd)
	cartCmd.AddCommand(cartSetCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartCheckoutCmd)
}
