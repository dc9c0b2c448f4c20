package cmd

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Review your orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		orders, err := app.ordersView.Orders(cmd.Context())
		if err != nil {
			return reported(err)
		}
		renderTable(ordersTable(orders))
		return nil
	},
}

var ordersGetCmd = &cobra.Command{
	Use:   "get <order-id>",
	Short: "Show an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := app.ordersView.Order(cmd.Context(), args[0])
		if err != nil {
			return reported(err)
		}
		pterm.DefaultSection.Printfln("Order %s", strconv.FormatInt(order.ID, 10))
		pterm.Info.Printfln("Status: %s, total %s", order.Status, price(order.TotalAmount))
		renderTable(orderItemsTable(order))
		return nil
	},
}

func init() {
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersGetCmd)
}
