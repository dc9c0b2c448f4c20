package cmd

import (
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/utils"
	"github.com/jrsteele09/go-storefront/views"
	"github.com/pterm/pterm"
)

func printNotification(n views.Notification) {
	switch n.Level {
	case views.LevelSuccess:
		pterm.Success.Println(n.Message)
	case views.LevelError:
		pterm.Error.Println(n.Message)
	default:
		pterm.Info.Println(n.Message)
	}
}

func renderTable(data pterm.TableData) {
	if len(data) <= 1 {
		pterm.Info.Println("Nothing to show")
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func price(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func productsTable(products []gateway.Product) pterm.TableData {
	data := pterm.TableData{{"ID", "NAME", "CATEGORY", "PRICE", "STOCK"}}
	for _, p := range products {
		data = append(data, []string{p.ID, p.Name, p.Category, price(p.Price), strconv.Itoa(p.Stock)})
	}
	return data
}

func productDetail(p *gateway.Product) pterm.TableData {
	return pterm.TableData{
		{"FIELD", "VALUE"},
		{"ID", p.ID},
		{"Name", p.Name},
		{"Description", p.Description},
		{"Category", p.Category},
		{"Price", price(p.Price)},
		{"Stock", strconv.Itoa(p.Stock)},
		{"Image", p.ImageURL},
	}
}

// cartTitle names the cart by its backend ID. A cart without one has not been
// saved yet.
func cartTitle(cart *gateway.Cart) string {
	if cart == nil || cart.ID == nil {
		return "Cart"
	}
	return fmt.Sprintf("Cart #%d", utils.Value(cart.ID))
}

func cartTable(cart *gateway.Cart) pterm.TableData {
	data := pterm.TableData{{"PRODUCT", "QUANTITY"}}
	if cart == nil {
		return data
	}
	for _, item := range cart.Items {
		data = append(data, []string{item.ProductID, strconv.Itoa(item.Quantity)})
	}
	return data
}

func ordersTable(orders []gateway.Order) pterm.TableData {
	data := pterm.TableData{{"ID", "STATUS", "ITEMS", "TOTAL"}}
	for _, o := range orders {
		data = append(data, []string{strconv.FormatInt(o.ID, 10), o.Status, strconv.Itoa(len(o.Items)), price(o.TotalAmount)})
	}
	return data
}

func orderItemsTable(order *gateway.Order) pterm.TableData {
	data := pterm.TableData{{"PRODUCT", "QUANTITY", "PRICE"}}
	for _, item := range order.Items {
		data = append(data, []string{item.ProductID, strconv.Itoa(item.Quantity), price(item.Price)})
	}
	return data
}

func inventoryProductsTable(products []gateway.InventoryProduct) pterm.TableData {
	data := pterm.TableData{{"ID", "NAME", "CATEGORY", "PRICE", "STOCK"}}
	for _, p := range products {
		data = append(data, []string{p.ID, p.Name, p.Category, price(p.Price), strconv.Itoa(p.Stock)})
	}
	return data
}

func inventoryProductDetail(p *gateway.InventoryProduct) pterm.TableData {
	return pterm.TableData{
		{"FIELD", "VALUE"},
		{"ID", p.ID},
		{"Name", p.Name},
		{"Description", p.Description},
		{"Category", p.Category},
		{"Price", price(p.Price)},
		{"Stock", strconv.Itoa(p.Stock)},
		{"Image", p.ImageURL},
	}
}

func categoriesTable(categories []gateway.Category) pterm.TableData {
	data := pterm.TableData{{"ID", "NAME", "DESCRIPTION"}}
	for _, c := range categories {
		data = append(data, []string{c.ID, c.Name, c.Description})
	}
	return data
}
