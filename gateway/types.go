package gateway

// Product is a catalog entry served by the product service.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Stock       int     `json:"stock"`
}

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the authenticated user's cart. ID is nil until the product
// service has created one.
type Cart struct {
	ID     *int64     `json:"id,omitempty"`
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// Quantity returns the quantity of productID, or 0 when it is not in the cart.
func (c *Cart) Quantity(productID string) int {
	if c == nil {
		return 0
	}
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// CheckoutSession points at the external payment page.
type CheckoutSession struct {
	SessionURL string `json:"sessionUrl"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
}

type Order struct {
	ID          int64       `json:"id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	Items       []OrderItem `json:"items"`
}

// InventoryProduct is a product as the inventory service stores it.
type InventoryProduct struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type Category struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authToken struct {
	Token string `json:"token"`
}
