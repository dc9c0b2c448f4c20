package config

const (
	productAPIVar    = "PRODUCT_API_URL"
	orderAPIVar      = "ORDER_API_URL"
	inventoryAPIVar  = "INVENTORY_API_URL"
	runtimeConfigVar = "RUNTIME_CONFIG_URL"
)

// Compiled-in fallbacks used until (or unless) the runtime /config fetch overrides them.
const (
	DefaultProductAPIURL   = "http://localhost:8081"
	DefaultOrderAPIURL     = "http://localhost:8082"
	DefaultInventoryAPIURL = "http://localhost:8080/api"
)

type Endpoints struct {
	file *File
}

var _ EndpointsConfig = Endpoints{}

func (e Endpoints) GetProductAPIURL() string {
	return lookup(productAPIVar, e.file.Endpoints.ProductAPI, DefaultProductAPIURL)
}

func (e Endpoints) GetOrderAPIURL() string {
	return lookup(orderAPIVar, e.file.Endpoints.OrderAPI, DefaultOrderAPIURL)
}

func (e Endpoints) GetInventoryAPIURL() string {
	return lookup(inventoryAPIVar, e.file.Endpoints.InventoryAPI, DefaultInventoryAPIURL)
}

// GetRuntimeConfigURL returns the optional /config endpoint. Empty disables the fetch.
func (e Endpoints) GetRuntimeConfigURL() string {
	return lookup(runtimeConfigVar, e.file.Endpoints.RuntimeConfig, "http://localhost:8080/config")
}
