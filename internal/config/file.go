package config

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const configFileVar = "STOREFRONT_CONFIG"

// File is the optional YAML configuration. Every field is optional; env vars
// take precedence over anything set here.
type File struct {
	AppName    string `yaml:"app_name"`
	Env        string `yaml:"env"`
	DataFolder string `yaml:"data_folder"`
	LogLevel   string `yaml:"log_level"`

	Endpoints struct {
		ProductAPI    string `yaml:"product_api"`
		OrderAPI      string `yaml:"order_api"`
		InventoryAPI  string `yaml:"inventory_api"`
		RuntimeConfig string `yaml:"runtime_config"`
	} `yaml:"endpoints"`

	OIDC struct {
		Issuer        string   `yaml:"issuer"`
		ClientID      string   `yaml:"client_id"`
		CallbackAddr  string   `yaml:"callback_addr"`
		Scopes        []string `yaml:"scopes"`
		AdminRole     string   `yaml:"admin_role"`
		RefreshLeeway string   `yaml:"refresh_leeway"`
	} `yaml:"oidc"`
}

// DefaultFilePath returns $STOREFRONT_CONFIG or ~/.config/storefront/config.yaml.
func DefaultFilePath() string {
	if p := os.Getenv(configFileVar); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "storefront", "config.yaml")
}

// LoadFile reads the YAML file at path. A missing or unreadable file yields nil;
// a malformed one is logged and ignored.
func LoadFile(path string) *File {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		log.Err(err).Str("path", path).Msg("ignoring malformed config file")
		return nil
	}
	return &f
}
