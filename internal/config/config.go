package config

import "time"

type Config interface {
	EnvConfig
	EndpointsConfig
	OIDCConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetDataFolder() string
	GetLogLevel() string
}

type EndpointsConfig interface {
	GetProductAPIURL() string
	GetOrderAPIURL() string
	GetInventoryAPIURL() string
	GetRuntimeConfigURL() string
}

type OIDCConfig interface {
	GetIssuer() string
	GetClientID() string
	GetCallbackAddr() string
	GetRedirectURL() string
	GetScopes() []string
	GetAdminRole() string
	GetRefreshLeeway() time.Duration
	GetAuthCodeTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Endpoints
	OIDC
}

// New builds the configuration from environment variables layered over the
// optional YAML file at DefaultFilePath.
func New() Config {
	return NewWithFile(LoadFile(DefaultFilePath()))
}

// NewWithFile builds the configuration over an already loaded file. A nil file
// means env vars and compiled-in defaults only.
func NewWithFile(f *File) Config {
	if f == nil {
		f = &File{}
	}
	return mainConfig{
		EnvVars:   EnvVars{file: f},
		Endpoints: Endpoints{file: f},
		OIDC:      OIDC{file: f},
	}
}
