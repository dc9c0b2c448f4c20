package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar  = "APP_NAME"
	envVar      = "ENV"
	folderVar   = "FOLDER"
	logLevelVar = "STOREFRONT_LOG_LEVEL"
)

type EnvVars struct {
	file *File
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return lookup(appNameVar, e.file.AppName, "Storefront")
}

func (e EnvVars) GetEnv() string {
	return lookup(envVar, e.file.Env, "DEV")
}

// GetDataFolder is where the persisted session lives.
func (e EnvVars) GetDataFolder() string {
	def := "./data"
	if home, err := os.UserHomeDir(); err == nil {
		def = filepath.Join(home, ".storefront")
	}
	return lookup(folderVar, e.file.DataFolder, def)
}

func (e EnvVars) GetLogLevel() string {
	return lookup(logLevelVar, e.file.LogLevel, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// lookup resolves env var, then file value, then the default.
func lookup(envVar, fileValue, defaultValue string) string {
	if fileValue != "" {
		defaultValue = fileValue
	}
	return GetEnv(envVar, defaultValue)
}
