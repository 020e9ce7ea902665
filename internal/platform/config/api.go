package config

import (
	"fmt"
	"os"
)

// APIConfig is the deployment-provided configuration for the API server.
type APIConfig struct {
	Port           string
	StorageBackend string
	DatabaseURL    string
}

func LoadAPIConfigFromEnv() (APIConfig, error) {
	cfg := APIConfig{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}
	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return APIConfig{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return APIConfig{}, fmt.Errorf("unknown STORAGE_BACKEND %q (want memory or postgres)", cfg.StorageBackend)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
