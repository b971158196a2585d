package config

import (
	"os"
	"strconv"
)

func loadDevelopmentConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.CatalogManifestPath = os.Getenv("CATALOG_MANIFEST")
	cfg.ContentDir = "./lectures"
	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/data.sqlite"
	cfg.FrontendURL = "http://localhost:5173"
	cfg.JWTSecret = "development-secret"
	cfg.ServerHost = "127.0.0.1"
}
