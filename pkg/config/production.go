package config

import (
	"os"
	"strconv"
)

func loadProductionConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.CatalogManifestPath = os.Getenv("CATALOG_MANIFEST")
	cfg.ContentDir = os.Getenv("CONTENT_DIRECTORY")
	if cfg.ContentDir == "" {
		cfg.ContentDir = "/data/lectures"
	}
	cfg.DatabaseFilePath = os.Getenv("DATABASE_FILE_PATH")
	if cfg.DatabaseFilePath == "" {
		cfg.DatabaseFilePath = "/data/data.sqlite"
	}
	cfg.FrontendURL = os.Getenv("FRONTEND_URL")
	cfg.JWTSecret = os.Getenv("SECRET_KEY")
	cfg.ServerHost = "0.0.0.0"
}
