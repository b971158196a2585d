package config

func loadTestConfig(cfg *Config) {
	cfg.ContentDir = "./tmp/lectures"
	cfg.DatabaseFilePath = ":memory:"
	cfg.FrontendURL = "http://localhost:5173"
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
}
