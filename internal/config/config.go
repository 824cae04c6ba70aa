package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Wallet   WalletConfig
	Refresh  RefreshConfig
	Security SecurityConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// WalletConfig locates the analytics inputs and outputs on disk.
type WalletConfig struct {
	HoldingsPath string // Holdings JSON file
	OutputDir    string // Aggregate CSV export directory, empty disables export
}

// RefreshConfig controls the scheduled market-data refresh.
type RefreshConfig struct {
	CronSpec string
	Enabled  bool
}

// SecurityConfig holds secrets-at-rest configuration.
type SecurityConfig struct {
	FernetKey string // Base64 fernet key for encrypting the provider token; empty disables it
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/wallet_analytics.db"),
		},
		Wallet: WalletConfig{
			HoldingsPath: getEnv("HOLDINGS_PATH", "./portfolio.json"),
			OutputDir:    getEnv("OUTPUT_DIR", "./output"),
		},
		Refresh: RefreshConfig{
			CronSpec: getEnv("REFRESH_CRON", "0 18 * * *"),
			Enabled:  getEnv("REFRESH_ENABLED", "true") == "true",
		},
		Security: SecurityConfig{
			FernetKey: getEnv("FERNET_KEY", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
