package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr      string
	PublicBaseURL string // used to build gateway success/cancel redirect URLs

	// Database configuration
	DatabaseURL string

	// Auth configuration
	JWTSecret string

	// Payment gateway configuration
	GatewayBaseURL string
	GatewayAPIKey  string

	// Game price API configuration
	PriceAPIBaseURL string

	// Storefront settings
	Currency      string // ISO currency code sent to the gateway
	CurrencyLabel string // display prefix, e.g. "RM"
	WelcomeOrbs   int64  // Orbs granted on registration

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine; real environments set variables directly
	_ = godotenv.Load()

	config := &Config{
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GatewayBaseURL: os.Getenv("GATEWAY_BASE_URL"),
		GatewayAPIKey:  os.Getenv("GATEWAY_API_KEY"),

		PriceAPIBaseURL: os.Getenv("PRICE_API_BASE_URL"),

		// Storefront defaults
		Currency:      "myr",
		CurrencyLabel: "RM",
		WelcomeOrbs:   0,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}
	if config.PublicBaseURL == "" {
		config.PublicBaseURL = "http://localhost:8080"
	}
	if currency := os.Getenv("CURRENCY"); currency != "" {
		config.Currency = currency
	}
	if label := os.Getenv("CURRENCY_LABEL"); label != "" {
		config.CurrencyLabel = label
	}
	if orbs := os.Getenv("WELCOME_ORBS"); orbs != "" {
		if parsed, err := strconv.ParseInt(orbs, 10, 64); err == nil {
			config.WelcomeOrbs = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		if config.GatewayBaseURL == "" {
			return nil, fmt.Errorf("GATEWAY_BASE_URL is required")
		}
		if config.GatewayAPIKey == "" {
			return nil, fmt.Errorf("GATEWAY_API_KEY is required")
		}
	}

	return config, nil
}
