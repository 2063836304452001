package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Gateways GatewayConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment        string
	LogLevel           string
	JWTSecret          string
	RedisURL           string
	NATSURL            string
	Currency           string
	AllowGuestCheckout bool
	StorefrontBaseURL  string

	// SeedDefaultShippingZone controls whether a catch-all zone with a
	// zero-charge rate is created on boot. Left off, an empty shipping
	// catalog means free shipping everywhere.
	SeedDefaultShippingZone bool
}

// GatewayConfig holds payment gateway credentials and endpoints
type GatewayConfig struct {
	PhonePeBaseURL     string
	PhonePeMerchantID  string
	PhonePeAPIKey      string
	RazorpayKeyID      string
	RazorpayKeySecret  string
	PayPalBaseURL      string
	PayPalClientID     string
	PayPalClientSecret string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefront_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Environment:             getEnv("APP_ENV", "development"),
			LogLevel:                getEnv("LOG_LEVEL", "info"),
			JWTSecret:               getEnv("JWT_SECRET", ""),
			RedisURL:                getEnv("REDIS_URL", ""),
			NATSURL:                 getEnv("NATS_URL", ""),
			Currency:                getEnv("STORE_CURRENCY", "USD"),
			AllowGuestCheckout:      getEnvAsBool("ALLOW_GUEST_CHECKOUT", true),
			StorefrontBaseURL:       getEnv("STOREFRONT_BASE_URL", "http://localhost:3000"),
			SeedDefaultShippingZone: getEnvAsBool("SEED_DEFAULT_SHIPPING_ZONE", false),
		},
		Gateways: GatewayConfig{
			PhonePeBaseURL:     getEnv("PHONEPE_BASE_URL", "https://api-preprod.phonepe.com/apis/pg-sandbox"),
			PhonePeMerchantID:  getEnv("PHONEPE_MERCHANT_ID", ""),
			PhonePeAPIKey:      getEnv("PHONEPE_API_KEY", ""),
			RazorpayKeyID:      getEnv("RAZORPAY_KEY_ID", ""),
			RazorpayKeySecret:  getEnv("RAZORPAY_KEY_SECRET", ""),
			PayPalBaseURL:      getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
			PayPalClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			PayPalClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
		},
	}

	return config, nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
