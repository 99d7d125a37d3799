package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      *AppConfig      `yaml:"app"`
	Storage  *StorageConfig  `yaml:"storage"`
	Catalog  *CatalogConfig  `yaml:"catalog"`
	Database *DatabaseConfig `yaml:"database"`
	Redis    *RedisConfig    `yaml:"redis"`
	Payment  *PaymentConfig  `yaml:"payment"`
	Security *SecurityConfig `yaml:"security"`
}

type AppConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Environment     string        `yaml:"environment"`
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	Debug           bool          `yaml:"debug"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	Currency        string        `yaml:"currency"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects the key-value backend for sessions, carts and
// bookings.
type StorageConfig struct {
	Driver     string        `yaml:"driver"` // memory, redis
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type CatalogConfig struct {
	Driver string `yaml:"driver"` // memory, mongodb
	Seed   bool   `yaml:"seed"`
}

type SecurityConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	JWTAccessTokenTTL  time.Duration `yaml:"jwt_access_token_ttl"`
	AuthMode           string        `yaml:"auth_mode"` // simulated, credentials
	PasswordMinLength  int           `yaml:"password_min_length"`
	AdminEmails        []string      `yaml:"admin_emails"` // credential mode only
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	TrustedProxies     []string      `yaml:"trusted_proxies"`
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverMongoDB  = "mongodb"
	AuthSimulated  = "simulated"
	AuthCredential = "credentials"
)

func Load() (*Config, error) {
	config := &Config{
		App:      loadAppConfig(),
		Storage:  loadStorageConfig(),
		Catalog:  loadCatalogConfig(),
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
		Payment:  loadPaymentConfig(),
		Security: loadSecurityConfig(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects driver names the server cannot wire.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	switch c.Catalog.Driver {
	case DriverMemory, DriverMongoDB:
	default:
		return fmt.Errorf("unsupported catalog driver %q", c.Catalog.Driver)
	}
	switch c.Payment.Provider {
	case ProviderSimulated, ProviderStripe:
	default:
		return fmt.Errorf("unsupported payment provider %q", c.Payment.Provider)
	}
	switch c.Security.AuthMode {
	case AuthSimulated, AuthCredential:
	default:
		return fmt.Errorf("unsupported auth mode %q", c.Security.AuthMode)
	}
	if c.Payment.Provider == ProviderStripe && c.Payment.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required for the stripe provider")
	}
	if c.IsProduction() && c.Security.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

const defaultJWTSecret = "luxedrive-dev-secret"

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:            getEnv("APP_NAME", "LuxeDrive"),
		Version:         getEnv("APP_VERSION", "1.0.0"),
		Environment:     getEnv("APP_ENV", "development"),
		Port:            getEnvAsInt("APP_PORT", 8080),
		Host:            getEnv("APP_HOST", "0.0.0.0"),
		Debug:           getEnvAsBool("APP_DEBUG", true),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		Currency:        getEnv("APP_CURRENCY", "USD"),
		ShutdownTimeout: getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", DriverMemory)),
		SessionTTL: getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
	}
}

func loadCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		Driver: strings.ToLower(getEnv("CATALOG_DRIVER", DriverMemory)),
		Seed:   getEnvAsBool("CATALOG_SEED", true),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		JWTAccessTokenTTL:  getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 24*time.Hour),
		AuthMode:           strings.ToLower(getEnv("AUTH_MODE", AuthSimulated)),
		PasswordMinLength:  getEnvAsInt("PASSWORD_MIN_LENGTH", 8),
		AdminEmails:        getEnvAsSlice("ADMIN_EMAILS", []string{}),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
	}
}

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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
