package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, DriverMemory, cfg.Catalog.Driver)
	assert.Equal(t, ProviderSimulated, cfg.Payment.Provider)
	assert.Equal(t, 2*time.Second, cfg.Payment.Simulated.Latency)
	assert.Equal(t, AuthSimulated, cfg.Security.AuthMode)
	assert.Empty(t, cfg.Security.AdminEmails)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("PAYMENT_MAX_ATTEMPTS", "5")
	t.Setenv("PAYMENT_SIMULATED_DECLINE_RATE", "0.25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ADMIN_EMAILS", "root@luxedrive.test, ops@luxedrive.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Payment.MaxAttempts)
	assert.InDelta(t, 0.25, cfg.Payment.Simulated.DeclineRate, 1e-9)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, []string{"root@luxedrive.test", "ops@luxedrive.test"}, cfg.Security.AdminEmails)
}

func TestLoadRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "postgres")
	_, err := Load()
	assert.Error(t, err)
}

func TestStripeNeedsSecretKey(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "stripe")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	_, err = Load()
	assert.NoError(t, err)
}

func TestProductionNeedsJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := Load()
	assert.Error(t, err)
}
