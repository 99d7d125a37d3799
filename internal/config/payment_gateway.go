package config

import "time"

const (
	ProviderSimulated = "simulated"
	ProviderStripe    = "stripe"
)

type PaymentConfig struct {
	Provider       string                  `yaml:"provider"`
	Currency       string                  `yaml:"currency"`
	Stripe         *StripeConfig           `yaml:"stripe"`
	Simulated      *SimulatedPaymentConfig `yaml:"simulated"`
	AttemptTimeout time.Duration           `yaml:"attempt_timeout"`
	MaxAttempts    int                     `yaml:"max_attempts"`
	InitialBackoff time.Duration           `yaml:"initial_backoff"`
	MaxBackoff     time.Duration           `yaml:"max_backoff"`
}

type StripeConfig struct {
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
}

// SimulatedPaymentConfig drives the in-process processor. The storefront
// waited two seconds and always succeeded; the rates default to zero.
type SimulatedPaymentConfig struct {
	Latency     time.Duration `yaml:"latency"`
	DeclineRate float64       `yaml:"decline_rate"`
	TimeoutRate float64       `yaml:"timeout_rate"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		Provider: getEnv("PAYMENT_PROVIDER", ProviderSimulated),
		Currency: getEnv("PAYMENT_CURRENCY", "USD"),
		Stripe: &StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		},
		Simulated: &SimulatedPaymentConfig{
			Latency:     getEnvAsDuration("PAYMENT_SIMULATED_LATENCY", 2*time.Second),
			DeclineRate: getEnvAsFloat64("PAYMENT_SIMULATED_DECLINE_RATE", 0),
			TimeoutRate: getEnvAsFloat64("PAYMENT_SIMULATED_TIMEOUT_RATE", 0),
		},
		AttemptTimeout: getEnvAsDuration("PAYMENT_ATTEMPT_TIMEOUT", 10*time.Second),
		MaxAttempts:    getEnvAsInt("PAYMENT_MAX_ATTEMPTS", 3),
		InitialBackoff: getEnvAsDuration("PAYMENT_INITIAL_BACKOFF", 200*time.Millisecond),
		MaxBackoff:     getEnvAsDuration("PAYMENT_MAX_BACKOFF", 2*time.Second),
	}
}
