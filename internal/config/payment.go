package config

type PaymentConfig struct {
	StripeSecretKey string  `yaml:"stripe_secret_key"`
	CommissionRate  float64 `yaml:"commission_rate"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		CommissionRate:  getEnvAsFloat64("COMMISSION_RATE", 0.05),
	}
}
