package billing

import (
	"fmt"
)

// StripeConfig contains configuration for the Stripe processor.
type StripeConfig struct {
	// APIKey is the Stripe secret key (sk_test_... or sk_live_...).
	// When empty, the platform runs with billing disabled.
	APIKey string

	// MaxRetries is the maximum number of network retries for transient
	// failures. Default: 3. This is SDK-level; business-logic retries are
	// handled by callers.
	MaxRetries int

	// TimeoutSeconds is the HTTP timeout for Stripe API calls in seconds.
	// Default: 30.
	TimeoutSeconds int
}

// Validate checks that required configuration is present.
func (c StripeConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API key is required", ErrNotConfigured)
	}
	return nil
}

// IsTestMode returns true if using test mode API keys.
func (c StripeConfig) IsTestMode() bool {
	return len(c.APIKey) > 7 && c.APIKey[:8] == "sk_test_"
}
