package payment

import (
	"fmt"
	"time"
)

// IntouchConfig holds the merchant-side settings of the InTouch gateway
type IntouchConfig struct {
	// SiteID is the merchant site identifier assigned by the provider
	SiteID string
	// Secret is the HMAC key shared with the provider; empty disables
	// signature verification (sandbox deliveries are unsigned)
	Secret string
	// StatusURL is the provider's status endpoint; empty disables the
	// authoritative re-query and the processor trusts notifications
	StatusURL string
	// StatusTimeout bounds the status re-query
	StatusTimeout time.Duration
}

// Validate checks the configuration
func (c *IntouchConfig) Validate() error {
	if c.SiteID == "" {
		return fmt.Errorf("intouch: site id is required")
	}
	if c.StatusTimeout <= 0 {
		c.StatusTimeout = 5 * time.Second
	}
	return nil
}
