package contact

import (
	"fmt"
	"net/mail"

	"contabil-site/internal/core"
)

// Config represents contact feature configuration
type Config struct {
	Enabled   bool
	Recipient string
}

// NewConfig creates contact config from core config
func NewConfig(coreConfig *core.Config) *Config {
	return &Config{
		Enabled:   coreConfig.Features.Contact.Enabled,
		Recipient: coreConfig.Features.Contact.Recipient,
	}
}

// Validate validates the contact configuration
func (c *Config) Validate() error {
	if _, err := mail.ParseAddress(c.Recipient); err != nil {
		return fmt.Errorf("invalid contact recipient %q: %w", c.Recipient, err)
	}
	return nil
}
