package seo

import "contabil-site/internal/core"

// Config represents SEO feature configuration
type Config struct {
	Enabled bool
}

// NewConfig creates SEO config from core config
func NewConfig(coreConfig *core.Config) *Config {
	return &Config{
		Enabled: coreConfig.Features.SEO.Enabled,
	}
}
