package catalog

import "contabil-site/internal/core"

// Config represents catalog feature configuration
type Config struct {
	Enabled bool
	Seed    bool
}

// NewConfig creates catalog config from core config
func NewConfig(coreConfig *core.Config) *Config {
	return &Config{
		Enabled: coreConfig.Features.Catalog.Enabled,
		Seed:    true,
	}
}
