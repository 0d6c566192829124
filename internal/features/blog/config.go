package blog

import "contabil-site/internal/core"

// Config represents blog feature configuration
type Config struct {
	Enabled bool
}

// NewConfig creates blog config from core config
func NewConfig(coreConfig *core.Config) *Config {
	return &Config{
		Enabled: coreConfig.Features.Blog.Enabled,
	}
}
