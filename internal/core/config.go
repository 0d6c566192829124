package core

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config represents the main configuration for the site backend
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Content  ContentConfig  `json:"content"`
	Features FeatureConfig  `json:"features"`
	LogLevel slog.Level     `json:"log_level"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DatabaseConfig contains database-related configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// AuthConfig contains authentication-related configuration
type AuthConfig struct {
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"-"`
	CookieSecure  bool   `json:"cookie_secure"`
}

// ContentConfig points at the static content files. Empty paths fall back
// to the data embedded in the binary.
type ContentConfig struct {
	PostsFile string `json:"posts_file"`
}

// FeatureConfig contains feature-specific configuration
type FeatureConfig struct {
	Blog    BlogConfig    `json:"blog"`
	SEO     SEOConfig     `json:"seo"`
	Contact ContactConfig `json:"contact"`
	Catalog CatalogConfig `json:"catalog"`
}

// BlogConfig contains the public posts API configuration
type BlogConfig struct {
	Enabled bool `json:"enabled"`
}

// SEOConfig contains sitemap, robots and feed configuration
type SEOConfig struct {
	Enabled bool `json:"enabled"`
}

// ContactConfig contains contact form configuration
type ContactConfig struct {
	Enabled       bool   `json:"enabled"`
	SMTP2GOAPIKey string `json:"-"`
	SMTP2GOSender string `json:"smtp2go_sender"`
	Recipient     string `json:"recipient"`
}

// CatalogConfig contains services catalog configuration
type CatalogConfig struct {
	Enabled bool `json:"enabled"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SITE_PORT", 4000),
			Host: getEnvOrDefault("SITE_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Path: getEnvOrDefault("SITE_DB_PATH", "./site.db"),
		},
		Auth: AuthConfig{
			AdminName:     getEnvOrDefault("SITE_ADMIN_NAME", "Administrador"),
			AdminEmail:    getEnvOrDefault("SITE_ADMIN_EMAIL", "contato@contabiligrejinha.com.br"),
			AdminPassword: getEnvOrDefault("SITE_ADMIN_PASSWORD", ""),
			CookieSecure:  getEnvAsBool("SITE_COOKIE_SECURE", true),
		},
		Content: ContentConfig{
			PostsFile: getEnvOrDefault("SITE_POSTS_FILE", ""),
		},
		Features: FeatureConfig{
			Blog: BlogConfig{
				Enabled: getEnvAsBool("SITE_ENABLE_BLOG", true),
			},
			SEO: SEOConfig{
				Enabled: getEnvAsBool("SITE_ENABLE_SEO", true),
			},
			Contact: ContactConfig{
				Enabled:       getEnvAsBool("SITE_ENABLE_CONTACT", true),
				SMTP2GOAPIKey: getEnvOrDefault("SITE_SMTP2GO_API_KEY", ""),
				SMTP2GOSender: getEnvOrDefault("SITE_SMTP2GO_SENDER", "Contabil Igrejinha <site@contabiligrejinha.com.br>"),
				Recipient:     getEnvOrDefault("SITE_CONTACT_RECIPIENT", "contato@contabiligrejinha.com.br"),
			},
			Catalog: CatalogConfig{
				Enabled: getEnvAsBool("SITE_ENABLE_CATALOG", true),
			},
		},
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return NewConfigurationError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	if c.Database.Path == "" {
		return NewConfigurationError("database path is required", nil)
	}

	if c.Auth.AdminEmail == "" {
		return NewConfigurationError("admin email is required", nil)
	}

	if c.Auth.AdminPassword == "" {
		return NewConfigurationError("admin password is required (SITE_ADMIN_PASSWORD)", nil)
	}

	if c.Features.Contact.Enabled && c.Features.Contact.Recipient == "" {
		return NewConfigurationError("contact recipient is required when the contact form is enabled", nil)
	}

	return nil
}

// IsFeatureEnabled checks if a feature is enabled
func (c *Config) IsFeatureEnabled(featureName string) bool {
	switch strings.ToLower(featureName) {
	case "blog":
		return c.Features.Blog.Enabled
	case "seo":
		return c.Features.SEO.Enabled
	case "contact":
		return c.Features.Contact.Enabled
	case "catalog":
		return c.Features.Catalog.Enabled
	default:
		return false
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
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
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}
