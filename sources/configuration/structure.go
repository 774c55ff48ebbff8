package configuration

import (
	"time"
)

type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	Generation GenerationConfig `yaml:"generation"`
	Models     []ModelConfig    `yaml:"models"`
	Progress   ProgressConfig   `yaml:"progress"`
	Audit      AuditConfig      `yaml:"audit"`
	Network    NetworkConfig    `yaml:"network"`
	Service    ServiceConfig    `yaml:"service"`
}

type BackendConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type GenerationConfig struct {
	GroupWidth   int           `yaml:"group_width"`
	MaxAttempts  int           `yaml:"max_attempts"`
	BackoffBase  time.Duration `yaml:"backoff_base"`
	SlotAttempts int           `yaml:"slot_attempts"`
	DefaultTheme string        `yaml:"default_theme"`
}

// ModelConfig prices are decimal strings in USD per million tokens.
type ModelConfig struct {
	Name            string `yaml:"name"`
	InputPricePerM  string `yaml:"input_price_per_m"`
	OutputPricePerM string `yaml:"output_price_per_m"`
}

type ProgressConfig struct {
	Enabled bool          `yaml:"enabled"`
	Period  time.Duration `yaml:"period"`
}

type AuditConfig struct {
	Path string `yaml:"path"`
}

type NetworkConfig struct {
	ProxyAddress  string `yaml:"proxy_address"`
	ProxyUser     string `yaml:"proxy_user"`
	ProxyPassword string `yaml:"proxy_password"`
}

type ServiceConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

func (c *BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
