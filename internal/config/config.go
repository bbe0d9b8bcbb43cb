package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Geocoder    GeocoderConfig    `yaml:"geocoder"`
	Notifier    NotifierConfig    `yaml:"notifier"`
	API         APIConfig         `yaml:"api"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	Logging     LoggingConfig     `yaml:"logging"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Exports     ExportConfig      `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type GeocoderConfig struct {
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours"`
}

type NotifierConfig struct {
	Enabled        bool   `yaml:"enabled"`
	GatewayURL     string `yaml:"gateway_url"`
	APIKey         string `yaml:"api_key"`
	Sender         string `yaml:"sender"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type APIConfig struct {
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MarketplaceConfig struct {
	RescheduleBufferHours int     `yaml:"reschedule_buffer_hours"`
	DefaultSearchRadiusKm float64 `yaml:"default_search_radius_km"`
	DefaultSearchLimit    int     `yaml:"default_search_limit"`
	MaxSearchLimit        int     `yaml:"max_search_limit"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the YAML config at configPath, expanding ${ENV} references
// after merging an optional .env file.
func Load(configPath string) (*Config, error) {
	// .env is optional; env vars may come from the environment itself.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Notifier.Enabled && c.Notifier.GatewayURL == "" {
		return errors.New("notifier.gateway_url is required when notifier is enabled")
	}

	if c.API.Auth.Enabled && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api.auth.api_keys must not be empty when auth is enabled")
	}

	if c.Marketplace.DefaultSearchLimit > c.Marketplace.MaxSearchLimit {
		return fmt.Errorf("marketplace.default_search_limit %d exceeds max_search_limit %d",
			c.Marketplace.DefaultSearchLimit, c.Marketplace.MaxSearchLimit)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "homehero"
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = "homehero"
	}
	if c.Geocoder.TimeoutSeconds == 0 {
		c.Geocoder.TimeoutSeconds = 8
	}
	if c.Geocoder.CacheTTLHours == 0 {
		c.Geocoder.CacheTTLHours = 24
	}

	if c.Notifier.TimeoutSeconds == 0 {
		c.Notifier.TimeoutSeconds = 10
	}

	if c.Marketplace.RescheduleBufferHours == 0 {
		c.Marketplace.RescheduleBufferHours = models.RescheduleBufferHours
	}
	if c.Marketplace.DefaultSearchRadiusKm == 0 {
		c.Marketplace.DefaultSearchRadiusKm = models.DefaultSearchRadiusKm
	}
	if c.Marketplace.DefaultSearchLimit == 0 {
		c.Marketplace.DefaultSearchLimit = models.DefaultSearchLimit
	}
	if c.Marketplace.MaxSearchLimit == 0 {
		c.Marketplace.MaxSearchLimit = models.MaxSearchLimit
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
