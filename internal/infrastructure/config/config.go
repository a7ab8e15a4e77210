package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Company CompanyConfig
	Assets  AssetsConfig
	Store   StoreConfig
	Redis   RedisConfig
	Chrome  ChromeConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CompanyConfig holds the issuing company's letterhead details.
// Empty fields fall back to the built-in company profile.
type CompanyConfig struct {
	Name        string
	GSTIN       string
	Address     string
	Phone       string
	BankDetails string
}

// AssetsConfig holds static asset locations
type AssetsConfig struct {
	LogoPath string
}

// StoreConfig selects the invoice store backend
type StoreConfig struct {
	// Backend is "memory" or "redis"
	Backend string
	// TTL bounds Redis entries; zero means no expiry (memory entries
	// never expire)
	TTL time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ChromeConfig holds headless-Chrome PDF rendering settings
type ChromeConfig struct {
	// RemoteURL points at an existing Chrome instance; empty launches one
	RemoteURL     string
	NoSandbox     bool
	RenderTimeout time.Duration
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with INV_ prefix (e.g., INV_APP_PORT)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("INV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Company: CompanyConfig{
			Name:        v.GetString("company.name"),
			GSTIN:       v.GetString("company.gstin"),
			Address:     v.GetString("company.address"),
			Phone:       v.GetString("company.phone"),
			BankDetails: v.GetString("company.bank_details"),
		},
		Assets: AssetsConfig{
			LogoPath: v.GetString("assets.logo_path"),
		},
		Store: StoreConfig{
			Backend: v.GetString("store.backend"),
			TTL:     v.GetDuration("store.ttl"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Chrome: ChromeConfig{
			RemoteURL:     v.GetString("chrome.remote_url"),
			NoSandbox:     v.GetBool("chrome.no_sandbox"),
			RenderTimeout: v.GetDuration("chrome.render_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "invoicing")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "60s")
	v.SetDefault("http.idle_timeout", "120s")

	v.SetDefault("assets.logo_path", "static/img/logo.png")

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.ttl", "0")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("chrome.no_sandbox", false)
	v.SetDefault("chrome.render_timeout", "30s")
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("app.port must not be empty")
	}
	switch c.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("store.backend must be \"memory\" or \"redis\", got %q", c.Store.Backend)
	}
	if c.Chrome.RenderTimeout <= 0 {
		return fmt.Errorf("chrome.render_timeout must be positive")
	}
	return nil
}
