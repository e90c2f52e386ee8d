package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Application settings (base URL, auth, fallback destinations)
	App AppConfig `mapstructure:"app"`

	// PostgreSQL
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Redis
	Redis RedisConfig `mapstructure:"redis"`

	// NATS
	NATS NATSConfig `mapstructure:"nats"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

type AppConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`

	WebFallbackURL     string `mapstructure:"web_fallback_url"`
	IOSFallbackURL     string `mapstructure:"ios_fallback_url"`
	AndroidFallbackURL string `mapstructure:"android_fallback_url"`

	CacheTTL string `mapstructure:"cache_ttl"`
}

type PostgresConfig struct {
	// URL takes precedence over the individual fields when set.
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Port     int    `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type PrometheusConfig struct {
	Port int `mapstructure:"port"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on settings the resolver cannot run without.
func (c *Config) Validate() error {
	if c.App.APIKey == "" {
		return errors.New("config: API_KEY must be set")
	}
	if err := requireAbsoluteURL("BASE_URL", c.App.BaseURL); err != nil {
		return err
	}
	if err := requireAbsoluteURL("WEB_FALLBACK_URL", c.App.WebFallbackURL); err != nil {
		return err
	}
	if err := requireAbsoluteURL("IOS_FALLBACK_URL", c.App.IOSFallbackURL); err != nil {
		return err
	}
	if err := requireAbsoluteURL("ANDROID_FALLBACK_URL", c.App.AndroidFallbackURL); err != nil {
		return err
	}
	return nil
}

// ParsedBaseURL returns the deployment base URL. Validate must have passed.
func (c *Config) ParsedBaseURL() *url.URL {
	u, err := url.Parse(c.App.BaseURL)
	if err != nil {
		panic(fmt.Sprintf("config: base URL no longer parses: %v", err))
	}
	return u
}

func requireAbsoluteURL(name, value string) error {
	if value == "" {
		return fmt.Errorf("config: %s must be set", name)
	}
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("config: %s must be an absolute URL, got %q", name, value)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.listen_addr", ":8080")
	v.SetDefault("app.cache_ttl", "5m")
}

func bindEnvVars(v *viper.Viper) {
	// Application
	v.BindEnv("app.listen_addr", "LISTEN_ADDR")
	v.BindEnv("app.base_url", "BASE_URL")
	v.BindEnv("app.api_key", "API_KEY")
	v.BindEnv("app.web_fallback_url", "WEB_FALLBACK_URL")
	v.BindEnv("app.ios_fallback_url", "IOS_FALLBACK_URL")
	v.BindEnv("app.android_fallback_url", "ANDROID_FALLBACK_URL")
	v.BindEnv("app.cache_ttl", "CACHE_TTL")

	// PostgreSQL
	v.BindEnv("postgres.url", "DATABASE_URL")
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// NATS
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")
}
