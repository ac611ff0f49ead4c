// Package config handles configuration loading for soywatch.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	NewsAPI NewsAPIConfig `mapstructure:"newsapi" yaml:"newsapi"`
	Feeds   FeedsConfig   `mapstructure:"feeds"   yaml:"feeds"`
	Monitor MonitorConfig `mapstructure:"monitor" yaml:"monitor"`
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
}

// NewsAPIConfig holds NewsAPI access settings.
type NewsAPIConfig struct {
	Key          string `mapstructure:"key"           yaml:"key"`
	BaseURL      string `mapstructure:"base_url"      yaml:"base_url"`
	Language     string `mapstructure:"language"      yaml:"language"` // ISO-639-1, e.g. "pt"
	PageSize     int    `mapstructure:"page_size"     yaml:"page_size"`
	LookbackDays int    `mapstructure:"lookback_days" yaml:"lookback_days"`
}

// Lookback returns the search window as a duration.
func (c NewsAPIConfig) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// FeedsConfig holds RSS feed settings. An empty URL list selects the
// built-in Brazilian agribusiness feed set.
type FeedsConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	URLs    []string `mapstructure:"urls"    yaml:"urls"`
}

// MonitorConfig holds the polling loop settings.
type MonitorConfig struct {
	Tickers         []string `mapstructure:"tickers"          yaml:"tickers"` // empty selects every mapped ticker
	IntervalSeconds int      `mapstructure:"interval_seconds" yaml:"interval_seconds"`
	Keywords        []string `mapstructure:"keywords"         yaml:"keywords"`
	Analyzer        string   `mapstructure:"analyzer"         yaml:"analyzer"` // "stub" or "lexicon"
	LogFile         string   `mapstructure:"log_file"         yaml:"log_file"`
}

// Interval returns the polling interval as a duration.
func (c MonitorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// ServerConfig holds the HTTP API server settings.
type ServerConfig struct {
	Enabled     bool     `mapstructure:"enabled"      yaml:"enabled"`
	Addr        string   `mapstructure:"addr"         yaml:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// defaultKeywords is the stock list of price-moving terms used when the
// config does not provide its own. Grouped by the kind of price driver.
var defaultKeywords = []string{
	// broad
	"commodities",

	// crop cycle
	"plantio", "colheita",

	// weather and natural factors
	"clima", "chuva", "seca", "pragas", "doenças", "elninho",
	"geada", "temperatura", "granizo", "inundações",

	// supply and demand
	"oferta", "demanda", "safra", "exportação", "importação",
	"especulação", "tick de soja", "cotação da soja", "contrato futuro soja",

	// geopolitics
	"Guerra", "sanções", "China", "guerra comercial",
	"política agrícola", "subsídios", "tarifas", "acordo comercial",
}

// LoadDotenv loads a .env file from the working directory when present.
// A missing file is not an error.
func LoadDotenv() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.soywatch/config.yaml (home directory)
//  3. /etc/soywatch/config.yaml (system)
//
// Environment variables override config file values.
// Format: SOYWATCH_<SECTION>_<KEY>, e.g., SOYWATCH_NEWSAPI_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".soywatch"))
	v.AddConfigPath("/etc/soywatch")

	v.SetEnvPrefix("SOYWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is not required to exist.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("SOYWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// NewsAPI defaults
	v.SetDefault("newsapi.base_url", "https://newsapi.org")
	v.SetDefault("newsapi.language", "pt")
	v.SetDefault("newsapi.page_size", 20)
	v.SetDefault("newsapi.lookback_days", 14)

	// Feeds defaults
	v.SetDefault("feeds.enabled", true)
	v.SetDefault("feeds.urls", []string{})

	// Monitor defaults
	v.SetDefault("monitor.tickers", []string{})
	v.SetDefault("monitor.interval_seconds", 30)
	v.SetDefault("monitor.keywords", defaultKeywords)
	v.SetDefault("monitor.analyzer", "stub")
	v.SetDefault("monitor.log_file", "soy_news.log")

	// Server defaults
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
// NEWS_API_KEY is accepted as a conventional fallback for .env files shared
// with other NewsAPI tooling.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("SOYWATCH_NEWSAPI_KEY"); key != "" {
		cfg.NewsAPI.Key = key
	} else if key := os.Getenv("NEWS_API_KEY"); key != "" && cfg.NewsAPI.Key == "" {
		cfg.NewsAPI.Key = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
