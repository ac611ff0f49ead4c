package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	envVars := []string{"SOYWATCH_NEWSAPI_KEY", "NEWS_API_KEY"}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// NewsAPI defaults
	if cfg.NewsAPI.Key != "" {
		t.Errorf("NewsAPI.Key: got %q, want empty", cfg.NewsAPI.Key)
	}
	if cfg.NewsAPI.BaseURL != "https://newsapi.org" {
		t.Errorf("NewsAPI.BaseURL: got %q", cfg.NewsAPI.BaseURL)
	}
	if cfg.NewsAPI.Language != "pt" {
		t.Errorf("NewsAPI.Language: got %q, want %q", cfg.NewsAPI.Language, "pt")
	}
	if cfg.NewsAPI.PageSize != 20 {
		t.Errorf("NewsAPI.PageSize: got %d, want 20", cfg.NewsAPI.PageSize)
	}
	if cfg.NewsAPI.LookbackDays != 14 {
		t.Errorf("NewsAPI.LookbackDays: got %d, want 14", cfg.NewsAPI.LookbackDays)
	}
	if cfg.NewsAPI.Lookback() != 14*24*time.Hour {
		t.Errorf("NewsAPI.Lookback(): got %v", cfg.NewsAPI.Lookback())
	}

	// Feeds defaults
	if !cfg.Feeds.Enabled {
		t.Error("Feeds.Enabled should be true by default")
	}
	if len(cfg.Feeds.URLs) != 0 {
		t.Errorf("Feeds.URLs: got %v, want empty (built-in set)", cfg.Feeds.URLs)
	}

	// Monitor defaults
	if len(cfg.Monitor.Tickers) != 0 {
		t.Errorf("Monitor.Tickers: got %v, want empty (all mapped)", cfg.Monitor.Tickers)
	}
	if cfg.Monitor.IntervalSeconds != 30 {
		t.Errorf("Monitor.IntervalSeconds: got %d, want 30", cfg.Monitor.IntervalSeconds)
	}
	if cfg.Monitor.Interval() != 30*time.Second {
		t.Errorf("Monitor.Interval(): got %v", cfg.Monitor.Interval())
	}
	if len(cfg.Monitor.Keywords) != 30 {
		t.Errorf("Monitor.Keywords: got %d entries, want 30", len(cfg.Monitor.Keywords))
	}
	if cfg.Monitor.Keywords[0] != "commodities" {
		t.Errorf("Monitor.Keywords[0]: got %q, want %q", cfg.Monitor.Keywords[0], "commodities")
	}
	found := false
	for _, k := range cfg.Monitor.Keywords {
		if k == "cotação da soja" {
			found = true
		}
	}
	if !found {
		t.Error("Monitor.Keywords missing \"cotação da soja\"")
	}
	if cfg.Monitor.Analyzer != "stub" {
		t.Errorf("Monitor.Analyzer: got %q, want %q", cfg.Monitor.Analyzer, "stub")
	}
	if cfg.Monitor.LogFile != "soy_news.log" {
		t.Errorf("Monitor.LogFile: got %q, want %q", cfg.Monitor.LogFile, "soy_news.log")
	}

	// Server defaults
	if cfg.Server.Enabled {
		t.Error("Server.Enabled should be false by default")
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("Server.Addr: got %q, want %q", cfg.Server.Addr, "0.0.0.0:8080")
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("Server.CORSOrigins: got %v", cfg.Server.CORSOrigins)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
newsapi:
  key: "file_key_1234567890"
  language: "en"
  page_size: 50
  lookback_days: 7
feeds:
  enabled: false
  urls:
    - "https://example.com/feed.rss"
monitor:
  tickers: ["ADM", "BUNGE"]
  interval_seconds: 60
  keywords: ["soja", "safra"]
  log_file: "alerts.log"
server:
  enabled: true
  addr: "127.0.0.1:9090"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	os.Unsetenv("SOYWATCH_NEWSAPI_KEY")
	os.Unsetenv("NEWS_API_KEY")

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.NewsAPI.Key != "file_key_1234567890" {
		t.Errorf("NewsAPI.Key: got %q", cfg.NewsAPI.Key)
	}
	if cfg.NewsAPI.Language != "en" {
		t.Errorf("NewsAPI.Language: got %q, want %q", cfg.NewsAPI.Language, "en")
	}
	if cfg.NewsAPI.PageSize != 50 {
		t.Errorf("NewsAPI.PageSize: got %d, want 50", cfg.NewsAPI.PageSize)
	}
	if cfg.NewsAPI.LookbackDays != 7 {
		t.Errorf("NewsAPI.LookbackDays: got %d, want 7", cfg.NewsAPI.LookbackDays)
	}
	if cfg.NewsAPI.BaseURL != "https://newsapi.org" {
		t.Errorf("NewsAPI.BaseURL should keep its default, got %q", cfg.NewsAPI.BaseURL)
	}
	if cfg.Feeds.Enabled {
		t.Error("Feeds.Enabled: got true, want false")
	}
	if len(cfg.Feeds.URLs) != 1 || cfg.Feeds.URLs[0] != "https://example.com/feed.rss" {
		t.Errorf("Feeds.URLs: got %v", cfg.Feeds.URLs)
	}
	if len(cfg.Monitor.Tickers) != 2 || cfg.Monitor.Tickers[0] != "ADM" || cfg.Monitor.Tickers[1] != "BUNGE" {
		t.Errorf("Monitor.Tickers: got %v", cfg.Monitor.Tickers)
	}
	if cfg.Monitor.IntervalSeconds != 60 {
		t.Errorf("Monitor.IntervalSeconds: got %d, want 60", cfg.Monitor.IntervalSeconds)
	}
	if len(cfg.Monitor.Keywords) != 2 {
		t.Errorf("Monitor.Keywords: got %v, want the 2 from the file", cfg.Monitor.Keywords)
	}
	if cfg.Monitor.LogFile != "alerts.log" {
		t.Errorf("Monitor.LogFile: got %q, want %q", cfg.Monitor.LogFile, "alerts.log")
	}
	if !cfg.Server.Enabled {
		t.Error("Server.Enabled: got false, want true")
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Server.Addr: got %q, want %q", cfg.Server.Addr, "127.0.0.1:9090")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	os.Setenv("SOYWATCH_NEWSAPI_KEY", "env-key-1234567890")
	defer os.Unsetenv("SOYWATCH_NEWSAPI_KEY")
	os.Unsetenv("NEWS_API_KEY")

	cfg := &Config{NewsAPI: NewsAPIConfig{Key: "from-config"}}
	overrideFromEnv(cfg)

	if cfg.NewsAPI.Key != "env-key-1234567890" {
		t.Errorf("NewsAPI.Key: got %q, want env override", cfg.NewsAPI.Key)
	}
}

func TestOverrideFromEnvFallbackName(t *testing.T) {
	os.Unsetenv("SOYWATCH_NEWSAPI_KEY")
	os.Setenv("NEWS_API_KEY", "fallback-key-123456")
	defer os.Unsetenv("NEWS_API_KEY")

	// The fallback name only fills an empty key.
	cfg := &Config{}
	overrideFromEnv(cfg)
	if cfg.NewsAPI.Key != "fallback-key-123456" {
		t.Errorf("NewsAPI.Key: got %q, want fallback env value", cfg.NewsAPI.Key)
	}

	cfg = &Config{NewsAPI: NewsAPIConfig{Key: "from-config"}}
	overrideFromEnv(cfg)
	if cfg.NewsAPI.Key != "from-config" {
		t.Errorf("NewsAPI.Key: got %q, want config value kept", cfg.NewsAPI.Key)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	os.Unsetenv("SOYWATCH_NEWSAPI_KEY")
	os.Unsetenv("NEWS_API_KEY")

	cfg := &Config{NewsAPI: NewsAPIConfig{Key: "from-config"}}
	overrideFromEnv(cfg)

	// Should retain the original value when env is not set
	if cfg.NewsAPI.Key != "from-config" {
		t.Errorf("NewsAPI.Key should stay as 'from-config' when env is unset, got %q", cfg.NewsAPI.Key)
	}
}

// ── LoadDotenv ──

func TestLoadDotenv(t *testing.T) {
	os.Unsetenv("SOYWATCH_NEWSAPI_KEY")
	defer os.Unsetenv("SOYWATCH_NEWSAPI_KEY")

	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envPath, []byte("SOYWATCH_NEWSAPI_KEY=dotenv-key-123456\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(tmpDir)

	if err := LoadDotenv(); err != nil {
		t.Fatalf("LoadDotenv() error: %v", err)
	}
	if got := os.Getenv("SOYWATCH_NEWSAPI_KEY"); got != "dotenv-key-123456" {
		t.Errorf("SOYWATCH_NEWSAPI_KEY: got %q, want value from .env", got)
	}
}

func TestLoadDotenvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := LoadDotenv(); err != nil {
		t.Errorf("LoadDotenv() with no .env should not error, got: %v", err)
	}
}

// ── maskKey ──

func TestMaskKeyShort(t *testing.T) {
	// Keys with 8 or fewer characters should be fully masked
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"a", "***"},
		{"abcd", "***"},
		{"12345678", "***"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskKeyLong(t *testing.T) {
	// Keys with more than 8 characters show first 3 + ... + last 3
	tests := []struct {
		input string
		want  string
	}{
		{"123456789", "123...789"},
		{"abcdef1234567890xyz", "abc...xyz"},
		{"ABCDEFGHIJKLMNOP", "ABC...NOP"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── CheckAPIKeys / checkKey ──

func TestCheckAPIKeysEmpty(t *testing.T) {
	os.Unsetenv("SOYWATCH_NEWSAPI_KEY")
	os.Unsetenv("NEWS_API_KEY")

	cfg := &Config{}
	statuses := CheckAPIKeys(cfg)

	if len(statuses) != 1 {
		t.Fatalf("CheckAPIKeys: got %d statuses, want 1", len(statuses))
	}
	s := statuses[0]
	if s.IsSet {
		t.Errorf("Key %q should not be set", s.Name)
	}
	if s.Source != KeySourceNone {
		t.Errorf("Key %q source: got %q, want %q", s.Name, s.Source, KeySourceNone)
	}
}

func TestCheckAPIKeysFromConfig(t *testing.T) {
	os.Unsetenv("SOYWATCH_NEWSAPI_KEY")
	os.Unsetenv("NEWS_API_KEY")

	cfg := &Config{NewsAPI: NewsAPIConfig{Key: "abc-config-key-value"}}
	statuses := CheckAPIKeys(cfg)

	if len(statuses) != 1 {
		t.Fatalf("CheckAPIKeys: got %d statuses, want 1", len(statuses))
	}
	s := statuses[0]
	if s.Name != "NewsAPI Key" {
		t.Errorf("Name: got %q, want %q", s.Name, "NewsAPI Key")
	}
	if !s.IsSet {
		t.Error("NewsAPI key should be set")
	}
	if s.Source != KeySourceConfig {
		t.Errorf("Source: got %q, want %q", s.Source, KeySourceConfig)
	}
	if s.Masked != "abc...lue" {
		t.Errorf("Masked: got %q, want %q", s.Masked, "abc...lue")
	}
}

func TestCheckAPIKeysFromEnv(t *testing.T) {
	os.Setenv("SOYWATCH_NEWSAPI_KEY", "env-key-for-testing")
	defer os.Unsetenv("SOYWATCH_NEWSAPI_KEY")

	cfg := &Config{NewsAPI: NewsAPIConfig{Key: "env-key-for-testing"}}
	statuses := CheckAPIKeys(cfg)

	if statuses[0].Source != KeySourceEnv {
		t.Errorf("Source: got %q, want %q", statuses[0].Source, KeySourceEnv)
	}
}

func TestCheckKeySourceDetection(t *testing.T) {
	// No env, no value
	os.Unsetenv("TEST_VAR")
	s := checkKey("Test", "", "TEST_VAR")
	if s.Source != KeySourceNone {
		t.Errorf("empty value: got source %q, want %q", s.Source, KeySourceNone)
	}
	if s.IsSet {
		t.Error("empty value should not be set")
	}

	// Value from config (no env)
	s = checkKey("Test", "config-value-long-enough", "TEST_VAR")
	if s.Source != KeySourceConfig {
		t.Errorf("config value: got source %q, want %q", s.Source, KeySourceConfig)
	}
	if !s.IsSet {
		t.Error("config value should be set")
	}

	// Value from env
	os.Setenv("TEST_VAR", "env-value-long-enough")
	defer os.Unsetenv("TEST_VAR")
	s = checkKey("Test", "env-value-long-enough", "TEST_VAR")
	if s.Source != KeySourceEnv {
		t.Errorf("env value: got source %q, want %q", s.Source, KeySourceEnv)
	}

	// Env holding a different value than the config still counts as config
	s = checkKey("Test", "config-wins-here", "TEST_VAR")
	if s.Source != KeySourceConfig {
		t.Errorf("mismatched env value: got source %q, want %q", s.Source, KeySourceConfig)
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	h := homeDir()
	if h == "" {
		t.Error("homeDir() should not return empty string")
	}
}

// ── APIKeySource constants ──

func TestAPIKeySourceConstants(t *testing.T) {
	if string(KeySourceEnv) != "env" {
		t.Errorf("KeySourceEnv: got %q", KeySourceEnv)
	}
	if string(KeySourceConfig) != "config" {
		t.Errorf("KeySourceConfig: got %q", KeySourceConfig)
	}
	if string(KeySourceNone) != "none" {
		t.Errorf("KeySourceNone: got %q", KeySourceNone)
	}
}
