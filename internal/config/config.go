package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"exchangesnapshot/internal/logger"
)

type Server struct {
	Port              string `json:"port" yaml:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
}

type CryptoCompare struct {
	APIKey                string `json:"api_key" yaml:"api_key"`
	BaseURL               string `json:"base_url" yaml:"base_url"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec" yaml:"min_request_interval_sec"`
	Burst                 int    `json:"burst" yaml:"burst"`
}

type Config struct {
	Server        Server        `json:"server" yaml:"server"`
	CryptoCompare CryptoCompare `json:"cryptocompare" yaml:"cryptocompare"`
	Log           logger.Config `json:"log" yaml:"log"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		CryptoCompare: CryptoCompare{
			BaseURL:              "https://min-api.cryptocompare.com",
			MaxRequestsPerMinute: 30,
			Burst:                5,
		},
		Log: logger.DefaultConfig(),
	}
}

// Load reads config from path. If path is empty, config.json, config.yaml
// and config.yml are tried in the working directory; if none exists the
// defaults are used. Files ending in .yaml or .yml are parsed as YAML,
// anything else as JSON. Environment variables override select fields,
// the API key among them.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, candidate := range []string{"config.json", "config.yaml", "config.yml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := unmarshal(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func unmarshal(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
		cfg.Server.RequestTimeoutSec = x
	}
	if v := os.Getenv("CRYPTOCOMPARE_API_KEY"); v != "" {
		cfg.CryptoCompare.APIKey = v
	}
	if v := os.Getenv("CRYPTOCOMPARE_BASE_URL"); v != "" {
		cfg.CryptoCompare.BaseURL = v
	}
	if x, ok := envInt("CRYPTOCOMPARE_MAX_RPM"); ok && x >= 0 {
		cfg.CryptoCompare.MaxRequestsPerMinute = x
	}
	if x, ok := envInt("CRYPTOCOMPARE_BURST"); ok && x > 0 {
		cfg.CryptoCompare.Burst = x
	}
	if x, ok := envInt("CRYPTOCOMPARE_MIN_INTERVAL_SEC"); ok && x >= 0 {
		cfg.CryptoCompare.MinRequestIntervalSec = x
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err != nil {
		return 0, false
	}
	return x, true
}
