// Package config resolves server settings from defaults, an optional YAML
// file, a .env file and the environment, in that order of precedence
// (later wins).
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"chess-mcp/internal/fetch"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	LogLevel  string        `yaml:"log_level"`
	Transport string        `yaml:"transport"`
	Addr      string        `yaml:"addr"`
	Path      string        `yaml:"path"`

	// APIKey guards the HTTP listener. Only read from the environment.
	APIKey string `yaml:"-"`
}

func Default() Config {
	return Config{
		BaseURL:   fetch.DefaultBaseURL,
		UserAgent: fetch.DefaultUserAgent,
		Timeout:   20 * time.Second,
		LogLevel:  "info",
		Transport: TransportStdio,
		Addr:      ":8080",
		Path:      "/mcp",
	}
}

// LoadDotEnv loads .env from the working directory into the process
// environment without overriding variables that are already set. It
// reports whether a file was loaded.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load builds a Config from defaults, then path (if non-empty), then the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("CHESS_API_BASE_URL", &c.BaseURL)
	str("CHESS_USER_AGENT", &c.UserAgent)
	str("CHESS_LOG_LEVEL", &c.LogLevel)
	str("CHESS_MCP_TRANSPORT", &c.Transport)
	str("CHESS_MCP_ADDR", &c.Addr)
	str("CHESS_MCP_API_KEY", &c.APIKey)

	if v, ok := lookup("CHESS_HTTP_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(err, "CHESS_HTTP_TIMEOUT")
		}
		c.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.Wrap(err, "base_url")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("base_url %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return errors.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportHTTP)
	}
	return nil
}
