package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names accepted in store.backend
const (
	BackendWebDAV = "webdav"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all service configuration. It is loaded once and passed to the
// components that need it; nothing reads it from global state.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	WebDAV WebDAVConfig `yaml:"webdav"`
	Redis  RedisConfig  `yaml:"redis"`
	Log    LogConfig    `yaml:"log"`
	Render RenderConfig `yaml:"render"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // webdav, redis, memory
}

// WebDAVConfig holds the connection to the Nextcloud (or other WebDAV) share.
type WebDAVConfig struct {
	URL     string `yaml:"url"`
	User    string `yaml:"user"`
	Token   string `yaml:"token"`
	Path    string `yaml:"path"`
	Timeout string `yaml:"timeout"`
}

// RedisConfig configures the optional Redis document backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// LogConfig selects the zap preset.
type LogConfig struct {
	Mode string `yaml:"mode"` // development, production
}

// RenderConfig configures print output.
type RenderConfig struct {
	ChromeBin  string `yaml:"chrome_bin"`
	SchoolName string `yaml:"school_name"`
}

// ErrInvalidURL is returned when the WebDAV URL has no http(s) scheme.
var ErrInvalidURL = errors.New("URL must start with http:// or https://")

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			AllowOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Store: StoreConfig{Backend: BackendWebDAV},
		WebDAV: WebDAVConfig{
			Path:    "SchulKonfliktData",
			Timeout: "30s",
		},
		Redis: RedisConfig{
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "schoolrecords:",
		},
		Log:    LogConfig{Mode: "development"},
		Render: RenderConfig{SchoolName: "Oberschule"},
	}
}

// Load reads the YAML file at path (a missing file is not an error), then
// .env and environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to path. The file holds credentials and
// is created owner-readable only.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise only fail at request time.
func (c *Config) Validate() error {
	if c.WebDAV.URL != "" && !strings.HasPrefix(c.WebDAV.URL, "http://") && !strings.HasPrefix(c.WebDAV.URL, "https://") {
		return ErrInvalidURL
	}
	switch c.Store.Backend {
	case BackendWebDAV, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := time.ParseDuration(c.WebDAV.Timeout); c.WebDAV.Timeout != "" && err != nil {
		return fmt.Errorf("invalid webdav timeout %q: %w", c.WebDAV.Timeout, err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) applyEnvOverrides() {
	overrideString(&c.WebDAV.URL, "SR_WEBDAV_URL")
	overrideString(&c.WebDAV.User, "SR_WEBDAV_USER")
	overrideString(&c.WebDAV.Token, "SR_WEBDAV_TOKEN")
	overrideString(&c.WebDAV.Path, "SR_WEBDAV_PATH")
	overrideString(&c.Store.Backend, "SR_BACKEND")
	overrideString(&c.Redis.Addr, "SR_REDIS_ADDR")
	overrideString(&c.Redis.Password, "SR_REDIS_PASSWORD")
	overrideString(&c.Server.Port, "SR_PORT")
	overrideString(&c.Log.Mode, "SR_LOG_MODE")
	overrideString(&c.Render.ChromeBin, "SR_CHROME_BIN")

	if v := os.Getenv("SR_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// IsConfigured reports whether enough is known to talk to the share: URL,
// user and token. A public.php/webdav URL also counts without a token, since
// public shares authenticate with the share token as user and no password.
func (w WebDAVConfig) IsConfigured() bool {
	if w.URL == "" || w.User == "" {
		return false
	}
	return w.Token != "" || strings.Contains(w.URL, "public.php/webdav")
}

// TimeoutDuration parses Timeout, falling back to 30 seconds.
func (w WebDAVConfig) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(w.Timeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}
