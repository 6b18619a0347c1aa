// Package config handles loading and saving user configuration for the Pokédex.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/pokedex/internal/catalog"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. POKEDEX_API_TIMEOUT.
	EnvPrefix = "POKEDEX"

	// FileName is the config file inside the config directory.
	FileName = "config.yaml"

	// KeyConfigDir is the viper key holding the config directory.
	KeyConfigDir = "config_dir"
)

// Config holds all user configuration.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`

	// Dir is the directory the config was loaded from.
	Dir string `yaml:"-" mapstructure:"-"`
}

// APIConfig holds PokeAPI client settings.
type APIConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"` // parallel requests in fan-outs
	UserAgent   string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Path     string        `yaml:"path" mapstructure:"path"` // defaults to <dir>/cache.db
	Disabled bool          `yaml:"disabled" mapstructure:"disabled"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"` // 0 keeps entries forever
}

// CatalogConfig holds list and search settings.
type CatalogConfig struct {
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
	Limit    int `yaml:"limit" mapstructure:"limit"` // master index size
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Development bool   `yaml:"development" mapstructure:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:     "https://pokeapi.co/api/v2",
			Timeout:     30 * time.Second,
			Concurrency: 8,
			UserAgent:   "pokedex (+https://github.com/f3rmion/pokedex)",
		},
		Catalog: CatalogConfig{
			PageSize: 20,
			Limit:    1302,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers Default() with v so environment overrides apply
// to every key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.concurrency", d.API.Concurrency)
	v.SetDefault("api.user_agent", d.API.UserAgent)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("catalog.page_size", d.Catalog.PageSize)
	v.SetDefault("catalog.limit", d.Catalog.Limit)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}

// Load reads config.yaml from the directory stored under KeyConfigDir
// (or the default directory), then applies POKEDEX_* environment
// variables. A missing file is not an error.
func Load(v *viper.Viper) (Config, error) {
	dir := v.GetString(KeyConfigDir)
	if dir == "" {
		var err error
		if dir, err = GetConfigDir(); err != nil {
			return Config{}, fmt.Errorf("finding config directory: %w", err)
		}
	}

	SetDefaults(v)
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Dir = dir
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = filepath.Join(dir, "cache.db")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is empty"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}
	if c.API.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("api.concurrency must be at least 1, got %d", c.API.Concurrency))
	}
	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > catalog.MaxPageSize {
		errs = append(errs, fmt.Errorf("catalog.page_size must be between 1 and %d, got %d", catalog.MaxPageSize, c.Catalog.PageSize))
	}
	if c.Catalog.Limit < 1 {
		errs = append(errs, fmt.Errorf("catalog.limit must be at least 1, got %d", c.Catalog.Limit))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pokedex"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// Path returns the config file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}
