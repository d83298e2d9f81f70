// Package config loads Mixx settings from a YAML file, MIXX_ environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mixxbar/mixx/pkg/catalog"
)

// AppName names the config and data directories.
const AppName = "mixx"

// EnvPrefix is prepended to every environment override, e.g. MIXX_BACKEND_URL.
const EnvPrefix = "MIXX"

// Config is the complete application configuration.
type Config struct {
	BackendURL      string                `mapstructure:"backend_url"`
	Timeout         time.Duration         `mapstructure:"timeout"`
	DataDir         string                `mapstructure:"data_dir"`
	Log             LogConfig             `mapstructure:"log"`
	Search          SearchConfig          `mapstructure:"search"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SearchConfig sets the initial search behavior.
type SearchConfig struct {
	Facets   []string      `mapstructure:"facets"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// RecommendationsConfig sets how many recommendations are shown.
type RecommendationsConfig struct {
	Count int `mapstructure:"count"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		BackendURL: "http://localhost:5000",
		Timeout:    15 * time.Second,
		DataDir:    dataDir,
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, AppName+".log"),
		},
		Search: SearchConfig{
			Facets:   catalog.AllFacets().Names(),
			Debounce: 250 * time.Millisecond,
		},
		Recommendations: RecommendationsConfig{Count: 3},
	}
}

// DefaultDir is where config.yaml lives when no path is given.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+AppName)
	}
	return filepath.Join(dir, AppName)
}

// DefaultPath is DefaultDir/config.yaml.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultDataDir is where the session database and log file live.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+AppName)
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("backend_url", def.BackendURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("search.facets", def.Search.Facets)
	v.SetDefault("search.debounce", def.Search.Debounce)
	v.SetDefault("recommendations.count", def.Recommendations.Count)
}

// Load reads configuration from path, or from DefaultPath when path is empty.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Comma-separated env values arrive as a single element.
	if len(cfg.Search.Facets) == 1 && strings.Contains(cfg.Search.Facets[0], ",") {
		cfg.Search.Facets = strings.Split(cfg.Search.Facets[0], ",")
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, AppName+".log")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "backend_url", Message: fmt.Sprintf("%q is not an http(s) URL", c.BackendURL)}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Field: "timeout", Message: "must be positive"}
	}
	if c.DataDir == "" {
		return &ConfigError{Field: "data_dir", Message: "must not be empty"}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	if _, err := catalog.ParseFacetSet(c.Search.Facets); err != nil {
		return &ConfigError{Field: "search.facets", Message: err.Error()}
	}
	if c.Search.Debounce < 0 {
		return &ConfigError{Field: "search.debounce", Message: "must not be negative"}
	}
	if c.Recommendations.Count < 1 {
		return &ConfigError{Field: "recommendations.count", Message: "must be at least 1"}
	}
	return nil
}

// FacetSet returns the configured initial search facets.
func (c *Config) FacetSet() catalog.FacetSet {
	set, err := catalog.ParseFacetSet(c.Search.Facets)
	if err != nil {
		return catalog.AllFacets()
	}
	return set
}

// SessionPath is the session database location.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.db")
}

// fileConfig is the on-disk YAML shape. Durations are written as strings.
type fileConfig struct {
	BackendURL string `yaml:"backend_url"`
	Timeout    string `yaml:"timeout"`
	DataDir    string `yaml:"data_dir"`
	Log        struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Search struct {
		Facets   []string `yaml:"facets,flow"`
		Debounce string   `yaml:"debounce"`
	} `yaml:"search"`
	Recommendations struct {
		Count int `yaml:"count"`
	} `yaml:"recommendations"`
}

func (c *Config) marshal() ([]byte, error) {
	var fc fileConfig
	fc.BackendURL = c.BackendURL
	fc.Timeout = c.Timeout.String()
	fc.DataDir = c.DataDir
	fc.Log.Level = c.Log.Level
	fc.Log.File = c.Log.File
	fc.Search.Facets = c.Search.Facets
	fc.Search.Debounce = c.Search.Debounce.String()
	fc.Recommendations.Count = c.Recommendations.Count

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// Save writes the configuration as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// YAML renders the configuration as it would be saved.
func (c *Config) YAML() (string, error) {
	data, err := c.marshal()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
