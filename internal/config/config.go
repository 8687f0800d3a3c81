package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"trialsearch/internal/domain"
)

// BackendConfig selects and configures the search backend.
type BackendConfig struct {
	Type        string `yaml:"type" toml:"type"`
	BaseURL     string `yaml:"base_url" toml:"base_url"`
	Endpoint    string `yaml:"endpoint" toml:"endpoint"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
	File        string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// SearchConfig holds the initial query controls and the display page size.
type SearchConfig struct {
	DefaultResultCount int  `yaml:"default_result_count" toml:"default_result_count"`
	PageSize           int  `yaml:"page_size" toml:"page_size"`
	ExactMatch         bool `yaml:"exact_match" toml:"exact_match"`
}

// LoggingConfig controls the log file. The TUI owns stdout, so logs never go there.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Backend BackendConfig `yaml:"backend" toml:"backend"`
	Search  SearchConfig  `yaml:"search" toml:"search"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Paths ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	var cfg AppConfig
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/trialsearch/config.yaml.
// If neither exists, it writes defaults to ~/.config/trialsearch/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, cfg.Validate()
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the session cannot run with.
func (c *AppConfig) Validate() error {
	switch c.Backend.Type {
	case "http":
		if c.Backend.BaseURL == "" {
			return errors.New("backend.base_url is required for the http backend")
		}
	case "file":
		if c.Backend.File == "" {
			return errors.New("backend.file is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown backend type %q", c.Backend.Type)
	}
	if !domain.ValidResultCount(c.Search.DefaultResultCount) {
		return fmt.Errorf("search.default_result_count: %w", domain.ErrInvalidResultCount)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}
	return nil
}

// DefaultUserConfigPath is ~/.config/trialsearch/config.yaml.
func DefaultUserConfigPath() (string, error) {
	dir, err := userDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func userDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "trialsearch"), nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Default returns the built-in settings.
func Default() *AppConfig { return defaultConfig() }

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Backend: BackendConfig{Type: "http", BaseURL: "http://localhost:5000", Endpoint: "/get_trials", TimeoutSecs: 30},
		Search:  SearchConfig{DefaultResultCount: 5, PageSize: 5},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	if dir, err := userDir(); err == nil {
		cfg.Logging.File = filepath.Join(dir, "trialsearch.log")
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Backend.Type == "" {
		cfg.Backend.Type = def.Backend.Type
	}
	if cfg.Backend.Type == "http" {
		if cfg.Backend.BaseURL == "" {
			cfg.Backend.BaseURL = def.Backend.BaseURL
		}
		if cfg.Backend.Endpoint == "" {
			cfg.Backend.Endpoint = def.Backend.Endpoint
		}
		if cfg.Backend.TimeoutSecs == 0 {
			cfg.Backend.TimeoutSecs = def.Backend.TimeoutSecs
		}
	}
	if cfg.Search.DefaultResultCount == 0 {
		cfg.Search.DefaultResultCount = def.Search.DefaultResultCount
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = def.Search.PageSize
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = def.Logging.File
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("TRIALSEARCH_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("TRIALSEARCH_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.PageSize = n
		}
	}
	if v := os.Getenv("TRIALSEARCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
