package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvListen      = "DESKTOPMCP_LISTEN"
	EnvContextMode = "DESKTOPMCP_CONTEXT_MODE"
	EnvLogLevel    = "DESKTOPMCP_LOG_LEVEL"
	EnvOpenBrowser = "DESKTOPMCP_OPEN_BROWSER"
)

type LoadResult struct {
	Config *Config
	File   string            // config file read, empty when none existed
	Env    map[string]string // YAML path -> environment variable that set it
}

// rawConfig mirrors Config with optional fields so absent keys keep defaults.
type rawConfig struct {
	Listen             *string           `yaml:"listen"`
	OpenBrowser        *bool             `yaml:"open_browser"`
	DefaultContextMode *string           `yaml:"default_context_mode"`
	Display            *string           `yaml:"display"`
	XAuthority         *string           `yaml:"xauthority"`
	Logging            *rawLoggingConfig `yaml:"logging"`
}

type rawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

var (
	lookupEnvFn = os.LookupEnv
	loadDotEnv  = func() error { return godotenv.Load() }
)

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "desktopmcp", "config.yaml"), nil
}

// Load reads .env from the working directory (when present) and the config
// file from the standard location, and returns the effective config.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load that also reports where values came from.
func LoadWithSources() (*LoadResult, error) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path (a missing file means defaults) and applies
// environment overrides.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	res := &LoadResult{Config: cfg, Env: map[string]string{}}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var raw rawConfig
		if err := decodeStrictYAML(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		raw.applyTo(cfg)
		res.File = path
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg, res.Env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		if env, ok := res.Env[validationPath(err)]; ok {
			return nil, fmt.Errorf("%s (from %s): %w", path, env, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func (r rawConfig) applyTo(cfg *Config) {
	if r.Listen != nil {
		cfg.Listen = *r.Listen
	}
	if r.OpenBrowser != nil {
		cfg.OpenBrowser = *r.OpenBrowser
	}
	if r.DefaultContextMode != nil {
		cfg.DefaultContextMode = *r.DefaultContextMode
	}
	if r.Display != nil {
		cfg.Display = *r.Display
	}
	if r.XAuthority != nil {
		cfg.XAuthority = *r.XAuthority
	}
	if l := r.Logging; l != nil {
		if l.Enabled != nil {
			cfg.Logging.Enabled = *l.Enabled
		}
		if l.Level != nil {
			cfg.Logging.Level = *l.Level
		}
		if l.File != nil {
			cfg.Logging.File = *l.File
		}
		if l.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *l.MaxSizeMB
		}
		if l.MaxFiles != nil {
			cfg.Logging.MaxFiles = *l.MaxFiles
		}
	}
}

func applyEnvOverrides(cfg *Config, sources map[string]string) error {
	if v, ok := lookupEnvFn(EnvListen); ok && v != "" {
		cfg.Listen = v
		sources["listen"] = EnvListen
	}
	if v, ok := lookupEnvFn(EnvContextMode); ok && v != "" {
		cfg.DefaultContextMode = v
		sources["default_context_mode"] = EnvContextMode
	}
	if v, ok := lookupEnvFn(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
		sources["logging.level"] = EnvLogLevel
	}
	if v, ok := lookupEnvFn(EnvOpenBrowser); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", EnvOpenBrowser, v)
		}
		cfg.OpenBrowser = b
		sources["open_browser"] = EnvOpenBrowser
	}
	return nil
}

// EnvSources returns the overridden YAML paths in sorted order.
func (r *LoadResult) EnvSources() []string {
	keys := make([]string, 0, len(r.Env))
	for k := range r.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validationPath(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Path
	}
	return ""
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}
