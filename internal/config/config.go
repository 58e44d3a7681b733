package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the runtime settings for bookshelf.
type Config struct {
	APIURL          string
	Timeout         time.Duration
	RefreshInterval time.Duration // zero disables background refresh
	LogFile         string        // "-" disables logging
	LogLevel        string
	Locale          string
}

const (
	defaultConfigPath      = "~/.config/bookshelf/config.toml"
	defaultAPIURL          = "http://localhost:8080"
	defaultTimeout         = 5 * time.Second
	defaultRefreshInterval = 30 * time.Second
	defaultLogFile         = "~/.local/state/bookshelf/bookshelf.log"
	defaultLogLevel        = "info"
	defaultLocale          = "ko-KR"

	// LogDisabled is the log_file value that turns logging off.
	LogDisabled = "-"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// envOverrides mirrors Config for BOOKSHELF_* environment variables. Pointer
// fields distinguish an unset variable from an explicit zero.
type envOverrides struct {
	APIURL          string         `env:"BOOKSHELF_API_URL"`
	Timeout         *time.Duration `env:"BOOKSHELF_TIMEOUT"`
	RefreshInterval *time.Duration `env:"BOOKSHELF_REFRESH_INTERVAL"`
	LogFile         string         `env:"BOOKSHELF_LOG_FILE"`
	LogLevel        string         `env:"BOOKSHELF_LOG_LEVEL"`
	Locale          string         `env:"BOOKSHELF_LOCALE"`
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Defaults returns the configuration used when no file or environment is present.
func Defaults() Config {
	return Config{
		APIURL:          defaultAPIURL,
		Timeout:         defaultTimeout,
		RefreshInterval: defaultRefreshInterval,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
		Locale:          defaultLocale,
	}
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none are
// given) into the process environment. Missing files are ignored and existing
// variables are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the config file, falling back to defaults when it is missing, and
// then applies BOOKSHELF_* environment overrides.
func Load(path string) (Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must not be negative, got %s", c.RefreshInterval)
	}
	if _, ok := validLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// LoggingEnabled reports whether a log file is configured.
func (c Config) LoggingEnabled() bool {
	return strings.TrimSpace(c.LogFile) != "" && c.LogFile != LogDisabled
}

func loadFile(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL          string  `toml:"api_url"`
		Timeout         string  `toml:"timeout"`
		RefreshInterval *string `toml:"refresh_interval"`
		LogFile         string  `toml:"log_file"`
		LogLevel        string  `toml:"log_level"`
		Locale          string  `toml:"locale"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if raw.RefreshInterval != nil {
		if v := strings.TrimSpace(*raw.RefreshInterval); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("parse config: refresh_interval: %w", err)
			}
			cfg.RefreshInterval = d
		}
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = expandLogFile(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Locale); v != "" {
		cfg.Locale = v
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if v := strings.TrimSpace(overrides.APIURL); v != "" {
		cfg.APIURL = v
	}
	if overrides.Timeout != nil {
		cfg.Timeout = *overrides.Timeout
	}
	if overrides.RefreshInterval != nil {
		cfg.RefreshInterval = *overrides.RefreshInterval
	}
	if v := strings.TrimSpace(overrides.LogFile); v != "" {
		cfg.LogFile = expandLogFile(v)
	}
	if v := strings.TrimSpace(overrides.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(overrides.Locale); v != "" {
		cfg.Locale = v
	}
	return nil
}

func expandLogFile(path string) string {
	if path == LogDisabled {
		return path
	}
	return mustExpand(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
