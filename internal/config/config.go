// internal/config/config.go
//
// This package handles configuration and the .votoadmin directory structure.
// Every machine that runs votoadmin gets a .votoadmin/ folder in the user's
// home directory (or wherever the base dir points during tests).

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

	"gopkg.in/yaml.v3"
)

const (
	// AppDir is the name of the directory we create for state, logs and config.
	AppDir = ".votoadmin"

	// EnvAPIURL overrides the configured API origin.
	EnvAPIURL = "VOTOADMIN_API_URL"

	defaultAPIURL         = "http://localhost:3000"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 30
)

const defaultConfigYAML = `# votoadmin configuration
version: 1

# Origin of the electoral-information REST API.
# Can be overridden with the VOTOADMIN_API_URL environment variable.
api_url: http://localhost:3000

# Logging level for the activity log: debug, info, warn, error.
log_level: info

# Timeout in seconds applied to every request against the API.
request_timeout_seconds: 30
`

// FileConfig models .votoadmin/config.yaml.
type FileConfig struct {
	Version        int    `yaml:"version"`
	APIURL         string `yaml:"api_url"`
	LogLevel       string `yaml:"log_level"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
}

// Config holds the runtime configuration for votoadmin.
type Config struct {
	// BaseDir is the directory backing config, durable state and logs,
	// normally $HOME/.votoadmin.
	BaseDir string

	File FileConfig
}

// InitAppDir creates the .votoadmin directory structure under baseDir.
// This is called when the TUI starts up.
//
// Structure created:
// .votoadmin/
// ├── logs/     <- Activity log
// └── state/    <- Durable session entries (token + profile)
func InitAppDir(baseDir string) error {
	dirs := []string{
		filepath.Join(baseDir, "logs"),
		filepath.Join(baseDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(baseDir, "config.yaml"))
}

// DefaultBaseDir resolves the per-user application directory.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, AppDir), nil
}

// New creates a Config populated from config.yaml and the environment.
func New(baseDir string) (*Config, error) {
	cfg := &Config{
		BaseDir: baseDir,
		File:    defaultFileConfig(),
	}
	if err := cfg.loadFileConfig(); err != nil {
		return nil, err
	}
	if origin := strings.TrimSpace(os.Getenv(EnvAPIURL)); origin != "" {
		cfg.File.APIURL = origin
	}
	cfg.File.normalize()
	if err := cfg.File.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// APIURL returns the configured API origin without a trailing slash.
func (c *Config) APIURL() string {
	return strings.TrimRight(c.File.APIURL, "/")
}

// RequestTimeout returns the per-request timeout for API calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.File.RequestTimeout) * time.Second
}

// LogLevel returns the configured activity-log level.
func (c *Config) LogLevel() string {
	return c.File.LogLevel
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.BaseDir, "logs")
}

// StateDir returns the directory holding the durable session entries.
func (c *Config) StateDir() string {
	return filepath.Join(c.BaseDir, "state")
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.BaseDir, "config.yaml")
}

// Save persists the current settings back to config.yaml.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.File.normalize()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.BaseDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure app dir: %w", err)
	}
	data, err := yaml.Marshal(c.File)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}

func (c *Config) loadFileConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version:        1,
		APIURL:         defaultAPIURL,
		LogLevel:       defaultLogLevel,
		RequestTimeout: defaultRequestTimeout,
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.APIURL) == "" {
		fc.APIURL = defaultAPIURL
	}
	if strings.TrimSpace(fc.LogLevel) == "" {
		fc.LogLevel = defaultLogLevel
	}
	if fc.RequestTimeout <= 0 {
		fc.RequestTimeout = defaultRequestTimeout
	}
}

func (fc *FileConfig) normalize() {
	fc.APIURL = strings.TrimRight(strings.TrimSpace(fc.APIURL), "/")
	fc.LogLevel = strings.ToLower(strings.TrimSpace(fc.LogLevel))
}

func (fc FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	parsed, err := url.Parse(fc.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api_url must be an absolute origin, got %q", fc.APIURL)
	}
	switch fc.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	if fc.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
