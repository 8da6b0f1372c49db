package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

const (
	appName = "digestcrack"

	// envPrefix prefixes every environment override.
	envPrefix = "DIGESTCRACK_"

	// HardMaxWorkers bounds search.max_workers itself.
	HardMaxWorkers = 256
)

// Config represents the complete digestcrack configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// SearchConfig configures the parallel search.
type SearchConfig struct {
	// Workers is the default number of parallel workers (-t overrides it).
	Workers int `yaml:"workers" json:"workers"`

	// MaxWorkers is the upper bound accepted for Workers.
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`
}

// IndexConfig configures precomputed digest indexes.
type IndexConfig struct {
	// Enabled maintains an index on every crack, as if -i were passed.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Backend is "text" (one file per dictionary) or "sqlite".
	Backend string `yaml:"backend" json:"backend"`

	// Dir relocates text index files. Empty keeps them next to the dictionary.
	Dir string `yaml:"dir" json:"dir"`

	// SQLitePath is the database used by the sqlite backend.
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`

	// CacheSize is the number of parsed text indexes kept in memory.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// LockRetries is how often a busy index lock is retried.
	LockRetries int `yaml:"lock_retries" json:"lock_retries"`
}

// LoggingConfig configures the structured log file.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	File      string `yaml:"file" json:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
	Stderr    bool   `yaml:"stderr" json:"stderr"`
}

// OutputConfig configures what the CLI prints.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format" json:"format"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color" json:"color"`
}

// NewConfig returns a configuration with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Workers:    1,
			MaxWorkers: 10,
		},
		Index: IndexConfig{
			Backend:     "text",
			SQLitePath:  filepath.Join(dataDir(), "index.db"),
			CacheSize:   8,
			LockRetries: 5,
		},
		Logging: LoggingConfig{
			Level:     "info",
			File:      filepath.Join(dataDir(), "logs", appName+".log"),
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
	}
}

// dataDir returns ~/.digestcrack, falling back to the temp directory.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "."+appName)
	}
	return filepath.Join(home, "."+appName)
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/digestcrack/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/digestcrack/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", appName, "config.yaml")
	}
	return filepath.Join(home, ".config", appName, "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load loads configuration for a run started in dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/digestcrack/config.yaml)
//  3. Project config (.digestcrack.yaml in dir), or explicitPath when set
//  4. Environment variables (DIGESTCRACK_*)
//
// CLI flags are applied by the caller, which validates again afterwards.
func Load(dir, explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, crackerrors.ConfigError("failed to load user config", err).
				WithDetail("path", path)
		}
	}

	if explicitPath != "" {
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, crackerrors.ConfigError("failed to load config file", err).
				WithDetail("path", explicitPath)
		}
	} else if err := cfg.loadFromDir(dir); err != nil {
		return nil, crackerrors.ConfigError("failed to load project config", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromDir loads .digestcrack.yaml or .digestcrack.yml from dir.
func (c *Config) loadFromDir(dir string) error {
	for _, name := range []string{"." + appName + ".yaml", "." + appName + ".yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

// loadYAML overlays the values present in the YAML file at path onto c.
// On error c is left unchanged.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	parsed := *c
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	*c = parsed
	return nil
}

// applyEnvOverrides applies DIGESTCRACK_* environment variable overrides.
// Empty variables are ignored.
func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"WORKERS", &c.Search.Workers},
		{"MAX_WORKERS", &c.Search.MaxWorkers},
		{"INDEX_CACHE_SIZE", &c.Index.CacheSize},
	}
	for _, e := range ints {
		v := os.Getenv(envPrefix + e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return crackerrors.ConfigError(fmt.Sprintf("%s%s must be an integer, got %q", envPrefix, e.name, v), err)
		}
		*e.dst = n
	}

	if v := os.Getenv(envPrefix + "INDEX"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return crackerrors.ConfigError(fmt.Sprintf("%sINDEX must be a boolean, got %q", envPrefix, v), err)
		}
		c.Index.Enabled = b
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"INDEX_BACKEND", &c.Index.Backend},
		{"INDEX_DIR", &c.Index.Dir},
		{"SQLITE_PATH", &c.Index.SQLitePath},
		{"LOG_LEVEL", &c.Logging.Level},
		{"LOG_FILE", &c.Logging.File},
		{"FORMAT", &c.Output.Format},
		{"COLOR", &c.Output.Color},
	}
	for _, e := range strs {
		if v := os.Getenv(envPrefix + e.name); v != "" {
			*e.dst = v
		}
	}
	return nil
}

// expandPaths resolves a leading "~" in configured paths.
func (c *Config) expandPaths() {
	c.Index.Dir = ExpandHome(c.Index.Dir)
	c.Index.SQLitePath = ExpandHome(c.Index.SQLitePath)
	c.Logging.File = ExpandHome(c.Logging.File)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate returns a CONFIG error for the first invalid setting.
func (c *Config) Validate() error {
	if c.Search.MaxWorkers < 1 || c.Search.MaxWorkers > HardMaxWorkers {
		return crackerrors.OutOfRangeError("search.max_workers", c.Search.MaxWorkers, 1, HardMaxWorkers)
	}
	if err := c.ValidateWorkers("search.workers", c.Search.Workers); err != nil {
		return err
	}

	switch strings.ToLower(c.Index.Backend) {
	case "text", "sqlite":
	default:
		return invalidChoice("index.backend", c.Index.Backend, "text", "sqlite")
	}
	if c.Index.CacheSize < 0 {
		return crackerrors.ConfigError(fmt.Sprintf("index.cache_size must be non-negative, got %d", c.Index.CacheSize), nil)
	}
	if c.Index.LockRetries < 0 {
		return crackerrors.ConfigError(fmt.Sprintf("index.lock_retries must be non-negative, got %d", c.Index.LockRetries), nil)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalidChoice("logging.level", c.Logging.Level, "debug", "info", "warn", "error")
	}

	switch strings.ToLower(c.Output.Format) {
	case "text", "json":
	default:
		return invalidChoice("output.format", c.Output.Format, "text", "json")
	}
	switch strings.ToLower(c.Output.Color) {
	case "auto", "always", "never":
	default:
		return invalidChoice("output.color", c.Output.Color, "auto", "always", "never")
	}

	return nil
}

// ValidateWorkers checks a worker count named setting against
// search.max_workers.
func (c *Config) ValidateWorkers(setting string, n int) error {
	if n < 1 || n > c.Search.MaxWorkers {
		return crackerrors.OutOfRangeError(setting, n, 1, c.Search.MaxWorkers).
			WithSuggestion(fmt.Sprintf("Pass -t between 1 and %d, or raise search.max_workers", c.Search.MaxWorkers))
	}
	return nil
}

func invalidChoice(setting, got string, allowed ...string) error {
	return crackerrors.ConfigError(
		fmt.Sprintf("%s must be one of %s, got %q", setting, strings.Join(allowed, ", "), got), nil).
		WithDetail("setting", setting)
}

// YAML renders the configuration in the config file format.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
