package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete analyzer configuration
type Config struct {
	Version       int    `json:"version" mapstructure:"version"`
	WorkspaceRoot string `json:"workspaceRoot" mapstructure:"workspaceRoot"`

	// Projects restricts analysis to the named projects; empty means all.
	Projects []string `json:"projects" mapstructure:"projects"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Cache    CacheConfig    `json:"cache" mapstructure:"cache"`
	Output   OutputConfig   `json:"output" mapstructure:"output"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig controls file enumeration and the worker pool
type AnalysisConfig struct {
	ChunkSize          int      `json:"chunkSize" mapstructure:"chunkSize"`
	Workers            int      `json:"workers" mapstructure:"workers"`
	ExcludeNodeModules bool     `json:"excludeNodeModules" mapstructure:"excludeNodeModules"`
	TypeScriptOnly     bool     `json:"typescriptOnly" mapstructure:"typescriptOnly"`
	Extensions         []string `json:"extensions" mapstructure:"extensions"`
	ExcludeGlobs       []string `json:"excludeGlobs" mapstructure:"excludeGlobs"`
}

// CacheConfig contains cache configuration
type CacheConfig struct {
	ContentTtlSeconds int `json:"contentTtlSeconds" mapstructure:"contentTtlSeconds"`
	ModuleCacheSize   int `json:"moduleCacheSize" mapstructure:"moduleCacheSize"`
}

// OutputConfig controls where results are written
type OutputConfig struct {
	Path       string `json:"path" mapstructure:"path"`
	Format     string `json:"format" mapstructure:"format"`
	DBPath     string `json:"dbPath" mapstructure:"dbPath"`
	TimingPath string `json:"timingPath" mapstructure:"timingPath"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:       1,
		WorkspaceRoot: ".",
		Analysis: AnalysisConfig{
			ChunkSize:          10,
			Workers:            0,
			ExcludeNodeModules: true,
			TypeScriptOnly:     true,
			Extensions:         []string{".ts"},
			ExcludeGlobs:       []string{},
		},
		Cache: CacheConfig{
			ContentTtlSeconds: 300,
			ModuleCacheSize:   4096,
		},
		Output: OutputConfig{
			Path:   "angular-analysis.json",
			Format: "json",
			DBPath: filepath.Join(".nga", "graph.db"),
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .nga/config.json, layered over the
// defaults and under NGA_* environment variables.
func LoadConfig(workspaceRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workspaceRoot, ".nga"))

	v.SetEnvPrefix("NGA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("workspaceRoot", d.WorkspaceRoot)
	v.SetDefault("projects", d.Projects)
	v.SetDefault("analysis.chunkSize", d.Analysis.ChunkSize)
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.excludeNodeModules", d.Analysis.ExcludeNodeModules)
	v.SetDefault("analysis.typescriptOnly", d.Analysis.TypeScriptOnly)
	v.SetDefault("analysis.extensions", d.Analysis.Extensions)
	v.SetDefault("analysis.excludeGlobs", d.Analysis.ExcludeGlobs)
	v.SetDefault("cache.contentTtlSeconds", d.Cache.ContentTtlSeconds)
	v.SetDefault("cache.moduleCacheSize", d.Cache.ModuleCacheSize)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.dbPath", d.Output.DBPath)
	v.SetDefault("output.timingPath", d.Output.TimingPath)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Save writes the configuration to .nga/config.json
func (c *Config) Save(workspaceRoot string) error {
	dir := filepath.Join(workspaceRoot, ".nga")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analysis.ChunkSize <= 0 {
		return &ConfigError{Field: "analysis.chunkSize", Message: "must be positive"}
	}
	if c.Analysis.Workers < 0 {
		return &ConfigError{Field: "analysis.workers", Message: "must not be negative"}
	}
	if c.Cache.ContentTtlSeconds < 0 {
		return &ConfigError{Field: "cache.contentTtlSeconds", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	return nil
}

// SourceExtensions returns the file extensions the pipeline should analyze.
func (c *Config) SourceExtensions() []string {
	if c.Analysis.TypeScriptOnly {
		return []string{".ts"}
	}
	if len(c.Analysis.Extensions) == 0 {
		return []string{".ts", ".tsx"}
	}
	return c.Analysis.Extensions
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
