package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Analysis.ChunkSize != 10 {
		t.Errorf("ChunkSize = %d, want 10", cfg.Analysis.ChunkSize)
	}
	if !cfg.Analysis.ExcludeNodeModules {
		t.Error("ExcludeNodeModules should default to true")
	}
	if !cfg.Analysis.TypeScriptOnly {
		t.Error("TypeScriptOnly should default to true")
	}
	if cfg.Cache.ContentTtlSeconds != 300 {
		t.Errorf("ContentTtlSeconds = %d, want 300", cfg.Cache.ContentTtlSeconds)
	}
	if cfg.Output.Path != "angular-analysis.json" {
		t.Errorf("Output.Path = %q, want angular-analysis.json", cfg.Output.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Analysis.ChunkSize != 10 {
		t.Errorf("ChunkSize = %d, want default 10", cfg.Analysis.ChunkSize)
	}
}

func TestLoadConfig_File(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".nga"), 0755); err != nil {
		t.Fatal(err)
	}
	data := `{
  "version": 1,
  "projects": ["shell"],
  "analysis": {"chunkSize": 25, "typescriptOnly": false, "extensions": [".ts", ".tsx"]},
  "cache": {"contentTtlSeconds": 60}
}`
	if err := os.WriteFile(filepath.Join(root, ".nga", "config.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Analysis.ChunkSize != 25 {
		t.Errorf("ChunkSize = %d, want 25", cfg.Analysis.ChunkSize)
	}
	if cfg.Cache.ContentTtlSeconds != 60 {
		t.Errorf("ContentTtlSeconds = %d, want 60", cfg.Cache.ContentTtlSeconds)
	}
	if len(cfg.Projects) != 1 || cfg.Projects[0] != "shell" {
		t.Errorf("Projects = %v, want [shell]", cfg.Projects)
	}
	// Unset keys keep their defaults.
	if cfg.Output.Path != "angular-analysis.json" {
		t.Errorf("Output.Path = %q, want default", cfg.Output.Path)
	}
	if got := cfg.SourceExtensions(); len(got) != 2 {
		t.Errorf("SourceExtensions() = %v, want [.ts .tsx]", got)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".nga"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".nga", "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(root); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Analysis.Workers = 3

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Analysis.Workers != 3 {
		t.Errorf("Workers = %d, want 3", loaded.Analysis.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad version", func(c *Config) { c.Version = 7 }, "version"},
		{"zero chunk", func(c *Config) { c.Analysis.ChunkSize = 0 }, "analysis.chunkSize"},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }, "analysis.workers"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantErr {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantErr)
			}
		})
	}
}
