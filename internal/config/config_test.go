package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{Completion: CompletionConfig{APIKey: "sk-test"}}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8000 {
		t.Errorf("expected Port=8000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Completion.Provider != ProviderOpenAI || cfg.Completion.Model != "gpt-4" {
		t.Errorf("unexpected completion defaults: %+v", cfg.Completion)
	}
	if cfg.Completion.TimeoutSec != 30 {
		t.Errorf("expected TimeoutSec=30, got %d", cfg.Completion.TimeoutSec)
	}
	if cfg.Schema.Path != "config/facets.yaml" {
		t.Errorf("expected default schema path, got %q", cfg.Schema.Path)
	}
	if cfg.Parse.MaxBatchSize != 100 || cfg.Parse.BatchConcurrency != 4 || cfg.Parse.MaxQueryLength != 1000 {
		t.Errorf("unexpected parse defaults: %+v", cfg.Parse)
	}
}

func TestApplyDefaults_GeminiModel(t *testing.T) {
	cfg := Config{Completion: CompletionConfig{Provider: ProviderGemini}}
	cfg.ApplyDefaults()
	if cfg.Completion.Model != "gemini-2.0-flash" {
		t.Errorf("expected gemini default model, got %q", cfg.Completion.Model)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{Port: 9000, WriteTimeoutSec: 60},
		Completion: CompletionConfig{Model: "gpt-4.1-mini", TimeoutSec: 5},
		Parse:      ParseConfig{MaxBatchSize: 10, BatchConcurrency: 2},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 || cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("http overridden: %+v", cfg.HTTP)
	}
	if cfg.Completion.Model != "gpt-4.1-mini" || cfg.Completion.TimeoutSec != 5 {
		t.Errorf("completion overridden: %+v", cfg.Completion)
	}
	if cfg.Parse.MaxBatchSize != 10 || cfg.Parse.BatchConcurrency != 2 {
		t.Errorf("parse overridden: %+v", cfg.Parse)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"gemini", func(c *Config) { c.Completion.Provider = ProviderGemini }, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown provider", func(c *Config) { c.Completion.Provider = "anthropic" }, "completion.provider"},
		{"missing key", func(c *Config) { c.Completion.APIKey = "" }, "completion.api_key"},
		{"temperature", func(c *Config) { c.Completion.Temperature = 3 }, "completion.temperature"},
		{"huge batch", func(c *Config) { c.Parse.MaxBatchSize = 5000 }, "parse.max_batch_size"},
		{"concurrency above batch", func(c *Config) { c.Parse.BatchConcurrency = 200 }, "parse.batch_concurrency"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("SMARTMATCH_TEST_KEY", "sk-from-env")
	path := filepath.Join(t.TempDir(), "test.yaml")
	doc := `
http:
  port: ${SMARTMATCH_TEST_PORT:-8081}
completion:
  api_key: ${SMARTMATCH_TEST_KEY}
  model: gpt-4.1-nano
parse:
  batch_concurrency: 8
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected port from default, got %d", cfg.HTTP.Port)
	}
	if cfg.Completion.APIKey != "sk-from-env" {
		t.Errorf("expected key from env, got %q", cfg.Completion.APIKey)
	}
	if cfg.Parse.BatchConcurrency != 8 || cfg.Parse.MaxBatchSize != 100 {
		t.Errorf("unexpected parse config: %+v", cfg.Parse)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("expected local, got %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("expected prod, got %q", GetEnv())
	}
}
