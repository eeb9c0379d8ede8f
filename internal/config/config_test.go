package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 0},
		Engine: EngineConfig{Addresses: []string{"http://localhost:9200"}},
		Auth:   AuthConfig{Secret: "test-secret"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingEngineAddresses(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Engine: EngineConfig{Addresses: []string{}},
		Auth:   AuthConfig{Secret: "test-secret"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing engine addresses")
	}
}

func TestValidate_MissingAuthSecret(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Engine: EngineConfig{Addresses: []string{"http://localhost:9200"}},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing auth secret")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Engine.IndexName != "docsift_documents" {
		t.Errorf("expected IndexName='docsift_documents', got %q", cfg.Engine.IndexName)
	}
	if cfg.Engine.RequestTimeoutSec != 5 {
		t.Errorf("expected RequestTimeoutSec=5, got %d", cfg.Engine.RequestTimeoutSec)
	}
	if cfg.Database.Path != "docsift.db" {
		t.Errorf("expected Path='docsift.db', got %q", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTLMin != 30 {
		t.Errorf("expected TokenTTLMin=30, got %d", cfg.Auth.TokenTTLMin)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("expected MaxRequests=100, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowSec != 60 {
		t.Errorf("expected WindowSec=60, got %d", cfg.RateLimit.WindowSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Engine:    EngineConfig{IndexName: "custom_docs", RequestTimeoutSec: 15},
		Auth:      AuthConfig{TokenTTLMin: 120},
		RateLimit: RateLimitConfig{MaxRequests: 5, WindowSec: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Engine.IndexName != "custom_docs" {
		t.Errorf("expected IndexName='custom_docs', got %q", cfg.Engine.IndexName)
	}
	if cfg.Auth.TokenTTLMin != 120 {
		t.Errorf("expected TokenTTLMin=120, got %d", cfg.Auth.TokenTTLMin)
	}
	if cfg.RateLimit.MaxRequests != 5 {
		t.Errorf("expected MaxRequests=5, got %d", cfg.RateLimit.MaxRequests)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DOCSIFT_TEST_SECRET", "s3cret")

	in := []byte("secret: ${DOCSIFT_TEST_SECRET}\npath: ${DOCSIFT_TEST_UNSET:-fallback.db}\n")
	got := string(expandEnvVars(in))
	want := "secret: s3cret\npath: fallback.db\n"
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 8080
engine:
  addresses: ["http://localhost:9200"]
auth:
  secret: ${DOCSIFT_TEST_LOAD_SECRET:-file-secret}
`
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("secret = %q, want file-secret", cfg.Auth.Secret)
	}
	if cfg.Engine.IndexName != "docsift_documents" {
		t.Errorf("defaults not applied: IndexName = %q", cfg.Engine.IndexName)
	}
}
