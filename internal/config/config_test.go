package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	// Check default values
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}

	// Seed defaults
	if cfg.Seed.Quotations != 480 {
		t.Errorf("Expected Seed.Quotations 480, got %d", cfg.Seed.Quotations)
	}
	if cfg.Seed.Clients != 100 {
		t.Errorf("Expected Seed.Clients 100, got %d", cfg.Seed.Clients)
	}
	if cfg.Seed.Years != 2 {
		t.Errorf("Expected Seed.Years 2, got %d", cfg.Seed.Years)
	}
	if cfg.Seed.DropExisting != false {
		t.Error("Expected Seed.DropExisting false")
	}

	// ETL defaults
	if cfg.ETL.BatchSize != 500 {
		t.Errorf("Expected ETL.BatchSize 500, got %d", cfg.ETL.BatchSize)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	// Run from an empty directory so no atelier-dw.yaml is picked up.
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(oldWd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ETL.BatchSize != 500 {
		t.Errorf("Expected default batch size 500, got %d", cfg.ETL.BatchSize)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atelier-dw.yaml")

	content := []byte(`
oltp_connection: "postgres://app@localhost:5432/atelier"
warehouse_connection: "postgres://app@localhost:5432/atelier_dw"
log_level: debug
seed:
  quotations: 120
  years: 1
etl:
  batch_size: 250
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OLTPConnection != "postgres://app@localhost:5432/atelier" {
		t.Errorf("Unexpected OLTPConnection: %s", cfg.OLTPConnection)
	}
	if cfg.WarehouseConnection != "postgres://app@localhost:5432/atelier_dw" {
		t.Errorf("Unexpected WarehouseConnection: %s", cfg.WarehouseConnection)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.Seed.Quotations != 120 {
		t.Errorf("Expected 120 quotations, got %d", cfg.Seed.Quotations)
	}
	if cfg.Seed.Years != 1 {
		t.Errorf("Expected 1 year, got %d", cfg.Seed.Years)
	}
	if cfg.ETL.BatchSize != 250 {
		t.Errorf("Expected batch size 250, got %d", cfg.ETL.BatchSize)
	}
	// Values absent from the file keep their defaults.
	if cfg.Seed.Clients != 100 {
		t.Errorf("Expected default 100 clients, got %d", cfg.Seed.Clients)
	}
}

func TestValidateInit(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateInit(); err == nil {
		t.Error("Expected error for missing oltp connection")
	}

	cfg.OLTPConnection = "postgres://localhost/atelier"
	if err := cfg.ValidateInit(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	cfg.Seed.Quotations = 0
	if err := cfg.ValidateInit(); err == nil {
		t.Error("Expected error for zero quotations")
	}
}

func TestValidateETL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OLTPConnection = "postgres://localhost/atelier"
	if err := cfg.ValidateETL(); err == nil {
		t.Error("Expected error for missing warehouse connection")
	}

	cfg.WarehouseConnection = "postgres://localhost/atelier_dw"
	if err := cfg.ValidateETL(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	cfg.ETL.BatchSize = 0
	if err := cfg.ValidateETL(); err == nil {
		t.Error("Expected error for zero batch size")
	}
}
