//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for atelier-dw.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for atelier-dw.
type Config struct {
	// OLTPConnection is the connection string for the operational database.
	OLTPConnection string `mapstructure:"oltp_connection"`

	// WarehouseConnection is the connection string for the star-schema
	// warehouse database.
	WarehouseConnection string `mapstructure:"warehouse_connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Seed holds configuration for the init subcommand.
	Seed SeedConfig `mapstructure:"seed"`

	// ETL holds configuration for the etl subcommand.
	ETL ETLConfig `mapstructure:"etl"`
}

// SeedConfig holds configuration for synthetic data generation.
type SeedConfig struct {
	// Quotations is the number of quotations to generate.
	Quotations int `mapstructure:"quotations"`

	// Clients is the number of clients to generate.
	Clients int `mapstructure:"clients"`

	// Employees is the number of employees to generate.
	Employees int `mapstructure:"employees"`

	// Suppliers is the number of suppliers to generate.
	Suppliers int `mapstructure:"suppliers"`

	// Materials is the number of materials to generate.
	Materials int `mapstructure:"materials"`

	// Addresses is the number of delivery addresses to generate.
	Addresses int `mapstructure:"addresses"`

	// Garments is the number of garment styles to generate.
	Garments int `mapstructure:"garments"`

	// Years is the span of business history, in years, the quotations
	// are spread over.
	Years int `mapstructure:"years"`

	// RandomSeed fixes the fake-data generator seed for reproducible
	// runs (0 = time-based seed).
	RandomSeed uint64 `mapstructure:"random_seed"`

	// DropExisting drops existing schema before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// ETLConfig holds configuration for the warehouse load.
type ETLConfig struct {
	// BatchSize is the number of rows per batch insert.
	BatchSize int `mapstructure:"batch_size"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Seed: SeedConfig{
			Quotations:   480,
			Clients:      100,
			Employees:    100,
			Suppliers:    100,
			Materials:    100,
			Addresses:    100,
			Garments:     60,
			Years:        2,
			DropExisting: false,
		},
		ETL: ETLConfig{
			BatchSize: 500,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./atelier-dw.yaml
// 3. ~/.config/atelier-dw/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("atelier-dw")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "atelier-dw"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// ValidateInit checks configuration required for the init command.
func (c *Config) ValidateInit() error {
	if c.OLTPConnection == "" {
		return fmt.Errorf("oltp connection string is required")
	}
	if c.Seed.Quotations < 1 {
		return fmt.Errorf("quotations must be at least 1")
	}
	if c.Seed.Years < 1 {
		return fmt.Errorf("years must be at least 1")
	}
	return nil
}

// ValidateInitStar checks configuration required for the init-star command.
func (c *Config) ValidateInitStar() error {
	if c.WarehouseConnection == "" {
		return fmt.Errorf("warehouse connection string is required")
	}
	return nil
}

// ValidateETL checks configuration required for the etl command.
func (c *Config) ValidateETL() error {
	if c.OLTPConnection == "" {
		return fmt.Errorf("oltp connection string is required")
	}
	if c.WarehouseConnection == "" {
		return fmt.Errorf("warehouse connection string is required")
	}
	if c.ETL.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}
