//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atelierdata/atelier-dw/internal/atelier"
	"github.com/atelierdata/atelier-dw/internal/db"
	"github.com/atelierdata/atelier-dw/internal/logging"
)

var (
	initQuotations   int
	initClients      int
	initGarments     int
	initYears        int
	initRandomSeed   uint64
	initDropExisting bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the operational database with schema and seed data",
	Long: `Initialize the operational PostgreSQL database with the garment
workshop schema and populate it with synthetic business data: clients,
suppliers, materials, garments, quotations, orders and payments.

Example:
  atelier-dw init --quotations 480 --oltp "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().IntVar(&initQuotations, "quotations", 0,
		"number of quotations to generate (default: 480)")
	initCmd.Flags().IntVar(&initClients, "clients", 0,
		"number of clients to generate (default: 100)")
	initCmd.Flags().IntVar(&initGarments, "garments", 0,
		"number of garment styles to generate (default: 60)")
	initCmd.Flags().IntVar(&initYears, "years", 0,
		"years of business history to spread quotations over (default: 2)")
	initCmd.Flags().Uint64Var(&initRandomSeed, "seed", 0,
		"random seed for reproducible data (default: time-based)")
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing schema before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initQuotations > 0 {
		cfg.Seed.Quotations = initQuotations
	}
	if initClients > 0 {
		cfg.Seed.Clients = initClients
	}
	if initGarments > 0 {
		cfg.Seed.Garments = initGarments
	}
	if initYears > 0 {
		cfg.Seed.Years = initYears
	}
	if initRandomSeed != 0 {
		cfg.Seed.RandomSeed = initRandomSeed
	}
	if initDropExisting {
		cfg.Seed.DropExisting = true
	}

	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	logging.Info().
		Int("quotations", cfg.Seed.Quotations).
		Int("years", cfg.Seed.Years).
		Msg("Initializing operational database")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.OLTPConnection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if exists, err := db.MetadataExists(ctx, pool); err == nil && exists {
		if !cfg.Seed.DropExisting {
			return fmt.Errorf("database is already initialized; use --drop-existing to reinitialize")
		}
	}

	if cfg.Seed.DropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := atelier.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := atelier.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	generator := atelier.NewGenerator(atelier.Config{
		Quotations: cfg.Seed.Quotations,
		Clients:    cfg.Seed.Clients,
		Employees:  cfg.Seed.Employees,
		Suppliers:  cfg.Seed.Suppliers,
		Materials:  cfg.Seed.Materials,
		Addresses:  cfg.Seed.Addresses,
		Garments:   cfg.Seed.Garments,
		Years:      cfg.Seed.Years,
		RandomSeed: cfg.Seed.RandomSeed,
	})
	if err := generator.GenerateData(ctx, pool); err != nil {
		return fmt.Errorf("failed to generate data: %w", err)
	}

	if err := db.SaveMetadata(ctx, pool, "seed", map[string]string{
		"quotations": strconv.Itoa(cfg.Seed.Quotations),
		"years":      strconv.Itoa(cfg.Seed.Years),
	}); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().Msg("Initialization complete")
	return nil
}
