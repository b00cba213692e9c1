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

	"github.com/spf13/cobra"

	"github.com/atelierdata/atelier-dw/internal/db"
	"github.com/atelierdata/atelier-dw/internal/logging"
	"github.com/atelierdata/atelier-dw/internal/warehouse"
)

var initStarCmd = &cobra.Command{
	Use:   "init-star",
	Short: "Initialize the warehouse database with the star schema",
	Long: `Create the star-schema tables in the warehouse database: the time
dimension, one dimension per operational entity, and the sales fact
table. Existing warehouse tables are dropped first, since every ETL run
is a full refresh.

Example:
  atelier-dw init-star --warehouse "postgres://..."`,
	RunE: runInitStar,
}

func runInitStar(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateInitStar(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.WarehouseConnection)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	logging.Info().Msg("Dropping existing warehouse schema")
	if err := warehouse.DropSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to drop warehouse schema: %w", err)
	}

	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create warehouse schema: %w", err)
	}

	logging.Info().Msg("Warehouse initialization complete")
	return nil
}
