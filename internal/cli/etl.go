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

	"github.com/atelierdata/atelier-dw/internal/db"
	"github.com/atelierdata/atelier-dw/internal/etl"
	"github.com/atelierdata/atelier-dw/internal/logging"
)

var etlBatchSize int

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Load the warehouse from the operational database",
	Long: `Run the full warehouse load: dimension tables first (the time
dimension, then independent dimensions in parallel groups), then the
sales fact table. Every run is a full refresh; warehouse tables are
truncated first. The star schema must exist; run init-star once before.

Example:
  atelier-dw etl --oltp "postgres://..." --warehouse "postgres://..."`,
	RunE: runETL,
}

func init() {
	etlCmd.Flags().IntVar(&etlBatchSize, "batch-size", 0,
		"rows per fact-table insert batch (default: 500)")
}

func runETL(cmd *cobra.Command, args []string) error {
	if etlBatchSize > 0 {
		cfg.ETL.BatchSize = etlBatchSize
	}
	if err := cfg.ValidateETL(); err != nil {
		return err
	}

	ctx := context.Background()
	oltp, err := db.Connect(ctx, cfg.OLTPConnection)
	if err != nil {
		return fmt.Errorf("failed to connect to operational database: %w", err)
	}
	defer oltp.Close()

	dw, err := db.Connect(ctx, cfg.WarehouseConnection)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer dw.Close()

	// The seed stage stamps the operational database; surface it so a
	// load against the wrong database is easy to spot in the logs.
	if seeded, err := db.GetMetadataValue(ctx, oltp, "seed_at"); err == nil && seeded != "" {
		logging.Info().Str("seeded_at", seeded).Msg("Source database")
	}

	stats, err := etl.Run(ctx, oltp, dw, cfg.ETL.BatchSize)
	if err != nil {
		return err
	}

	if err := db.SaveMetadata(ctx, dw, "etl", map[string]string{
		"fact_rows": strconv.Itoa(stats.Fact.Loaded),
		"skipped":   strconv.Itoa(stats.Fact.Skips.Total()),
		"elapsed":   stats.Elapsed.String(),
	}); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Dur("elapsed", stats.Elapsed).
		Int("fact_rows", stats.Fact.Loaded).
		Int("skipped", stats.Fact.Skips.Total()).
		Msg("ETL finished")
	return nil
}
