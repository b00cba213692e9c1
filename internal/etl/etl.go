//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package etl

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/atelierdata/atelier-dw/internal/logging"
	"github.com/atelierdata/atelier-dw/internal/warehouse"
)

// Stats summarizes a full pipeline run.
type Stats struct {
	Fact    FactStats
	Elapsed time.Duration
}

type dimLoader func(context.Context, *pgxpool.Pool, *pgxpool.Pool, int) error

// Run executes the full pipeline as a full refresh: truncate the
// warehouse, load the time dimension, then the independent dimensions
// in parallel groups, then the sales fact load, which needs every
// dimension fully populated.
func Run(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) (Stats, error) {
	started := time.Now()
	logging.Info().Int("batch_size", batchSize).Msg("Starting warehouse load")

	if err := warehouse.Truncate(ctx, dw); err != nil {
		return Stats{}, err
	}

	if err := LoadTimeDimension(ctx, oltp, dw, batchSize); err != nil {
		return Stats{}, err
	}

	// Entity dimensions write disjoint tables and read only operational
	// data, so each group runs concurrently.
	groups := [][]dimLoader{
		{
			LoadClientDimension,
			LoadEmployeeDimension,
			LoadAddressDimension,
			LoadSupplierDimension,
			LoadMaterialDimension,
		},
		{
			LoadGarmentDimension,
			LoadPaymentMethodDimension,
			LoadOrderStatusDimension,
		},
		// These reference dim_garment, dim_material and dim_supplier,
		// so they run after the groups above.
		{
			LoadGarmentMaterialDimension,
			LoadMaterialSupplierDimension,
		},
	}

	for _, group := range groups {
		g, gctx := errgroup.WithContext(ctx)
		for _, load := range group {
			g.Go(func() error {
				return load(gctx, oltp, dw, batchSize)
			})
		}
		if err := g.Wait(); err != nil {
			return Stats{}, err
		}
	}

	factStats, err := LoadSalesFact(ctx, oltp, dw, batchSize)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Fact: factStats, Elapsed: time.Since(started)}
	logging.Info().
		Dur("elapsed", stats.Elapsed).
		Int("fact_rows", stats.Fact.Loaded).
		Msg("Warehouse load complete")
	return stats, nil
}
