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
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierdata/atelier-dw/internal/logging"
)

// originOrder tags order-status dimension rows that came from orders
// rather than quotations. The fact loader only consults this origin.
const (
	originOrder     = "PEDIDO"
	originQuotation = "COTIZACION"
)

// Resolver translates business keys from extracted source rows into
// warehouse surrogate keys. All three maps are built once before the
// first row is transformed and are read-only afterwards.
type Resolver struct {
	times    map[string]int
	statuses map[string]int
	garments map[string]string
}

// BuildResolver loads the time and order-status dimensions from the
// warehouse and the distinct garment-size pairs from the operational
// schema, and indexes all three for per-row lookup.
func BuildResolver(ctx context.Context, oltp, dw *pgxpool.Pool) (*Resolver, error) {
	r := &Resolver{
		times:    make(map[string]int),
		statuses: make(map[string]int),
		garments: make(map[string]string),
	}

	rows, err := dw.Query(ctx, "SELECT time_id, full_date FROM dim_time")
	if err != nil {
		return nil, fmt.Errorf("failed to load time dimension: %w", err)
	}
	for rows.Next() {
		var id int
		var date time.Time
		if err := rows.Scan(&id, &date); err != nil {
			rows.Close()
			return nil, err
		}
		r.times[DateKey(date)] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = dw.Query(ctx, "SELECT order_status_id, status_label, origin_type FROM dim_order_status")
	if err != nil {
		return nil, fmt.Errorf("failed to load order-status dimension: %w", err)
	}
	for rows.Next() {
		var id int
		var label, origin string
		if err := rows.Scan(&id, &label, &origin); err != nil {
			rows.Close()
			return nil, err
		}
		r.statuses[statusMapKey(label, origin)] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = oltp.Query(ctx, "SELECT DISTINCT garment_id, size_id FROM garment_size")
	if err != nil {
		return nil, fmt.Errorf("failed to load garment-size pairs: %w", err)
	}
	for rows.Next() {
		var garmentID, sizeID int
		if err := rows.Scan(&garmentID, &sizeID); err != nil {
			rows.Close()
			return nil, err
		}
		r.garments[garmentMapKey(garmentID, sizeID)] = GarmentDimKey(garmentID, sizeID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logging.Debug().
		Int("dates", len(r.times)).
		Int("statuses", len(r.statuses)).
		Int("garments", len(r.garments)).
		Msg("Resolver maps built")
	return r, nil
}

// TimeID resolves a date to its time-dimension surrogate key.
func (r *Resolver) TimeID(t time.Time) (int, bool) {
	id, ok := r.times[DateKey(t)]
	return id, ok
}

// OrderStatusID resolves an order's status label.
func (r *Resolver) OrderStatusID(label string) (int, bool) {
	id, ok := r.statuses[statusMapKey(label, originOrder)]
	return id, ok
}

// GarmentKey resolves a garment and size to the garment dimension's
// composite primary key.
func (r *Resolver) GarmentKey(garmentID, sizeID int) (string, bool) {
	key, ok := r.garments[garmentMapKey(garmentID, sizeID)]
	return key, ok
}
