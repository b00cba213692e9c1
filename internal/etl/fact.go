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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierdata/atelier-dw/internal/datagen"
	"github.com/atelierdata/atelier-dw/internal/logging"
)

const factColumns = "(quote_time_id, issue_time_id, est_delivery_time_id, delivery_time_id, " +
	"payment1_time_id, payment2_time_id, client_id, employee_id, address_id, order_status_id, " +
	"garment_id, payment_method_id_1, payment_method_id_2, " +
	"payment1_employee_id, payment2_employee_id, supplier_id, material_id, " +
	"quantity, unit_price, line_amount, material_unit_cost, gross_margin, line_share, " +
	"prorated_payment_1, prorated_payment_2, days_quote_to_order, days_order_to_delivery)"

// FactStats summarizes one fact-load pass.
type FactStats struct {
	Extracted int
	Loaded    int
	Skips     SkipCounts
}

func factValues(f FactRow) string {
	return fmt.Sprintf("(%d, %d, %d, %d, %d, %d, %d, %d, %d, %d, %s, %s, %s, %d, %d, %s, %s, "+
		"%d, %.2f, %.2f, %.4f, %.2f, %.6f, %.2f, %.2f, %d, %d)",
		f.QuoteTimeID, f.IssueTimeID, f.EstDeliveryTimeID, f.DeliveryTimeID,
		f.Payment1TimeID, f.Payment2TimeID,
		f.ClientID, f.EmployeeID, f.AddressID, f.OrderStatusID,
		datagen.QuoteString(f.GarmentKey),
		datagen.QuoteString(f.PaymentMethod1),
		datagen.QuoteString(f.PaymentMethod2),
		f.Payment1EmployeeID, f.Payment2EmployeeID,
		nullableInt(f.SupplierID),
		nullableInt(f.MaterialID),
		f.Quantity, f.UnitPrice, f.LineAmount, f.MaterialUnitCost, f.GrossMargin,
		f.LineShare, f.ProratedPayment1, f.ProratedPayment2,
		f.DaysQuoteToOrder, f.DaysOrderToDeliver)
}

func nullableInt(v *int) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%d", *v)
}

// LoadSalesFact extracts the source rows, resolves them through the
// dimension maps, and inserts the surviving fact rows in batches. A
// source with zero loadable rows is not an error, only logged.
func LoadSalesFact(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) (FactStats, error) {
	var stats FactStats

	source, err := ExtractSalesRows(ctx, oltp)
	if err != nil {
		return stats, err
	}
	stats.Extracted = len(source)

	resolver, err := BuildResolver(ctx, oltp, dw)
	if err != nil {
		return stats, err
	}
	transformer := NewTransformer(resolver)

	batch := make([]string, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := dw.Exec(ctx, datagen.BuildInsert("fact_sales", factColumns, batch)); err != nil {
			return fmt.Errorf("failed to insert fact batch: %w", err)
		}
		stats.Loaded += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, row := range source {
		fact, ok := transformer.Transform(row)
		if !ok {
			continue
		}
		batch = append(batch, factValues(fact))
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}
	stats.Skips = transformer.Skips

	if stats.Loaded == 0 {
		logging.Warn().
			Int("extracted", stats.Extracted).
			Int("skipped", stats.Skips.Total()).
			Msg("No fact rows loaded")
		return stats, nil
	}

	logging.Info().
		Int("extracted", stats.Extracted).
		Int("loaded", stats.Loaded).
		Int("skipped_time", stats.Skips.MissingTime).
		Int("skipped_status", stats.Skips.MissingStatus).
		Int("skipped_garment", stats.Skips.MissingGarment).
		Msg("Sales fact loaded")
	return stats, nil
}
