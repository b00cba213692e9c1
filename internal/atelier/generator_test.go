//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package atelier

import (
	"context"
	"testing"
	"time"

	"github.com/atelierdata/atelier-dw/internal/testutil"
)

func smallConfig() Config {
	return Config{
		Quotations: 40,
		Clients:    20,
		Employees:  10,
		Suppliers:  10,
		Materials:  25,
		Addresses:  15,
		Garments:   8,
		Years:      1,
		RandomSeed: 12345,
	}
}

func TestGenerateData(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	connStr := testutil.CreateTestDB(t, baseConnStr, "seed")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))
	defer cleanup.Cleanup()

	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.SetPool(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	if err := CreateSchema(ctx, pool); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	gen := NewGenerator(smallConfig())
	if err := gen.GenerateData(ctx, pool); err != nil {
		t.Fatalf("GenerateData failed: %v", err)
	}

	counts := map[string]int{}
	for _, table := range []string{
		"address", "employee", "client", "client_person", "client_company",
		"supplier", "material", "garment", "size", "garment_size",
		"garment_size_material", "supplier_material",
		"quotation", "quotation_detail", "orders", "payment",
	} {
		var n int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		counts[table] = n
	}

	if counts["quotation"] != 40 {
		t.Errorf("quotation count = %d, want 40", counts["quotation"])
	}
	if counts["client_person"]+counts["client_company"] != counts["client"] {
		t.Errorf("client subtypes (%d + %d) do not cover clients (%d)",
			counts["client_person"], counts["client_company"], counts["client"])
	}
	if counts["quotation_detail"] < counts["quotation"] {
		t.Errorf("fewer detail lines (%d) than quotations (%d)",
			counts["quotation_detail"], counts["quotation"])
	}
	if counts["orders"] == 0 {
		t.Error("no orders generated")
	}
	if counts["payment"] != 2*counts["orders"] {
		t.Errorf("payment count = %d, want exactly two per order (%d orders)",
			counts["payment"], counts["orders"])
	}

	// Every order should have reached delivery once its payments landed.
	var undelivered int
	err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders WHERE status <> $1", OrderDelivered).Scan(&undelivered)
	if err != nil {
		t.Fatal(err)
	}
	if undelivered != 0 {
		t.Errorf("%d orders left undelivered", undelivered)
	}

	// Priced garment-sizes must cover everything sold.
	var unpriced int
	err = pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM garment_size WHERE price IS NULL").Scan(&unpriced)
	if err != nil {
		t.Fatal(err)
	}
	if unpriced != 0 {
		t.Errorf("%d garment-sizes left unpriced", unpriced)
	}

	// Quotation totals must match their detail lines.
	var mismatched int
	err = pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM quotation q
        JOIN (
            SELECT quotation_id, SUM(quantity * unit_price) AS line_total
            FROM quotation_detail GROUP BY quotation_id
        ) d ON d.quotation_id = q.id
        WHERE ABS(q.total - d.line_total) > 0.01
    `).Scan(&mismatched)
	if err != nil {
		t.Fatal(err)
	}
	if mismatched != 0 {
		t.Errorf("%d quotations have totals that disagree with their lines", mismatched)
	}
}

func TestGenerateDataReproducible(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	totals := make([]float64, 2)
	for i := range totals {
		connStr := testutil.CreateTestDB(t, baseConnStr, "seedrepro")
		cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))
		pool := testutil.ConnectTestDB(t, connStr)
		cleanup.SetPool(pool)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

		if err := CreateSchema(ctx, pool); err != nil {
			t.Fatalf("CreateSchema failed: %v", err)
		}
		if err := NewGenerator(smallConfig()).GenerateData(ctx, pool); err != nil {
			t.Fatalf("GenerateData failed: %v", err)
		}
		if err := pool.QueryRow(ctx,
			"SELECT COALESCE(SUM(total), 0) FROM quotation").Scan(&totals[i]); err != nil {
			t.Fatal(err)
		}

		cancel()
		cleanup.Cleanup()
	}

	if totals[0] != totals[1] {
		t.Errorf("same seed produced different data: %v vs %v", totals[0], totals[1])
	}
}
