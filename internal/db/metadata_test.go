//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"testing"
	"time"

	"github.com/atelierdata/atelier-dw/internal/testutil"
)

func TestMetadataRoundTrip(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	connStr := testutil.CreateTestDB(t, baseConnStr, "meta")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))
	defer cleanup.Cleanup()

	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.SetPool(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := MetadataExists(ctx, pool)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("metadata table reported present in a fresh database")
	}

	if err := SaveMetadata(ctx, pool, "seed", map[string]string{
		"quotations": "480",
	}); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	exists, err = MetadataExists(ctx, pool)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("metadata table missing after SaveMetadata")
	}

	value, err := GetMetadataValue(ctx, pool, "seed_quotations")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if value != "480" {
		t.Errorf("seed_quotations = %q, want \"480\"", value)
	}

	// A second save of the same stage overwrites, not duplicates.
	if err := SaveMetadata(ctx, pool, "seed", map[string]string{
		"quotations": "960",
	}); err != nil {
		t.Fatalf("second SaveMetadata failed: %v", err)
	}

	all, err := GetAllMetadata(ctx, pool)
	if err != nil {
		t.Fatalf("GetAllMetadata failed: %v", err)
	}
	if all["seed_quotations"] != "960" {
		t.Errorf("seed_quotations = %q after rewrite, want \"960\"", all["seed_quotations"])
	}
	for _, key := range []string{"seed_version", "seed_at"} {
		if all[key] == "" {
			t.Errorf("missing stage key %q in %v", key, all)
		}
	}

	if err := DropMetadata(ctx, pool); err != nil {
		t.Fatalf("DropMetadata failed: %v", err)
	}
	exists, err = MetadataExists(ctx, pool)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("metadata table still present after DropMetadata")
	}
}
