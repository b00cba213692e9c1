//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse owns the star schema the ETL loads into: one time
// dimension, one dimension per operational entity, and the sales fact
// table keyed by all of them.
package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierdata/atelier-dw/internal/logging"
)

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS dim_time (
    time_id      SERIAL PRIMARY KEY,
    full_date    DATE NOT NULL UNIQUE,
    year         INTEGER NOT NULL,
    quarter      INTEGER NOT NULL,
    month        INTEGER NOT NULL,
    month_name   VARCHAR(20) NOT NULL,
    day_of_month INTEGER NOT NULL,
    day_of_week  INTEGER NOT NULL,
    week_of_year INTEGER NOT NULL,
    is_weekend   BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_client (
    client_id           INTEGER PRIMARY KEY,
    full_name           VARCHAR(255) NOT NULL,
    client_type         VARCHAR(20) NOT NULL,
    identity_document   VARCHAR(20) NOT NULL,
    phone               VARCHAR(20) NOT NULL,
    referred_by         VARCHAR(100),
    first_purchase_date DATE NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_address (
    address_id INTEGER PRIMARY KEY,
    region     VARCHAR(100) NOT NULL,
    province   VARCHAR(255) NOT NULL,
    district   VARCHAR(255) NOT NULL,
    street     VARCHAR(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_employee (
    employee_id INTEGER PRIMARY KEY,
    full_name   VARCHAR(200) NOT NULL,
    email       VARCHAR(100) NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_supplier (
    supplier_id    INTEGER PRIMARY KEY,
    legal_name     VARCHAR(255) NOT NULL,
    representative VARCHAR(100) NOT NULL,
    phone          VARCHAR(20) NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_material (
    material_id   INTEGER PRIMARY KEY,
    name          VARCHAR(100) NOT NULL,
    category      VARCHAR(50) NOT NULL,
    base_unit     VARCHAR(20) NOT NULL,
    price         NUMERIC(10,2) NOT NULL,
    base_quantity NUMERIC(10,2) NOT NULL
);

-- One row per sellable garment-size. The key concatenates the two
-- operational ids so the fact table can reference the pair directly.
CREATE TABLE IF NOT EXISTS dim_garment (
    garment_id  VARCHAR(20) PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    description TEXT,
    design      VARCHAR(255),
    size_label  VARCHAR(10) NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_garment_material (
    garment_id  VARCHAR(20) NOT NULL REFERENCES dim_garment(garment_id),
    material_id INTEGER NOT NULL REFERENCES dim_material(material_id),
    quantity    NUMERIC(10,2) NOT NULL,
    PRIMARY KEY (garment_id, material_id)
);

CREATE TABLE IF NOT EXISTS dim_material_supplier (
    material_id INTEGER NOT NULL REFERENCES dim_material(material_id),
    supplier_id INTEGER NOT NULL REFERENCES dim_supplier(supplier_id),
    PRIMARY KEY (material_id, supplier_id)
);

CREATE TABLE IF NOT EXISTS dim_payment_method (
    payment_method_id VARCHAR(30) PRIMARY KEY,
    method            VARCHAR(50) NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_order_status (
    order_status_id SERIAL PRIMARY KEY,
    status_label    VARCHAR(50) NOT NULL,
    origin_type     VARCHAR(20) NOT NULL,
    UNIQUE (status_label, origin_type)
);

-- One row per quotation-detail line of a delivered, fully paid order.
-- supplier_id and material_id attribute cost to the first matching
-- bill-of-materials entry and stay NULL when the garment has none.
CREATE TABLE IF NOT EXISTS fact_sales (
    sales_id             SERIAL PRIMARY KEY,
    quote_time_id        INTEGER NOT NULL REFERENCES dim_time(time_id),
    issue_time_id        INTEGER NOT NULL REFERENCES dim_time(time_id),
    est_delivery_time_id INTEGER NOT NULL REFERENCES dim_time(time_id),
    delivery_time_id     INTEGER NOT NULL REFERENCES dim_time(time_id),
    payment1_time_id     INTEGER NOT NULL REFERENCES dim_time(time_id),
    payment2_time_id     INTEGER NOT NULL REFERENCES dim_time(time_id),
    client_id            INTEGER NOT NULL REFERENCES dim_client(client_id),
    employee_id          INTEGER NOT NULL REFERENCES dim_employee(employee_id),
    address_id           INTEGER NOT NULL REFERENCES dim_address(address_id),
    order_status_id      INTEGER NOT NULL REFERENCES dim_order_status(order_status_id),
    garment_id           VARCHAR(20) NOT NULL REFERENCES dim_garment(garment_id),
    payment_method_id_1  VARCHAR(30) NOT NULL REFERENCES dim_payment_method(payment_method_id),
    payment_method_id_2  VARCHAR(30) NOT NULL REFERENCES dim_payment_method(payment_method_id),
    payment1_employee_id INTEGER NOT NULL REFERENCES dim_employee(employee_id),
    payment2_employee_id INTEGER NOT NULL REFERENCES dim_employee(employee_id),
    supplier_id          INTEGER REFERENCES dim_supplier(supplier_id),
    material_id          INTEGER REFERENCES dim_material(material_id),
    quantity             INTEGER NOT NULL,
    unit_price           NUMERIC(10,2) NOT NULL,
    line_amount          NUMERIC(12,2) NOT NULL,
    material_unit_cost   NUMERIC(12,4) NOT NULL,
    gross_margin         NUMERIC(12,2) NOT NULL,
    line_share           NUMERIC(8,6) NOT NULL,
    prorated_payment_1   NUMERIC(12,2) NOT NULL,
    prorated_payment_2   NUMERIC(12,2) NOT NULL,
    days_quote_to_order  INTEGER NOT NULL,
    days_order_to_delivery INTEGER NOT NULL
);
`

// Tables in dependency order, used for dropping in reverse.
var tableNames = []string{
	"dim_time",
	"dim_client",
	"dim_address",
	"dim_employee",
	"dim_supplier",
	"dim_material",
	"dim_garment",
	"dim_garment_material",
	"dim_material_supplier",
	"dim_payment_method",
	"dim_order_status",
	"fact_sales",
}

// CreateSchema creates the star schema tables.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	logging.Debug().Msg("Creating warehouse schema")
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create warehouse schema: %w", err)
	}
	logging.Info().Int("tables", len(tableNames)).Msg("Warehouse schema created")
	return nil
}

// DropSchema removes all star schema tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	logging.Debug().Msg("Dropping warehouse schema")
	for i := len(tableNames) - 1; i >= 0; i-- {
		sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tableNames[i])
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableNames[i], err)
		}
	}
	return nil
}

// Truncate empties every warehouse table ahead of a load. Each run is a
// full refresh; there is no upsert logic, so loading into non-empty
// tables would duplicate rows or violate dimension keys.
func Truncate(ctx context.Context, pool *pgxpool.Pool) error {
	for i := len(tableNames) - 1; i >= 0; i-- {
		sql := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", tableNames[i])
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", tableNames[i], err)
		}
	}
	return nil
}
