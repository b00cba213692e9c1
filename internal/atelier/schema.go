//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package atelier implements the operational (OLTP) schema of a
// made-to-order garment workshop and its synthetic data generator.
package atelier

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for creating the operational database schema.
const createSchemaSQL = `
-- Delivery addresses
CREATE TABLE IF NOT EXISTS address (
    id          SERIAL PRIMARY KEY,
    region      VARCHAR(255) NOT NULL,
    province    VARCHAR(255) NOT NULL,
    district    VARCHAR(255) NOT NULL,
    street      VARCHAR(255) NOT NULL
);

-- Sales and cashier staff
CREATE TABLE IF NOT EXISTS employee (
    id          SERIAL PRIMARY KEY,
    first_name  VARCHAR(100) NOT NULL,
    last_name   VARCHAR(100) NOT NULL,
    email       VARCHAR(100) UNIQUE NOT NULL
);

-- Clients, subtyped into natural persons and legal entities
CREATE TABLE IF NOT EXISTS client (
    id                   SERIAL PRIMARY KEY,
    phone                VARCHAR(20) NOT NULL,
    notes                TEXT,
    referred_by          VARCHAR(100),
    first_purchase_date  DATE NOT NULL
);

CREATE TABLE IF NOT EXISTS client_person (
    national_id  VARCHAR(20) PRIMARY KEY,
    first_name   VARCHAR(100) NOT NULL,
    last_name    VARCHAR(100) NOT NULL,
    client_id    INTEGER NOT NULL REFERENCES client(id)
);

CREATE TABLE IF NOT EXISTS client_company (
    tax_id      VARCHAR(20) PRIMARY KEY,
    legal_name  VARCHAR(255) NOT NULL,
    delegate    VARCHAR(100),
    client_id   INTEGER NOT NULL REFERENCES client(id)
);

-- Raw material suppliers
CREATE TABLE IF NOT EXISTS supplier (
    id             SERIAL PRIMARY KEY,
    tax_id         VARCHAR(11),
    legal_name     VARCHAR(255) NOT NULL,
    representative VARCHAR(100),
    phone          VARCHAR(20)
);

-- Materials, priced per base_quantity of base_unit
CREATE TABLE IF NOT EXISTS material (
    id            SERIAL PRIMARY KEY,
    name          VARCHAR(100) NOT NULL,
    category      VARCHAR(100),
    price         NUMERIC(10,2) NOT NULL,
    base_unit     VARCHAR(20) NOT NULL,
    base_quantity NUMERIC(10,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS supplier_material (
    supplier_id INTEGER NOT NULL REFERENCES supplier(id),
    material_id INTEGER NOT NULL REFERENCES material(id),
    PRIMARY KEY (supplier_id, material_id)
);

-- Garment catalog
CREATE TABLE IF NOT EXISTS garment (
    id          SERIAL PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    description TEXT,
    design      VARCHAR(255)
);

CREATE TABLE IF NOT EXISTS size (
    id    SERIAL PRIMARY KEY,
    label VARCHAR(30) NOT NULL
);

-- Sellable combinations; price is derived from the bill of materials
CREATE TABLE IF NOT EXISTS garment_size (
    garment_id INTEGER NOT NULL REFERENCES garment(id),
    size_id    INTEGER NOT NULL REFERENCES size(id),
    price      NUMERIC(10,2),
    PRIMARY KEY (garment_id, size_id)
);

-- Bill of materials: material consumption per garment-size
CREATE TABLE IF NOT EXISTS garment_size_material (
    garment_id  INTEGER NOT NULL,
    size_id     INTEGER NOT NULL,
    material_id INTEGER NOT NULL REFERENCES material(id),
    quantity    NUMERIC(10,2) NOT NULL,
    PRIMARY KEY (garment_id, size_id, material_id),
    FOREIGN KEY (garment_id, size_id) REFERENCES garment_size(garment_id, size_id)
);

-- Quotations issued to clients by sales employees
CREATE TABLE IF NOT EXISTS quotation (
    id          SERIAL PRIMARY KEY,
    quote_date  DATE NOT NULL,
    total       NUMERIC(10,2) NOT NULL,
    status      VARCHAR(50) NOT NULL,
    client_id   INTEGER NOT NULL REFERENCES client(id),
    employee_id INTEGER NOT NULL REFERENCES employee(id)
);

CREATE TABLE IF NOT EXISTS quotation_detail (
    quotation_id INTEGER NOT NULL REFERENCES quotation(id),
    garment_id   INTEGER NOT NULL,
    size_id      INTEGER NOT NULL,
    quantity     INTEGER NOT NULL,
    unit_price   NUMERIC(10,2) NOT NULL,
    PRIMARY KEY (quotation_id, garment_id, size_id),
    FOREIGN KEY (garment_id, size_id) REFERENCES garment_size(garment_id, size_id)
);

-- Orders derived from approved quotations
CREATE TABLE IF NOT EXISTS orders (
    id                   SERIAL PRIMARY KEY,
    courtesy             BOOLEAN NOT NULL DEFAULT FALSE,
    total                NUMERIC(10,2) NOT NULL,
    status               VARCHAR(50) NOT NULL,
    issue_date           DATE NOT NULL,
    est_delivery_date    DATE NOT NULL,
    actual_delivery_date DATE NOT NULL,
    quotation_id         INTEGER NOT NULL REFERENCES quotation(id),
    address_id           INTEGER NOT NULL REFERENCES address(id)
);

-- Two payments per paid order: advance (sequence 1) and settlement (sequence 2)
CREATE TABLE IF NOT EXISTS payment (
    id          SERIAL PRIMARY KEY,
    paid_date   DATE NOT NULL,
    amount      NUMERIC(10,2) NOT NULL,
    kind        VARCHAR(50) NOT NULL,
    method      VARCHAR(50) NOT NULL,
    sequence_no SMALLINT NOT NULL,
    order_id    INTEGER NOT NULL REFERENCES orders(id),
    employee_id INTEGER NOT NULL REFERENCES employee(id)
);
`

// Tables in dependency order, used for dropping in reverse.
var tableNames = []string{
	"address",
	"employee",
	"client",
	"client_person",
	"client_company",
	"supplier",
	"material",
	"supplier_material",
	"garment",
	"size",
	"garment_size",
	"garment_size_material",
	"quotation",
	"quotation_detail",
	"orders",
	"payment",
}

// CreateSchema creates the operational schema.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema drops all operational tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i := len(tableNames) - 1; i >= 0; i-- {
		sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tableNames[i])
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableNames[i], err)
		}
	}
	return nil
}
