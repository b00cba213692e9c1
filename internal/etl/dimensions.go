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

	"github.com/atelierdata/atelier-dw/internal/datagen"
	"github.com/atelierdata/atelier-dw/internal/logging"
)

var monthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

type timeAttrs struct {
	year       int
	quarter    int
	month      int
	monthName  string
	day        int
	dayOfWeek  int
	weekOfYear int
	isWeekend  bool
}

// timeAttributes derives the calendar attributes of one date. Weeks are
// counted from January 1st, partial first week included, and Sunday is
// day zero.
func timeAttributes(t time.Time) timeAttrs {
	jan1 := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	pastDays := int(t.Sub(jan1).Hours() / 24)
	week := (pastDays + int(jan1.Weekday()) + 7) / 7

	weekday := int(t.Weekday())
	return timeAttrs{
		year:       t.Year(),
		quarter:    (int(t.Month())-1)/3 + 1,
		month:      int(t.Month()),
		monthName:  monthNames[t.Month()-1],
		day:        t.Day(),
		dayOfWeek:  weekday,
		weekOfYear: week,
		isWeekend:  weekday == 0 || weekday == 6,
	}
}

// insertBatches inserts VALUES tuples into a warehouse table in
// fixed-size chunks.
func insertBatches(ctx context.Context, dw *pgxpool.Pool, table, columns string, values []string, batchSize int) error {
	for i := 0; i < len(values); i += batchSize {
		chunk := values[i:min(i+batchSize, len(values))]
		if _, err := dw.Exec(ctx, datagen.BuildInsert(table, columns, chunk)); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// LoadTimeDimension fills dim_time with one row per calendar day from
// the earliest quotation to the latest delivery or payment. It must run
// before every other loader that references time.
func LoadTimeDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	var start, end *time.Time
	err := oltp.QueryRow(ctx, `
        SELECT
            (SELECT MIN(quote_date) FROM quotation),
            GREATEST(
                (SELECT MAX(actual_delivery_date) FROM orders),
                (SELECT MAX(est_delivery_date) FROM orders),
                (SELECT MAX(paid_date) FROM payment),
                (SELECT MAX(quote_date) FROM quotation))
    `).Scan(&start, &end)
	if err != nil {
		return fmt.Errorf("failed to find date range: %w", err)
	}
	if start == nil || end == nil {
		return fmt.Errorf("no operational dates found, nothing to build the calendar from")
	}

	values := make([]string, 0, 1024)
	for d := *start; !d.After(*end); d = d.AddDate(0, 0, 1) {
		a := timeAttributes(d)
		values = append(values, fmt.Sprintf("('%s', %d, %d, %d, %s, %d, %d, %d, %t)",
			DateKey(d), a.year, a.quarter, a.month,
			datagen.QuoteString(a.monthName),
			a.day, a.dayOfWeek, a.weekOfYear, a.isWeekend))
	}

	if err := insertBatches(ctx, dw, "dim_time",
		"(full_date, year, quarter, month, month_name, day_of_month, day_of_week, week_of_year, is_weekend)",
		values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("days", len(values)).Msg("Time dimension loaded")
	return nil
}

// LoadClientDimension flattens client with its person or company subtype
// into one denormalized row per client.
func LoadClientDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx, `
        SELECT c.id,
               COALESCE(cp.first_name || ' ' || cp.last_name, cc.legal_name, '') AS full_name,
               CASE WHEN cp.client_id IS NOT NULL THEN 'NATURAL' ELSE 'JURIDICO' END,
               COALESCE(cp.national_id, cc.tax_id, ''),
               c.phone, c.referred_by, c.first_purchase_date
        FROM client c
        LEFT JOIN client_person cp ON cp.client_id = c.id
        LEFT JOIN client_company cc ON cc.client_id = c.id
        ORDER BY c.id
    `)
	if err != nil {
		return fmt.Errorf("failed to extract clients: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var id int
		var fullName, clientType, document, phone string
		var referredBy *string
		var firstPurchase time.Time
		if err := rows.Scan(&id, &fullName, &clientType, &document, &phone, &referredBy, &firstPurchase); err != nil {
			return err
		}
		referred := ""
		if referredBy != nil {
			referred = *referredBy
		}
		values = append(values, fmt.Sprintf("(%d, %s, %s, %s, %s, %s, '%s')",
			id,
			datagen.QuoteString(fullName),
			datagen.QuoteString(clientType),
			datagen.QuoteString(document),
			datagen.QuoteString(phone),
			datagen.QuoteNullableString(referred),
			DateKey(firstPurchase)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_client",
		"(client_id, full_name, client_type, identity_document, phone, referred_by, first_purchase_date)",
		values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Client dimension loaded")
	return nil
}

// LoadAddressDimension copies addresses 1:1.
func LoadAddressDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx, "SELECT id, region, province, district, street FROM address ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to extract addresses: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var id int
		var region, province, district, street string
		if err := rows.Scan(&id, &region, &province, &district, &street); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%d, %s, %s, %s, %s)",
			id,
			datagen.QuoteString(region),
			datagen.QuoteString(province),
			datagen.QuoteString(district),
			datagen.QuoteString(street)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_address",
		"(address_id, region, province, district, street)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Address dimension loaded")
	return nil
}

// LoadEmployeeDimension copies employees with names collapsed to one
// display column.
func LoadEmployeeDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx,
		"SELECT id, first_name || ' ' || last_name, email FROM employee ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to extract employees: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var id int
		var fullName, email string
		if err := rows.Scan(&id, &fullName, &email); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%d, %s, %s)",
			id, datagen.QuoteString(fullName), datagen.QuoteString(email)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_employee",
		"(employee_id, full_name, email)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Employee dimension loaded")
	return nil
}

// LoadSupplierDimension copies suppliers 1:1.
func LoadSupplierDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx,
		"SELECT id, legal_name, COALESCE(representative, ''), COALESCE(phone, '') FROM supplier ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to extract suppliers: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var id int
		var legalName, representative, phone string
		if err := rows.Scan(&id, &legalName, &representative, &phone); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%d, %s, %s, %s)",
			id,
			datagen.QuoteString(legalName),
			datagen.QuoteString(representative),
			datagen.QuoteString(phone)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_supplier",
		"(supplier_id, legal_name, representative, phone)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Supplier dimension loaded")
	return nil
}

// LoadMaterialDimension copies materials 1:1.
func LoadMaterialDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx,
		"SELECT id, name, category, base_unit, price, base_quantity FROM material ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to extract materials: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var id int
		var name, category, baseUnit string
		var price, baseQuantity float64
		if err := rows.Scan(&id, &name, &category, &baseUnit, &price, &baseQuantity); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%d, %s, %s, %s, %.2f, %.2f)",
			id,
			datagen.QuoteString(name),
			datagen.QuoteString(category),
			datagen.QuoteString(baseUnit),
			price, baseQuantity))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_material",
		"(material_id, name, category, base_unit, price, base_quantity)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Material dimension loaded")
	return nil
}

// LoadGarmentDimension builds one dimension row per sellable
// garment-size pair, keyed by the composite string key.
func LoadGarmentDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx, `
        SELECT gs.garment_id, gs.size_id, g.name,
               COALESCE(g.description, ''), COALESCE(g.design, ''), s.label
        FROM garment_size gs
        JOIN garment g ON g.id = gs.garment_id
        JOIN size s ON s.id = gs.size_id
        ORDER BY gs.garment_id, gs.size_id
    `)
	if err != nil {
		return fmt.Errorf("failed to extract garment sizes: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var garmentID, sizeID int
		var name, description, design, label string
		if err := rows.Scan(&garmentID, &sizeID, &name, &description, &design, &label); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%s, %s, %s, %s, %s)",
			datagen.QuoteString(GarmentDimKey(garmentID, sizeID)),
			datagen.QuoteString(name),
			datagen.QuoteString(description),
			datagen.QuoteString(design),
			datagen.QuoteString(label)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_garment",
		"(garment_id, name, description, design, size_label)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Garment dimension loaded")
	return nil
}

// LoadGarmentMaterialDimension carries the bill of materials over, with
// the garment side re-keyed to the composite dimension key.
func LoadGarmentMaterialDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx, `
        SELECT garment_id, size_id, material_id, quantity
        FROM garment_size_material
        ORDER BY garment_id, size_id, material_id
    `)
	if err != nil {
		return fmt.Errorf("failed to extract bill of materials: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var garmentID, sizeID, materialID int
		var quantity float64
		if err := rows.Scan(&garmentID, &sizeID, &materialID, &quantity); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%s, %d, %.2f)",
			datagen.QuoteString(GarmentDimKey(garmentID, sizeID)), materialID, quantity))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_garment_material",
		"(garment_id, material_id, quantity)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Garment-material dimension loaded")
	return nil
}

// LoadMaterialSupplierDimension copies the supplier sourcing links.
func LoadMaterialSupplierDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx,
		"SELECT material_id, supplier_id FROM supplier_material ORDER BY material_id, supplier_id")
	if err != nil {
		return fmt.Errorf("failed to extract supplier links: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var materialID, supplierID int
		if err := rows.Scan(&materialID, &supplierID); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%d, %d)", materialID, supplierID))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_material_supplier",
		"(material_id, supplier_id)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Material-supplier dimension loaded")
	return nil
}

// LoadPaymentMethodDimension builds one row per payment record, keyed by
// the payment's id and sequence number with the method as its label.
func LoadPaymentMethodDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx, "SELECT id, method, sequence_no FROM payment ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to extract payment methods: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var (
			id, seq int
			method  string
		)
		if err := rows.Scan(&id, &method, &seq); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%s, %s)",
			datagen.QuoteString(PaymentMethodKey(id, seq)),
			datagen.QuoteString(method)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_payment_method",
		"(payment_method_id, method)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Payment-method dimension loaded")
	return nil
}

// LoadOrderStatusDimension collects the distinct status labels from both
// orders and quotations, tagged with their origin.
func LoadOrderStatusDimension(ctx context.Context, oltp, dw *pgxpool.Pool, batchSize int) error {
	rows, err := oltp.Query(ctx, `
        SELECT DISTINCT status, 'PEDIDO' FROM orders
        UNION
        SELECT DISTINCT status, 'COTIZACION' FROM quotation
        ORDER BY 2, 1
    `)
	if err != nil {
		return fmt.Errorf("failed to extract statuses: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var label, origin string
		if err := rows.Scan(&label, &origin); err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("(%s, %s)",
			datagen.QuoteString(label), datagen.QuoteString(origin)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := insertBatches(ctx, dw, "dim_order_status",
		"(status_label, origin_type)", values, batchSize); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Order-status dimension loaded")
	return nil
}
