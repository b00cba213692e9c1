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
)

// SourceRow is one quotation-detail line joined with everything the
// fact loader needs: quotation, order, both payments, and the first
// bill-of-materials entry for the line's garment-size when one exists.
type SourceRow struct {
	GarmentID int
	SizeID    int
	Quantity  int
	UnitPrice float64

	QuoteDate  time.Time
	ClientID   int
	EmployeeID int

	OrderStatus    string
	OrderTotal     float64
	IssueDate      time.Time
	EstDelivery    time.Time
	ActualDelivery time.Time
	AddressID      int

	Payment1ID         int
	Payment1Amount     float64
	Payment1Date       time.Time
	Payment1EmployeeID int
	Payment2ID         int
	Payment2Amount     float64
	Payment2Date       time.Time
	Payment2EmployeeID int

	// Bill-of-materials attribution, nil without a matching entry.
	BOMMaterialID   *int
	BOMSupplierID   *int
	BOMPrice        *float64
	BOMBaseQuantity *float64
	BOMConsumed     *float64
}

// Inner joins on both payment sequences exclude orders with missing or
// malformed payment data entirely. The lateral join picks the first
// bill-of-materials entry for cost attribution without dropping lines
// that have none.
const extractSalesSQL = `
SELECT
    qd.garment_id, qd.size_id, qd.quantity, qd.unit_price,
    q.quote_date, q.client_id, q.employee_id,
    o.status, o.total, o.issue_date, o.est_delivery_date, o.actual_delivery_date, o.address_id,
    p1.id, p1.amount, p1.paid_date, p1.employee_id,
    p2.id, p2.amount, p2.paid_date, p2.employee_id,
    bom.material_id, bom.supplier_id, bom.price, bom.base_quantity, bom.consumed
FROM quotation_detail qd
JOIN quotation q ON q.id = qd.quotation_id AND q.status = 'APROBADA'
JOIN orders o ON o.quotation_id = q.id
JOIN payment p1 ON p1.order_id = o.id AND p1.sequence_no = 1
JOIN payment p2 ON p2.order_id = o.id AND p2.sequence_no = 2
LEFT JOIN LATERAL (
    SELECT gsm.material_id, sm.supplier_id, m.price, m.base_quantity, gsm.quantity AS consumed
    FROM garment_size_material gsm
    JOIN material m ON m.id = gsm.material_id
    JOIN supplier_material sm ON sm.material_id = gsm.material_id
    WHERE gsm.garment_id = qd.garment_id AND gsm.size_id = qd.size_id
    ORDER BY gsm.material_id, sm.supplier_id
    LIMIT 1
) bom ON true
ORDER BY qd.quotation_id, qd.garment_id, qd.size_id
`

// ExtractSalesRows runs the wide join against the operational schema and
// materializes the full row set for one fact-load pass.
func ExtractSalesRows(ctx context.Context, oltp *pgxpool.Pool) ([]SourceRow, error) {
	rows, err := oltp.Query(ctx, extractSalesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract sales rows: %w", err)
	}
	defer rows.Close()

	var out []SourceRow
	for rows.Next() {
		var r SourceRow
		err := rows.Scan(
			&r.GarmentID, &r.SizeID, &r.Quantity, &r.UnitPrice,
			&r.QuoteDate, &r.ClientID, &r.EmployeeID,
			&r.OrderStatus, &r.OrderTotal, &r.IssueDate, &r.EstDelivery, &r.ActualDelivery, &r.AddressID,
			&r.Payment1ID, &r.Payment1Amount, &r.Payment1Date, &r.Payment1EmployeeID,
			&r.Payment2ID, &r.Payment2Amount, &r.Payment2Date, &r.Payment2EmployeeID,
			&r.BOMMaterialID, &r.BOMSupplierID, &r.BOMPrice, &r.BOMBaseQuantity, &r.BOMConsumed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
