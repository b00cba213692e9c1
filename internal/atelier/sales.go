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
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierdata/atelier-dw/internal/datagen"
	"github.com/atelierdata/atelier-dw/internal/logging"
)

const dateFormat = "2006-01-02"

// sellable is one garment-size combination with its list price.
type sellable struct {
	garmentID int
	sizeID    int
	price     float64
}

func (g *Generator) loadSellables(ctx context.Context, pool *pgxpool.Pool) ([]sellable, error) {
	rows, err := pool.Query(ctx,
		"SELECT garment_id, size_id, price FROM garment_size WHERE price IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sellable
	for rows.Next() {
		var s sellable
		if err := rows.Scan(&s.garmentID, &s.sizeID, &s.price); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (g *Generator) generateQuotations(ctx context.Context, pool *pgxpool.Pool) error {
	clientRows, err := pool.Query(ctx, "SELECT id FROM client")
	if err != nil {
		return err
	}
	clientIDs, err := scanInts(clientRows)
	if err != nil {
		return err
	}
	employeeRows, err := pool.Query(ctx, "SELECT id FROM employee")
	if err != nil {
		return err
	}
	employeeIDs, err := scanInts(employeeRows)
	if err != nil {
		return err
	}
	sellables, err := g.loadSellables(ctx, pool)
	if err != nil {
		return err
	}
	if len(clientIDs) == 0 || len(employeeIDs) == 0 || len(sellables) == 0 {
		return fmt.Errorf("quotations need clients, employees and priced garment sizes")
	}

	end := time.Now()
	start := end.AddDate(-g.cfg.Years, 0, 0)

	progress := datagen.NewProgressReporter("quotations", int64(g.cfg.Quotations), g.batch.ProgressInterval)
	detailValues := make([]string, 0, g.cfg.Quotations*4)
	approved := 0

	for i := 0; i < g.cfg.Quotations; i++ {
		status := QuotationApproved
		if g.faker.Chance(0.05) {
			status = QuotationRejected
		} else {
			approved++
		}
		quoteDate := g.faker.DateRange(start, end)

		// Cycle through clients first so every client has at least one
		// quotation, then pick freely.
		clientID := datagen.Choose(g.faker, clientIDs)
		if i < len(clientIDs) {
			clientID = clientIDs[i]
		}

		lines := datagen.ChooseN(g.faker, sellables, g.faker.Int(1, 8))
		type pendingDetail struct {
			s   sellable
			qty int
		}
		total := 0.0
		pending := make([]pendingDetail, 0, len(lines))
		for _, line := range lines {
			qty := g.faker.Int(10, 500)
			pending = append(pending, pendingDetail{s: line, qty: qty})
			total += float64(qty) * line.price
		}

		var quotationID int
		err := pool.QueryRow(ctx, `
            INSERT INTO quotation (quote_date, total, status, client_id, employee_id)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id
        `, quoteDate.Format(dateFormat), total, status,
			clientID, datagen.Choose(g.faker, employeeIDs),
		).Scan(&quotationID)
		if err != nil {
			return err
		}

		for _, p := range pending {
			detailValues = append(detailValues, fmt.Sprintf("(%d, %d, %d, %d, %.2f)",
				quotationID, p.s.garmentID, p.s.sizeID, p.qty, p.s.price))
		}
		progress.Update(1)
	}

	for i := 0; i < len(detailValues); i += g.batch.BatchSize {
		chunk := detailValues[i:min(i+g.batch.BatchSize, len(detailValues))]
		_, err := pool.Exec(ctx, datagen.BuildInsert("quotation_detail",
			"(quotation_id, garment_id, size_id, quantity, unit_price)", chunk))
		if err != nil {
			return err
		}
	}
	progress.Done()

	logging.Info().
		Int("quotations", g.cfg.Quotations).
		Int("approved", approved).
		Int("detail_lines", len(detailValues)).
		Msg("Quotations inserted")
	return nil
}

func (g *Generator) generateOrders(ctx context.Context, pool *pgxpool.Pool) error {
	addressRows, err := pool.Query(ctx, "SELECT id FROM address")
	if err != nil {
		return err
	}
	addressIDs, err := scanInts(addressRows)
	if err != nil {
		return err
	}
	if len(addressIDs) == 0 {
		return fmt.Errorf("orders need delivery addresses")
	}

	rows, err := pool.Query(ctx, `
        SELECT q.id, q.quote_date, q.total, COALESCE(SUM(qd.quantity), 0)
        FROM quotation q
        LEFT JOIN quotation_detail qd ON qd.quotation_id = q.id
        WHERE q.status = $1
        GROUP BY q.id
        ORDER BY q.id
    `, QuotationApproved)
	if err != nil {
		return err
	}
	defer rows.Close()

	values := make([]string, 0, 512)
	for rows.Next() {
		var quotationID, totalQty int
		var quoteDate time.Time
		var total float64
		if err := rows.Scan(&quotationID, &quoteDate, &total, &totalQty); err != nil {
			return err
		}

		// Orders of thirty garments or more include courtesy pieces.
		courtesy := totalQty >= 30

		issueDate := quoteDate.AddDate(0, 0, g.faker.Int(0, 7))
		estDelivery := issueDate.AddDate(0, 0, 7*g.faker.Int(4, 16))
		actualDelivery := estDelivery
		if g.faker.Chance(0.2) {
			actualDelivery = estDelivery.AddDate(0, 0, g.faker.Int(1, 5))
		} else {
			actualDelivery = estDelivery.AddDate(0, 0, -g.faker.Int(0, 2))
		}

		values = append(values, fmt.Sprintf("(%t, %.2f, %s, '%s', '%s', '%s', %d, %d)",
			courtesy, total,
			datagen.QuoteString(OrderInProduction),
			issueDate.Format(dateFormat),
			estDelivery.Format(dateFormat),
			actualDelivery.Format(dateFormat),
			quotationID,
			datagen.Choose(g.faker, addressIDs),
		))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := 0; i < len(values); i += g.batch.BatchSize {
		chunk := values[i:min(i+g.batch.BatchSize, len(values))]
		_, err := pool.Exec(ctx, datagen.BuildInsert("orders",
			"(courtesy, total, status, issue_date, est_delivery_date, actual_delivery_date, quotation_id, address_id)",
			chunk))
		if err != nil {
			return err
		}
	}

	logging.Info().Int("rows", len(values)).Msg("Orders inserted")
	return nil
}

func (g *Generator) generatePayments(ctx context.Context, pool *pgxpool.Pool) error {
	employeeRows, err := pool.Query(ctx, "SELECT id FROM employee")
	if err != nil {
		return err
	}
	employeeIDs, err := scanInts(employeeRows)
	if err != nil {
		return err
	}

	rows, err := pool.Query(ctx, `
        SELECT id, total, issue_date, actual_delivery_date
        FROM orders
        WHERE status = $1
        ORDER BY id
    `, OrderInProduction)
	if err != nil {
		return err
	}
	defer rows.Close()

	values := make([]string, 0, 1024)
	for rows.Next() {
		var orderID int
		var total float64
		var issueDate, deliveryDate time.Time
		if err := rows.Scan(&orderID, &total, &issueDate, &deliveryDate); err != nil {
			return err
		}

		// Half on signing, half on delivery, both through the same
		// channel. Cash dominates, wallets trail. Whichever cashier is
		// on shift records each payment.
		method := datagen.ChooseWeighted(g.faker, paymentMethods, paymentMethodWeights)
		advance := total / 2

		values = append(values, fmt.Sprintf("('%s', %.2f, %s, %s, 1, %d, %d)",
			issueDate.Format(dateFormat), advance,
			datagen.QuoteString(paymentAdvance),
			datagen.QuoteString(method),
			orderID, datagen.Choose(g.faker, employeeIDs)))
		values = append(values, fmt.Sprintf("('%s', %.2f, %s, %s, 2, %d, %d)",
			deliveryDate.Format(dateFormat), total-advance,
			datagen.QuoteString(paymentSettlement),
			datagen.QuoteString(method),
			orderID, datagen.Choose(g.faker, employeeIDs)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := 0; i < len(values); i += g.batch.BatchSize {
		chunk := values[i:min(i+g.batch.BatchSize, len(values))]
		_, err := pool.Exec(ctx, datagen.BuildInsert("payment",
			"(paid_date, amount, kind, method, sequence_no, order_id, employee_id)", chunk))
		if err != nil {
			return err
		}
	}

	// Fully paid orders have been delivered.
	tag, err := pool.Exec(ctx,
		"UPDATE orders SET status = $1 WHERE status = $2", OrderDelivered, OrderInProduction)
	if err != nil {
		return err
	}

	logging.Info().
		Int("payments", len(values)).
		Int64("delivered", tag.RowsAffected()).
		Msg("Payments inserted")
	return nil
}
