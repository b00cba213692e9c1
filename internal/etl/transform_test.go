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
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testResolver covers the dates and keys the test rows reference.
func testResolver() *Resolver {
	times := make(map[string]int)
	id := 1
	for d := day(2024, 6, 1); !d.After(day(2024, 12, 31)); d = d.AddDate(0, 0, 1) {
		times[DateKey(d)] = id
		id++
	}
	return &Resolver{
		times: times,
		statuses: map[string]int{
			"Entregado_PEDIDO":     5,
			"En Producción_PEDIDO": 6,
			"APROBADA_COTIZACION":  9,
		},
		garments: map[string]string{"3_7": "3-7", "4_2": "4-2"},
	}
}

// baseRow is a fully resolvable single-line order.
func baseRow() SourceRow {
	return SourceRow{
		GarmentID: 3, SizeID: 7, Quantity: 10, UnitPrice: 25.00,
		QuoteDate: day(2024, 6, 15), ClientID: 11, EmployeeID: 21,
		OrderStatus: "Entregado", OrderTotal: 250.00,
		IssueDate: day(2024, 6, 18), EstDelivery: day(2024, 8, 1),
		ActualDelivery: day(2024, 8, 3), AddressID: 31,
		Payment1ID: 501, Payment1Amount: 125.00, Payment1Date: day(2024, 6, 18), Payment1EmployeeID: 22,
		Payment2ID: 502, Payment2Amount: 125.00, Payment2Date: day(2024, 8, 3), Payment2EmployeeID: 23,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTransformSingleLineOrder(t *testing.T) {
	tr := NewTransformer(testResolver())

	f, ok := tr.Transform(baseRow())
	if !ok {
		t.Fatalf("row was skipped: %+v", tr.Skips)
	}

	if !almostEqual(f.LineAmount, 250.00) {
		t.Errorf("LineAmount = %v, want 250.00", f.LineAmount)
	}
	if !almostEqual(f.LineShare, 1.0) {
		t.Errorf("LineShare = %v, want 1.0", f.LineShare)
	}
	if !almostEqual(f.ProratedPayment1, 125.00) || !almostEqual(f.ProratedPayment2, 125.00) {
		t.Errorf("prorated payments = %v, %v, want 125.00 each", f.ProratedPayment1, f.ProratedPayment2)
	}
	if f.GarmentKey != "3-7" {
		t.Errorf("GarmentKey = %q, want \"3-7\"", f.GarmentKey)
	}
	if f.OrderStatusID != 5 {
		t.Errorf("OrderStatusID = %d, want 5", f.OrderStatusID)
	}
	if f.PaymentMethod1 != "501-1" || f.PaymentMethod2 != "502-2" {
		t.Errorf("payment method keys = %q, %q, want \"501-1\", \"502-2\"", f.PaymentMethod1, f.PaymentMethod2)
	}
	if f.Payment1EmployeeID != 22 || f.Payment2EmployeeID != 23 {
		t.Errorf("payment employee ids = %d, %d, want 22, 23", f.Payment1EmployeeID, f.Payment2EmployeeID)
	}
	if f.DaysQuoteToOrder != 3 {
		t.Errorf("DaysQuoteToOrder = %d, want 3", f.DaysQuoteToOrder)
	}
	if f.DaysOrderToDeliver != 46 {
		t.Errorf("DaysOrderToDeliver = %d, want 46", f.DaysOrderToDeliver)
	}
	if f.SupplierID != nil || f.MaterialID != nil {
		t.Error("cost attribution keys should be nil without a bill-of-materials entry")
	}
	if !almostEqual(f.MaterialUnitCost, 0) {
		t.Errorf("MaterialUnitCost = %v, want 0", f.MaterialUnitCost)
	}
	if !almostEqual(f.GrossMargin, 250.00) {
		t.Errorf("GrossMargin = %v, want 250.00 with zero cost", f.GrossMargin)
	}
}

func TestTransformPaymentKeysPerPayment(t *testing.T) {
	tr := NewTransformer(testResolver())

	// Two orders paid with the same method still map to their own
	// payment records, so their keys must not collide.
	order1 := baseRow()
	order2 := baseRow()
	order2.Payment1ID, order2.Payment2ID = 601, 602

	f1, ok := tr.Transform(order1)
	if !ok {
		t.Fatal("order 1 skipped")
	}
	f2, ok := tr.Transform(order2)
	if !ok {
		t.Fatal("order 2 skipped")
	}

	if f1.PaymentMethod1 == f2.PaymentMethod1 {
		t.Errorf("first-payment keys collide across orders: %q", f1.PaymentMethod1)
	}
	if f1.PaymentMethod2 == f2.PaymentMethod2 {
		t.Errorf("second-payment keys collide across orders: %q", f1.PaymentMethod2)
	}
	if f2.PaymentMethod1 != "601-1" || f2.PaymentMethod2 != "602-2" {
		t.Errorf("payment method keys = %q, %q, want \"601-1\", \"602-2\"",
			f2.PaymentMethod1, f2.PaymentMethod2)
	}
}

func TestTransformMaterialCost(t *testing.T) {
	tr := NewTransformer(testResolver())

	row := baseRow()
	materialID, supplierID := 14, 6
	price, baseQty, consumed := 100.00, 50.00, 2.00
	row.BOMMaterialID = &materialID
	row.BOMSupplierID = &supplierID
	row.BOMPrice = &price
	row.BOMBaseQuantity = &baseQty
	row.BOMConsumed = &consumed

	f, ok := tr.Transform(row)
	if !ok {
		t.Fatalf("row was skipped: %+v", tr.Skips)
	}

	if !almostEqual(f.MaterialUnitCost, 4.00) {
		t.Errorf("MaterialUnitCost = %v, want 4.00", f.MaterialUnitCost)
	}
	if !almostEqual(f.GrossMargin, 250.00-4.00*10) {
		t.Errorf("GrossMargin = %v, want 210.00", f.GrossMargin)
	}
	if f.MaterialID == nil || *f.MaterialID != 14 {
		t.Errorf("MaterialID = %v, want 14", f.MaterialID)
	}
	if f.SupplierID == nil || *f.SupplierID != 6 {
		t.Errorf("SupplierID = %v, want 6", f.SupplierID)
	}
}

func TestTransformSkipReasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SourceRow)
		check  func(SkipCounts) int
	}{
		{
			name:   "quote date outside time dimension",
			mutate: func(r *SourceRow) { r.QuoteDate = day(2023, 1, 1) },
			check:  func(s SkipCounts) int { return s.MissingTime },
		},
		{
			name:   "payment date outside time dimension",
			mutate: func(r *SourceRow) { r.Payment2Date = day(2025, 3, 1) },
			check:  func(s SkipCounts) int { return s.MissingTime },
		},
		{
			name:   "unknown order status",
			mutate: func(r *SourceRow) { r.OrderStatus = "Anulado" },
			check:  func(s SkipCounts) int { return s.MissingStatus },
		},
		{
			name:   "unknown garment-size pair",
			mutate: func(r *SourceRow) { r.GarmentID = 99 },
			check:  func(s SkipCounts) int { return s.MissingGarment },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransformer(testResolver())
			row := baseRow()
			tt.mutate(&row)

			if _, ok := tr.Transform(row); ok {
				t.Fatal("expected row to be skipped")
			}
			if got := tt.check(tr.Skips); got != 1 {
				t.Errorf("skip counter = %d, want 1 (%+v)", got, tr.Skips)
			}
			if tr.Skips.Total() != 1 {
				t.Errorf("Total() = %d, want 1", tr.Skips.Total())
			}
		})
	}
}

func TestTransformProrationAcrossLines(t *testing.T) {
	tr := NewTransformer(testResolver())

	// One order worth 250.00 split over two lines: 150.00 and 100.00.
	line1 := baseRow()
	line1.Quantity = 6 // 6 * 25.00 = 150.00

	line2 := baseRow()
	line2.GarmentID, line2.SizeID = 4, 2
	line2.Quantity, line2.UnitPrice = 4, 25.00 // 100.00

	f1, ok := tr.Transform(line1)
	if !ok {
		t.Fatal("line 1 skipped")
	}
	f2, ok := tr.Transform(line2)
	if !ok {
		t.Fatal("line 2 skipped")
	}

	if !almostEqual(f1.LineShare, 0.6) || !almostEqual(f2.LineShare, 0.4) {
		t.Errorf("line shares = %v, %v, want 0.6, 0.4", f1.LineShare, f2.LineShare)
	}
	if !almostEqual(f1.LineShare+f2.LineShare, 1.0) {
		t.Errorf("line shares sum to %v, want 1.0", f1.LineShare+f2.LineShare)
	}
	// Prorated payments across the order's lines rebuild each payment.
	if !almostEqual(f1.ProratedPayment1+f2.ProratedPayment1, 125.00) {
		t.Errorf("prorated first payments sum to %v, want 125.00",
			f1.ProratedPayment1+f2.ProratedPayment1)
	}
	if !almostEqual(f1.ProratedPayment2+f2.ProratedPayment2, 125.00) {
		t.Errorf("prorated second payments sum to %v, want 125.00",
			f1.ProratedPayment2+f2.ProratedPayment2)
	}
}

func TestWholeDays(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want int
	}{
		{day(2024, 6, 15), day(2024, 6, 18), 3},
		{day(2024, 6, 15), day(2024, 6, 15), 0},
		// Inconsistent source dates stay negative, no clamping.
		{day(2024, 6, 18), day(2024, 6, 15), -3},
		{day(2024, 12, 30), day(2025, 1, 2), 3},
		// Datetime components do not change the day difference.
		{time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC), time.Date(2024, 6, 16, 1, 0, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		if got := wholeDays(tt.a, tt.b); got != tt.want {
			t.Errorf("wholeDays(%s, %s) = %d, want %d",
				tt.a.Format("2006-01-02"), tt.b.Format("2006-01-02"), got, tt.want)
		}
	}
}
