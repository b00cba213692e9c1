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
	"time"
)

// FactRow is one fully resolved fact_sales record, ready for insertion.
type FactRow struct {
	QuoteTimeID       int
	IssueTimeID       int
	EstDeliveryTimeID int
	DeliveryTimeID    int
	Payment1TimeID    int
	Payment2TimeID    int

	ClientID           int
	EmployeeID         int
	AddressID          int
	OrderStatusID      int
	GarmentKey         string
	PaymentMethod1     string
	PaymentMethod2     string
	Payment1EmployeeID int
	Payment2EmployeeID int
	SupplierID         *int
	MaterialID         *int

	Quantity           int
	UnitPrice          float64
	LineAmount         float64
	MaterialUnitCost   float64
	GrossMargin        float64
	LineShare          float64
	ProratedPayment1   float64
	ProratedPayment2   float64
	DaysQuoteToOrder   int
	DaysOrderToDeliver int
}

// SkipCounts tallies rows dropped during transformation, by reason.
type SkipCounts struct {
	MissingTime    int
	MissingStatus  int
	MissingGarment int
}

// Total is the number of rows skipped for any reason.
func (s SkipCounts) Total() int {
	return s.MissingTime + s.MissingStatus + s.MissingGarment
}

// Transformer converts extracted source rows into fact rows, resolving
// all surrogate keys up front. Rows that fail any dimension lookup are
// dropped and counted, never loaded with nulls.
type Transformer struct {
	resolver *Resolver
	Skips    SkipCounts
}

// NewTransformer creates a transformer over the given resolver.
func NewTransformer(resolver *Resolver) *Transformer {
	return &Transformer{resolver: resolver}
}

// Transform builds a fact row from one source row. The second return
// value is false when the row was skipped.
func (t *Transformer) Transform(row SourceRow) (FactRow, bool) {
	var f FactRow
	var ok bool

	for _, ref := range []struct {
		date time.Time
		dst  *int
	}{
		{row.QuoteDate, &f.QuoteTimeID},
		{row.IssueDate, &f.IssueTimeID},
		{row.EstDelivery, &f.EstDeliveryTimeID},
		{row.ActualDelivery, &f.DeliveryTimeID},
		{row.Payment1Date, &f.Payment1TimeID},
		{row.Payment2Date, &f.Payment2TimeID},
	} {
		if *ref.dst, ok = t.resolver.TimeID(ref.date); !ok {
			t.Skips.MissingTime++
			return FactRow{}, false
		}
	}

	if f.OrderStatusID, ok = t.resolver.OrderStatusID(row.OrderStatus); !ok {
		t.Skips.MissingStatus++
		return FactRow{}, false
	}
	if f.GarmentKey, ok = t.resolver.GarmentKey(row.GarmentID, row.SizeID); !ok {
		t.Skips.MissingGarment++
		return FactRow{}, false
	}

	f.ClientID = row.ClientID
	f.EmployeeID = row.EmployeeID
	f.AddressID = row.AddressID
	f.SupplierID = row.BOMSupplierID
	f.MaterialID = row.BOMMaterialID
	f.PaymentMethod1 = PaymentMethodKey(row.Payment1ID, 1)
	f.PaymentMethod2 = PaymentMethodKey(row.Payment2ID, 2)
	f.Payment1EmployeeID = row.Payment1EmployeeID
	f.Payment2EmployeeID = row.Payment2EmployeeID

	f.Quantity = row.Quantity
	f.UnitPrice = row.UnitPrice
	f.LineAmount = float64(row.Quantity) * row.UnitPrice

	// Per-unit material cost from the first bill-of-materials entry,
	// zero when the garment-size has none.
	if row.BOMPrice != nil && row.BOMBaseQuantity != nil && row.BOMConsumed != nil && *row.BOMBaseQuantity != 0 {
		f.MaterialUnitCost = *row.BOMPrice / *row.BOMBaseQuantity * *row.BOMConsumed
	}
	f.GrossMargin = f.LineAmount - f.MaterialUnitCost*float64(row.Quantity)

	// Payments are recorded per order, so spread them across the order's
	// lines in proportion to each line's share of the order value.
	if row.OrderTotal != 0 {
		f.LineShare = f.LineAmount / row.OrderTotal
	}
	f.ProratedPayment1 = row.Payment1Amount * f.LineShare
	f.ProratedPayment2 = row.Payment2Amount * f.LineShare

	f.DaysQuoteToOrder = wholeDays(row.QuoteDate, row.IssueDate)
	f.DaysOrderToDeliver = wholeDays(row.IssueDate, row.ActualDelivery)

	return f, true
}

// wholeDays is the day difference from a to b. Negative when the source
// dates are inconsistent, no clamping.
func wholeDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
