//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package etl transforms the operational schema into the star schema:
// dimension loads first, then the sales fact load, which resolves
// surrogate keys through in-memory maps built from the dimensions.
package etl

import (
	"fmt"
	"time"
)

// Several dimensions use composite string keys. The same construction
// functions are used when loading the dimension and when resolving a
// fact row against it, so the two sides cannot drift.

// GarmentDimKey is the primary key of the garment dimension, combining
// a garment and a size into one sellable item.
func GarmentDimKey(garmentID, sizeID int) string {
	return fmt.Sprintf("%d-%d", garmentID, sizeID)
}

// garmentMapKey indexes the resolver's garment map.
func garmentMapKey(garmentID, sizeID int) string {
	return fmt.Sprintf("%d_%d", garmentID, sizeID)
}

// statusMapKey indexes the resolver's order-status map by label and
// origin ("PEDIDO" for orders, "COTIZACION" for quotations).
func statusMapKey(label, origin string) string {
	return label + "_" + origin
}

// PaymentMethodKey is the primary key of the payment-method dimension,
// one per payment record. It is constructed, never resolved: both the
// dimension load and the fact loader derive it directly from the
// payment's id and sequence number.
func PaymentMethodKey(paymentID, sequence int) string {
	return fmt.Sprintf("%d-%d", paymentID, sequence)
}

// DateKey normalizes a date to the canonical form indexing the time map.
// Source values may arrive as dates or datetimes; both collapse to the
// same day key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
