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
	"testing"
	"time"
)

func TestGarmentDimKey(t *testing.T) {
	if got := GarmentDimKey(3, 7); got != "3-7" {
		t.Errorf("GarmentDimKey(3, 7) = %q, want \"3-7\"", got)
	}
	if got := garmentMapKey(3, 7); got != "3_7" {
		t.Errorf("garmentMapKey(3, 7) = %q, want \"3_7\"", got)
	}
}

func TestPaymentMethodKey(t *testing.T) {
	tests := []struct {
		paymentID int
		sequence  int
		want      string
	}{
		{101, 1, "101-1"},
		{102, 2, "102-2"},
		{7, 1, "7-1"},
	}
	for _, tt := range tests {
		if got := PaymentMethodKey(tt.paymentID, tt.sequence); got != tt.want {
			t.Errorf("PaymentMethodKey(%d, %d) = %q, want %q", tt.paymentID, tt.sequence, got, tt.want)
		}
	}
}

func TestDateKeyNormalizesDatetimes(t *testing.T) {
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	datetime := time.Date(2024, 6, 15, 17, 42, 3, 0, time.UTC)

	if DateKey(date) != "2024-06-15" {
		t.Errorf("DateKey(date) = %q, want \"2024-06-15\"", DateKey(date))
	}
	if DateKey(date) != DateKey(datetime) {
		t.Errorf("date and datetime on the same day produced different keys: %q vs %q",
			DateKey(date), DateKey(datetime))
	}
}

func TestStatusMapKey(t *testing.T) {
	if got := statusMapKey("Entregado", originOrder); got != "Entregado_PEDIDO" {
		t.Errorf("statusMapKey = %q, want \"Entregado_PEDIDO\"", got)
	}
	if got := statusMapKey("APROBADA", originQuotation); got != "APROBADA_COTIZACION" {
		t.Errorf("statusMapKey = %q, want \"APROBADA_COTIZACION\"", got)
	}
}

func TestResolverLookups(t *testing.T) {
	r := &Resolver{
		times:    map[string]int{"2024-06-15": 42},
		statuses: map[string]int{"Entregado_PEDIDO": 5, "APROBADA_COTIZACION": 9},
		garments: map[string]string{"3_7": "3-7"},
	}

	if id, ok := r.TimeID(time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC)); !ok || id != 42 {
		t.Errorf("TimeID = (%d, %t), want (42, true)", id, ok)
	}
	if _, ok := r.TimeID(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)); ok {
		t.Error("TimeID resolved a date outside the dimension")
	}

	if id, ok := r.OrderStatusID("Entregado"); !ok || id != 5 {
		t.Errorf("OrderStatusID = (%d, %t), want (5, true)", id, ok)
	}
	// Quotation-origin entries must not satisfy order-status lookups.
	if _, ok := r.OrderStatusID("APROBADA"); ok {
		t.Error("OrderStatusID resolved a quotation-origin status")
	}

	if key, ok := r.GarmentKey(3, 7); !ok || key != "3-7" {
		t.Errorf("GarmentKey = (%q, %t), want (\"3-7\", true)", key, ok)
	}
	if _, ok := r.GarmentKey(7, 3); ok {
		t.Error("GarmentKey resolved an unknown pair")
	}
}
