//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"strings"
	"testing"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(10, 500)
		if v < 10 || v > 500 {
			t.Errorf("Int out of range: %d", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(5, 15)
		if v < 5 || v > 15 {
			t.Errorf("Float64 out of range: %f", v)
		}
	}
}

func TestFakerDigits(t *testing.T) {
	f := NewFaker()
	d := f.Digits(11)
	if len(d) != 11 {
		t.Errorf("Expected 11 digits, got %d", len(d))
	}
	for _, c := range d {
		if c < '0' || c > '9' {
			t.Errorf("Non-digit character: %c", c)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"Efectivo", "Tarjeta", "Yape", "Plin"}
	for i := 0; i < 50; i++ {
		v := Choose(f, items)
		found := false
		for _, item := range items {
			if v == item {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned unknown item: %s", v)
		}
	}

	var empty []string
	if v := Choose(f, empty); v != "" {
		t.Errorf("Choose on empty slice should return zero value, got %s", v)
	}
}

func TestChooseN(t *testing.T) {
	f := NewFaker()
	items := []int{1, 2, 3, 4, 5}

	picked := ChooseN(f, items, 3)
	if len(picked) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(picked))
	}
	seen := make(map[int]bool)
	for _, v := range picked {
		if seen[v] {
			t.Errorf("ChooseN returned duplicate: %d", v)
		}
		seen[v] = true
	}

	// Asking for more than available caps at the slice length.
	if got := ChooseN(f, items, 10); len(got) != 5 {
		t.Errorf("Expected 5 items, got %d", len(got))
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b"}
	weights := []int{1, 0}
	for i := 0; i < 20; i++ {
		if v := ChooseWeighted(f, items, weights); v != "a" {
			t.Errorf("Expected 'a' with full weight, got %s", v)
		}
	}
}

func TestShuffle(t *testing.T) {
	f := NewFakerWithSeed(7)
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	Shuffle(f, items)
	if len(items) != 8 {
		t.Fatalf("Shuffle changed length: %d", len(items))
	}
	sum := 0
	for _, v := range items {
		sum += v
	}
	if sum != 36 {
		t.Errorf("Shuffle changed contents, sum %d", sum)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Expected 'abc', got '%s'", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Errorf("Expected 'ab', got '%s'", got)
	}
}

func TestQuoteString(t *testing.T) {
	if got := QuoteString("O'Brien"); got != "'O''Brien'" {
		t.Errorf("Unexpected quoting: %s", got)
	}
	if got := QuoteNullableString(""); got != "NULL" {
		t.Errorf("Expected NULL for empty string, got %s", got)
	}
}

func TestBuildInsert(t *testing.T) {
	sql := BuildInsert("employee", "(first_name, last_name)", []string{"('Ana', 'Silva')", "('Luis', 'Rojas')"})
	if !strings.HasPrefix(sql, "INSERT INTO employee (first_name, last_name) VALUES ") {
		t.Errorf("Unexpected SQL prefix: %s", sql)
	}
	if !strings.Contains(sql, "('Ana', 'Silva'), ('Luis', 'Rojas')") {
		t.Errorf("Values not joined correctly: %s", sql)
	}
}
