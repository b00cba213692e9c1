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

func TestTimeAttributes(t *testing.T) {
	tests := []struct {
		date string
		want timeAttrs
	}{
		{
			// Saturday mid-year
			date: "2024-06-15",
			want: timeAttrs{
				year: 2024, quarter: 2, month: 6, monthName: "Junio",
				day: 15, dayOfWeek: 6, weekOfYear: 24, isWeekend: true,
			},
		},
		{
			// January 1st always lands in week 1
			date: "2024-01-01",
			want: timeAttrs{
				year: 2024, quarter: 1, month: 1, monthName: "Enero",
				day: 1, dayOfWeek: 1, weekOfYear: 1, isWeekend: false,
			},
		},
		{
			// A year starting on Sunday
			date: "2023-01-01",
			want: timeAttrs{
				year: 2023, quarter: 1, month: 1, monthName: "Enero",
				day: 1, dayOfWeek: 0, weekOfYear: 1, isWeekend: true,
			},
		},
		{
			// Fourth quarter, year end
			date: "2024-12-31",
			want: timeAttrs{
				year: 2024, quarter: 4, month: 12, monthName: "Diciembre",
				day: 31, dayOfWeek: 2, weekOfYear: 53, isWeekend: false,
			},
		},
		{
			// Quarter boundary
			date: "2024-10-01",
			want: timeAttrs{
				year: 2024, quarter: 4, month: 10, monthName: "Octubre",
				day: 1, dayOfWeek: 2, weekOfYear: 40, isWeekend: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := timeAttributes(d); got != tt.want {
				t.Errorf("timeAttributes(%s) = %+v, want %+v", tt.date, got, tt.want)
			}
		})
	}
}

func TestTimeAttributesWeekMonotonic(t *testing.T) {
	// Within one year, week numbers never decrease day over day.
	prev := 0
	for d := day(2024, 1, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		week := timeAttributes(d).weekOfYear
		if week < prev {
			t.Fatalf("week decreased at %s: %d -> %d", d.Format("2006-01-02"), prev, week)
		}
		prev = week
	}
}
