package datagen

import (
	"fmt"
	"strings"

	"github.com/atelierdata/atelier-dw/internal/logging"
)

// BatchInsertConfig configures batch insert behavior.
type BatchInsertConfig struct {
	// BatchSize is the number of rows per batch insert.
	BatchSize int

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// DefaultBatchConfig returns default batch insert configuration.
func DefaultBatchConfig() BatchInsertConfig {
	return BatchInsertConfig{
		BatchSize:        1000,
		ProgressInterval: 10000,
	}
}

// ProgressReporter tracks and reports data generation progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rowsInserted int64) {
	oldRow := p.currentRow
	p.currentRow += rowsInserted

	// Check if we crossed a progress interval
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}

// BuildInsert assembles a multi-row INSERT statement from pre-rendered
// value tuples. Callers are responsible for quoting string values with
// QuoteString.
func BuildInsert(table, columns string, values []string) string {
	return fmt.Sprintf("INSERT INTO %s %s VALUES %s", table, columns, strings.Join(values, ", "))
}

// QuoteString renders s as a SQL string literal with single quotes escaped.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteNullableString renders s as a SQL string literal, or NULL when empty.
func QuoteNullableString(s string) string {
	if s == "" {
		return "NULL"
	}
	return QuoteString(s)
}
