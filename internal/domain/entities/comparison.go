package entities

import (
	"fmt"
	"slices"
)

// MaxComparedProtocols is the maximum number of protocols in one comparison
const MaxComparedProtocols = 4

// Row is one table row; cells are aligned to ComparisonTable.Columns by index.
// Cells hold strings, numbers or nil.
type Row []any

// ComparisonTable is the tabular part of a comparison result
type ComparisonTable struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"data"`
}

// ColumnIndex returns the index of a column or -1 when unknown
func (t ComparisonTable) ColumnIndex(column string) int {
	if column == "" {
		return -1
	}
	return slices.Index(t.Columns, column)
}

// Validate checks that every row has exactly one cell per column
func (t ComparisonTable) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// IsEmpty reports whether the table has no rows
func (t ComparisonTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ComparisonRequest is the body of the compare endpoint
type ComparisonRequest struct {
	IDs []string `json:"ids"`
}

// ComparisonResult is the response of the compare endpoint
type ComparisonResult struct {
	Table       ComparisonTable `json:"table"`
	NarrativeMD string          `json:"narrative_md"`
	LitChunks   []any           `json:"lit_chunks,omitempty"`
}
