package services

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/neurostream/protocolengine/internal/domain/entities"
)

// DeriveTableView filters, sorts and paginates a comparison table.
//
// The filter runs before the sort. Nil cells sort first ascending and last
// descending, numbers sort before text and compare numerically, and text
// compares as English-collated strings. The source table is never modified and the
// result depends only on (table, state).
func DeriveTableView(table entities.ComparisonTable, state entities.TableState) entities.TableView {
	rows := FilterRows(table, state.Filter)
	SortRows(table, rows, state.Sort)

	pageSize := state.EffectivePageSize()
	total := len(rows)
	totalPages := max((total+pageSize-1)/pageSize, 1)
	page := entities.ClampPage(state.Page, totalPages)

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	state.Page = page
	state.PageSize = pageSize

	return entities.TableView{
		Columns:      slices.Clone(table.Columns),
		Rows:         rows[start:end:end],
		FilteredRows: rows,
		TotalRows:    total,
		Page:         page,
		TotalPages:   totalPages,
		State:        state,
	}
}

// FilterRows returns copies of the rows whose filter-column cell contains the
// filter text, ignoring case. An empty text or unknown column keeps every row.
func FilterRows(table entities.ComparisonTable, filter entities.FilterState) []entities.Row {
	out := make([]entities.Row, 0, len(table.Rows))
	idx := table.ColumnIndex(filter.Column)
	if filter.Text == "" || idx < 0 {
		for _, row := range table.Rows {
			out = append(out, slices.Clone(row))
		}
		return out
	}

	folder := cases.Fold()
	needle := folder.String(filter.Text)
	for _, row := range table.Rows {
		if idx >= len(row) {
			continue
		}
		if strings.Contains(folder.String(FormatCell(row[idx])), needle) {
			out = append(out, slices.Clone(row))
		}
	}
	return out
}

// SortRows stable-sorts rows in place by the sort column. An inactive sort or
// unknown column leaves the order unchanged.
func SortRows(table entities.ComparisonTable, rows []entities.Row, sort entities.SortState) {
	if !sort.Active() {
		return
	}
	idx := table.ColumnIndex(sort.Column)
	if idx < 0 {
		return
	}

	collator := collate.New(language.English)
	descending := sort.Direction == entities.SortDescending
	slices.SortStableFunc(rows, func(a, b entities.Row) int {
		c := CompareCells(cellAt(a, idx), cellAt(b, idx), collator)
		if descending {
			return -c
		}
		return c
	})
}

// CompareCells orders two cells ascending: nil first, then numbers compared
// numerically, then text by collation with byte order as the tiebreak.
// Cells of different kinds compare by kind alone, which keeps the order total
// on columns that mix numbers and text.
func CompareCells(a, b any, collator *collate.Collator) int {
	fa, ka := cellKind(a)
	fb, kb := cellKind(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindNil:
		return 0
	case kindNumber:
		return cmp.Compare(fa, fb)
	}

	sa, sb := FormatCell(a), FormatCell(b)
	if collator != nil {
		if c := collator.CompareString(sa, sb); c != 0 {
			return c
		}
	}
	return strings.Compare(sa, sb)
}

const (
	kindNil = iota
	kindNumber
	kindText
)

func cellKind(v any) (float64, int) {
	if v == nil {
		return 0, kindNil
	}
	if f, ok := numericValue(v); ok {
		return f, kindNumber
	}
	return 0, kindText
}

// FormatCell renders a cell for display, filtering and export
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}

func cellAt(row entities.Row, idx int) any {
	if idx >= len(row) {
		return nil
	}
	return row[idx]
}

func numericValue(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
