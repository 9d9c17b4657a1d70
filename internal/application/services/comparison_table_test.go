package services_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
)

func sampleTable() entities.ComparisonTable {
	return entities.ComparisonTable{
		Columns: []string{"Protocol Name", "Pulses", "Evidence"},
		Rows: []entities.Row{
			{"Beta", json.Number("3000"), "Medium"},
			{"alpha", json.Number("600"), nil},
			{"Gamma", "1200", "High"},
			{"Delta", nil, "Low"},
		},
	}
}

func columnValues(rows []entities.Row, idx int) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, row[idx])
	}
	return out
}

func TestDeriveTableView_Unsorted(t *testing.T) {
	table := sampleTable()

	view := services.DeriveTableView(table, entities.NewTableState())

	assert.Equal(t, table.Columns, view.Columns)
	assert.Equal(t, 4, view.TotalRows)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, table.Rows, view.Rows)
}

func TestDeriveTableView_SortNumericAscendingNilsFirst(t *testing.T) {
	state := entities.NewTableState().RequestSort("Pulses")

	view := services.DeriveTableView(sampleTable(), state)

	want := []any{nil, json.Number("600"), "1200", json.Number("3000")}
	if diff := cmp.Diff(want, columnValues(view.Rows, 1)); diff != "" {
		t.Errorf("pulses mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveTableView_SortDescendingIsReverseOfAscending(t *testing.T) {
	table := sampleTable()
	asc := entities.NewTableState().RequestSort("Protocol Name")
	desc := asc.RequestSort("Protocol Name")
	require.Equal(t, entities.SortDescending, desc.Sort.Direction)

	ascView := services.DeriveTableView(table, asc)
	descView := services.DeriveTableView(table, desc)

	assert.Equal(t, []any{"alpha", "Beta", "Delta", "Gamma"}, columnValues(ascView.Rows, 0))
	assert.Equal(t, []any{"Gamma", "Delta", "Beta", "alpha"}, columnValues(descView.Rows, 0))
}

func TestDeriveTableView_MixedColumnOrdersNumbersBeforeText(t *testing.T) {
	table := entities.ComparisonTable{Columns: []string{"Sessions"}}
	for _, v := range []any{"2", "10", "1a", "b", nil, 3} {
		table.Rows = append(table.Rows, entities.Row{v})
	}
	asc := entities.NewTableState().RequestSort("Sessions")
	desc := asc.RequestSort("Sessions")

	ascValues := columnValues(services.DeriveTableView(table, asc).Rows, 0)
	descValues := columnValues(services.DeriveTableView(table, desc).Rows, 0)

	want := []any{nil, "2", 3, "10", "1a", "b"}
	if diff := cmp.Diff(want, ascValues); diff != "" {
		t.Errorf("ascending mismatch (-want +got):\n%s", diff)
	}
	reversed := slices.Clone(ascValues)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, descValues)
}

func TestDeriveTableView_SortDescendingNilsLast(t *testing.T) {
	state := entities.NewTableState().RequestSort("Evidence").RequestSort("Evidence")

	view := services.DeriveTableView(sampleTable(), state)

	assert.Equal(t, []any{"Medium", "Low", "High", nil}, columnValues(view.Rows, 2))
}

func TestDeriveTableView_FilterIsCaseInsensitiveSubset(t *testing.T) {
	table := sampleTable()
	state := entities.NewTableState().WithFilter(entities.FilterState{Column: "Protocol Name", Text: "A"})

	view := services.DeriveTableView(table, state)

	assert.Equal(t, 4, view.TotalRows)

	state = state.WithFilter(entities.FilterState{Column: "Protocol Name", Text: "ALP"})
	view = services.DeriveTableView(table, state)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "alpha", view.Rows[0][0])
	assert.Subset(t, table.Rows, view.Rows)
}

func TestDeriveTableView_FilterNoMatch(t *testing.T) {
	state := entities.NewTableState().WithFilter(entities.FilterState{Column: "Evidence", Text: "none"})

	view := services.DeriveTableView(sampleTable(), state)

	assert.Empty(t, view.Rows)
	assert.Equal(t, 0, view.TotalRows)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 1, view.Page)
}

func TestDeriveTableView_FilterUnknownColumnKeepsAll(t *testing.T) {
	state := entities.NewTableState().WithFilter(entities.FilterState{Column: "Missing", Text: "x"})

	view := services.DeriveTableView(sampleTable(), state)

	assert.Equal(t, 4, view.TotalRows)
}

func TestDeriveTableView_PaginationClamps(t *testing.T) {
	table := entities.ComparisonTable{Columns: []string{"n"}}
	for i := range 12 {
		table.Rows = append(table.Rows, entities.Row{i})
	}

	state := entities.NewTableState()
	state.Page = 9
	view := services.DeriveTableView(table, state)

	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 3, view.State.Page)
	assert.Equal(t, []entities.Row{{10}, {11}}, view.Rows)

	view = services.DeriveTableView(table, view.State.PrevPage())
	assert.Equal(t, 2, view.Page)
	assert.Len(t, view.Rows, entities.DefaultPageSize)
}

func TestDeriveTableView_DoesNotModifySource(t *testing.T) {
	table := sampleTable()
	original := sampleTable()

	view := services.DeriveTableView(table, entities.NewTableState().RequestSort("Protocol Name"))
	view.Rows[0][0] = "mutated"

	assert.Equal(t, original, table)
}

func TestCompareCells(t *testing.T) {
	assert.Equal(t, 0, services.CompareCells(nil, nil, nil))
	assert.Equal(t, -1, services.CompareCells(nil, "a", nil))
	assert.Equal(t, 1, services.CompareCells(2, nil, nil))
	assert.Equal(t, -1, services.CompareCells(json.Number("9"), "10", nil))
	assert.Equal(t, 1, services.CompareCells("b", "a", nil))
	assert.Equal(t, -1, services.CompareCells(10, "1a", nil))
	assert.Equal(t, 1, services.CompareCells("1a", 2, nil))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", services.FormatCell(nil))
	assert.Equal(t, "3000", services.FormatCell(json.Number("3000")))
	assert.Equal(t, "1.5", services.FormatCell(1.5))
	assert.Equal(t, "2023", services.FormatCell(2023))
	assert.Equal(t, "text", services.FormatCell("text"))
}
