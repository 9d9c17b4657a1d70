package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neurostream/protocolengine/internal/domain/entities"
)

func TestPatientSelection_Age(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"70", 70, true},
		{" 66 years", 66, true},
		{"", 0, false},
		{"seventy", 0, false},
		{"-5", 0, false},
	}

	for _, tt := range tests {
		s := entities.NewPatientSelection()
		s.Fields[entities.FieldAge] = tt.raw

		age, ok := s.Age()

		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, age, tt.raw)
	}
}

func TestPatientSelection_CloneIsDeep(t *testing.T) {
	s := entities.NewPatientSelection()
	s.Symptoms = []string{"Anhedonia"}
	s.Fields[entities.FieldAge] = "40"

	c := s.Clone()
	c.Symptoms[0] = "mutated"
	c.Fields[entities.FieldAge] = "99"

	assert.Equal(t, "Anhedonia", s.Symptoms[0])
	assert.Equal(t, "40", s.Field(entities.FieldAge))
}

func TestUniqueValues(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, entities.UniqueValues([]string{" a", "", "b", "a "}))
	assert.Equal(t, []string{}, entities.UniqueValues(nil))
}

func TestComparisonTable_Validate(t *testing.T) {
	table := entities.ComparisonTable{
		Columns: []string{"a", "b"},
		Rows:    []entities.Row{{1, "x"}, {nil, nil}},
	}
	assert.NoError(t, table.Validate())
	assert.Equal(t, 1, table.ColumnIndex("b"))
	assert.Equal(t, -1, table.ColumnIndex(""))
	assert.False(t, table.IsEmpty())

	table.Rows = append(table.Rows, entities.Row{"short"})
	assert.ErrorContains(t, table.Validate(), "row 2 has 1 cells, want 2")
}

func TestProtocolDataset_Lookup(t *testing.T) {
	dataset := entities.ProtocolDataset{
		"PTSD": {"Intrusive Thoughts": {Target: "Right DLPFC", References: []string{"ref"}}},
	}

	p, ok := dataset.Lookup("PTSD", "Intrusive Thoughts")
	assert.True(t, ok)
	p.References[0] = "mutated"
	assert.Equal(t, "ref", dataset["PTSD"]["Intrusive Thoughts"].References[0])

	_, ok = dataset.Lookup("PTSD", "Hyperarousal")
	assert.False(t, ok)
	assert.False(t, dataset.HasDiagnosis(""))
	assert.False(t, entities.ProtocolDataset(nil).HasDiagnosis("PTSD"))
}
