package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neurostream/protocolengine/internal/domain/entities"
)

func TestTableState_RequestSort(t *testing.T) {
	state := entities.NewTableState()
	state.Page = 3

	state = state.RequestSort("Pulses")
	assert.Equal(t, entities.SortState{Column: "Pulses", Direction: entities.SortAscending}, state.Sort)
	assert.Equal(t, 1, state.Page)

	state = state.RequestSort("Pulses")
	assert.Equal(t, entities.SortDescending, state.Sort.Direction)

	state = state.RequestSort("Pulses")
	assert.Equal(t, entities.SortAscending, state.Sort.Direction)

	state = state.RequestSort("Pulses").RequestSort("Sessions")
	assert.Equal(t, entities.SortState{Column: "Sessions", Direction: entities.SortAscending}, state.Sort)
}

func TestTableState_WithFilterResetsPage(t *testing.T) {
	state := entities.NewTableState()
	state.Page = 2

	state = state.WithFilter(entities.FilterState{Column: "Protocol Name", Text: "alpha"})

	assert.Equal(t, 1, state.Page)
	assert.Equal(t, "alpha", state.Filter.Text)
}

func TestTableState_Paging(t *testing.T) {
	state := entities.NewTableState()

	assert.Equal(t, 2, state.NextPage(3).Page)
	assert.Equal(t, 1, state.NextPage(1).Page)
	assert.Equal(t, 1, state.NextPage(0).Page)
	assert.Equal(t, 1, state.PrevPage().Page)

	state.Page = 3
	assert.Equal(t, 3, state.NextPage(3).Page)
	assert.Equal(t, 2, state.PrevPage().Page)
}

func TestTableState_EffectivePageSize(t *testing.T) {
	assert.Equal(t, entities.DefaultPageSize, entities.TableState{}.EffectivePageSize())
	assert.Equal(t, 10, entities.TableState{PageSize: 10}.EffectivePageSize())
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, entities.ClampPage(0, 4))
	assert.Equal(t, 4, entities.ClampPage(9, 4))
	assert.Equal(t, 1, entities.ClampPage(5, 0))
	assert.Equal(t, 2, entities.ClampPage(2, 4))
}
