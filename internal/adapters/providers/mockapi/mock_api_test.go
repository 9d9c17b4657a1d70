package mockapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/protocolengine/internal/adapters/providers/mockapi"
	"github.com/neurostream/protocolengine/internal/domain/entities"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

func TestAPI_ListProtocols(t *testing.T) {
	api, err := mockapi.New()
	require.NoError(t, err)

	catalog, err := api.ListProtocols(context.Background(), "PTSD")
	require.NoError(t, err)

	require.Len(t, catalog, 5)
	assert.Equal(t, entities.ProtocolRecord{ID: "p1", Label: "Alpha Protocol (Mock)", Device: "Device A", EvidenceLevel: "High"}, catalog[0])
}

func TestAPI_CompareProtocols(t *testing.T) {
	api, err := mockapi.New()
	require.NoError(t, err)

	result, err := api.CompareProtocols(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)

	assert.Equal(t, mockapi.Columns, result.Table.Columns)
	require.Len(t, result.Table.Rows, 2)
	require.NoError(t, result.Table.Validate())

	p1 := result.Table.Rows[0]
	assert.Equal(t, "Alpha Protocol (Mock) (Mocked Data)", p1[0])
	assert.Equal(t, "Figure-8 (Mock)", p1[1])
	assert.Equal(t, "10 Hz (Mock)", p1[2])
	assert.Equal(t, 3000, p1[4])
	assert.Equal(t, 20, p1[5])
	assert.Equal(t, "Mfg A", p1[8])
	assert.Equal(t, 2021, p1[10])
	assert.Equal(t, "10.1000/mock-p1-2021", p1[11])

	p2 := result.Table.Rows[1]
	assert.Equal(t, "H-Coil (Mock)", p2[1])
	assert.Equal(t, 1800, p2[4])
	assert.Equal(t, 30, p2[5])

	assert.Contains(t, result.NarrativeMD, "## Mock Narrative for p1, p2")
	assert.Contains(t, result.NarrativeMD, "Protocol p2 might involve more sessions")
}

func TestAPI_CompareUnknownID(t *testing.T) {
	api, err := mockapi.New()
	require.NoError(t, err)

	result, err := api.CompareProtocols(context.Background(), []string{"zz"})
	require.NoError(t, err)

	row := result.Table.Rows[0]
	assert.Equal(t, "zz Name (Mocked Data)", row[0])
	assert.Equal(t, "N/A", row[6])
	assert.Equal(t, "Mfg C", row[8])
	assert.Contains(t, result.NarrativeMD, "Protocol N/A might involve")
}

func TestAPI_CompareEmptyIDs(t *testing.T) {
	api, err := mockapi.New()
	require.NoError(t, err)

	_, err = api.CompareProtocols(context.Background(), nil)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), mockapi.MessageNoIDs)
}

func TestAPI_GetDataset(t *testing.T) {
	api, err := mockapi.New()
	require.NoError(t, err)

	dataset, err := api.GetDataset(context.Background())
	require.NoError(t, err)

	assert.Len(t, dataset, 9)
	p, ok := dataset.Lookup("PTSD", "iTBS Left DLPFC")
	require.True(t, ok)
	assert.Equal(t, "20", p.Sessions)
	assert.Equal(t, 600, p.Pulses)

	dataset["PTSD"]["Intrusive Thoughts"] = entities.SymptomProtocol{Target: "mutated"}
	again, err := api.GetDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Right DLPFC", again["PTSD"]["Intrusive Thoughts"].Target)
}

func TestParse_RejectsBadFixtures(t *testing.T) {
	_, err := mockapi.Parse([]byte("catalog:\n  - id: p1\n  - id: p1\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = mockapi.Parse([]byte("catalog:\n  - label: nameless\n"))
	assert.ErrorContains(t, err, "without id")

	_, err = mockapi.Parse([]byte("catalog: ["))
	assert.Error(t, err)
}

func TestEmptyComparison(t *testing.T) {
	result := mockapi.EmptyComparison("nothing selected")

	assert.Empty(t, result.Table.Columns)
	assert.NotNil(t, result.Table.Rows)
	assert.Equal(t, "nothing selected", result.NarrativeMD)
}
