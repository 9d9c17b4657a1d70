package export_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/protocolengine/internal/adapters/export"
	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
)

func wideTable(rows int) entities.ComparisonTable {
	table := entities.ComparisonTable{Columns: []string{"Protocol Name", "Pulses/Session", "Notes"}}
	for i := range rows {
		table.Rows = append(table.Rows, entities.Row{
			fmt.Sprintf("Protocol %02d", i),
			3000 - i,
			strings.Repeat("long note ", 8),
		})
	}
	return table
}

func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("<</Type /Page\n"))
}

func TestPDFExporter_Export(t *testing.T) {
	view := services.DeriveTableView(wideTable(3), entities.NewTableState())

	var buf bytes.Buffer
	err := export.NewPDFExporter("").Export(&buf, view, "## Narrative\n- **bold** point")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 1, pageCount(buf.Bytes()))
}

func TestPDFExporter_ExportsEveryFilteredRow(t *testing.T) {
	view := services.DeriveTableView(wideTable(80), entities.NewTableState())
	require.Len(t, view.Rows, entities.DefaultPageSize)

	var buf bytes.Buffer
	require.NoError(t, export.NewPDFExporter("Comparison").Export(&buf, view, ""))

	assert.Greater(t, pageCount(buf.Bytes()), 1)
}

func TestPDFExporter_EmptyTable(t *testing.T) {
	view := services.DeriveTableView(entities.ComparisonTable{}, entities.NewTableState())

	var buf bytes.Buffer
	require.NoError(t, export.NewPDFExporter("Comparison").Export(&buf, view, ""))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFExporter_ExportRecommendations(t *testing.T) {
	selection := entities.NewPatientSelection()
	selection.Diagnosis = "PTSD"
	selection.Symptoms = []string{"Intrusive Thoughts", "Hyperarousal"}

	recs := []entities.Recommendation{
		{
			Symptom:     "Intrusive Thoughts",
			Status:      entities.RecommendationMatched,
			Protocol:    &entities.SymptomProtocol{Target: "Right DLPFC", Frequency: "1 Hz", Pulses: 1200, References: []string{"Osuch et al., 2009"}},
			Adjustments: []string{"Review contraindications: Pregnancy before proceeding."},
		},
		{
			Symptom: "Hyperarousal",
			Status:  entities.RecommendationNoSymptomProtocol,
			Message: services.MessageNoSymptomProtocol,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.NewPDFExporter("TMS Protocol Recommendations").ExportRecommendations(&buf, selection, recs))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderTable(t *testing.T) {
	state := entities.NewTableState().RequestSort("Pulses/Session").RequestSort("Pulses/Session")
	view := services.DeriveTableView(wideTable(7), state)

	out := export.RenderTable(view)

	assert.Contains(t, out, "Pulses/Session ▼")
	assert.Contains(t, out, "Protocol 00")
	assert.NotContains(t, out, "Protocol 06")
	assert.Contains(t, out, "Page 1 of 2 (7 rows)")
}

func TestRenderTable_Empty(t *testing.T) {
	out := export.RenderTable(entities.TableView{})

	assert.Contains(t, out, services.MessageSelectProtocols)
}

func TestRenderRecommendations(t *testing.T) {
	recs := []entities.Recommendation{
		{
			Symptom:     "Intrusive Thoughts",
			Status:      entities.RecommendationMatched,
			Protocol:    &entities.SymptomProtocol{Target: "Right DLPFC", Frequency: "1 Hz", Pulses: 1200},
			Adjustments: []string{"May require motor threshold re-assessment post-ECT."},
		},
		{
			Symptom: entities.SentinelSymptom,
			Status:  entities.RecommendationDataUnavailable,
			Message: services.MessageDataUnavailable,
		},
	}

	out := export.RenderRecommendations(recs)

	assert.Contains(t, out, "Target:     Right DLPFC")
	assert.Contains(t, out, "Pulses:     1200")
	assert.Contains(t, out, "! May require motor threshold re-assessment post-ECT.")
	assert.Contains(t, out, services.MessageDataUnavailable)
	assert.Contains(t, out, "informational purposes only")
}

func TestNarrativeRenderer(t *testing.T) {
	renderer, err := export.NewNarrativeRenderer("notty", 60)
	require.NoError(t, err)

	out := renderer.Render("## Mock Narrative\nThis is a **mock comparison narrative**.")

	assert.Contains(t, out, "Mock Narrative")
	assert.Contains(t, out, "mock comparison narrative")

	var nilRenderer *export.NarrativeRenderer
	assert.Equal(t, "raw", nilRenderer.Render("raw"))
}
