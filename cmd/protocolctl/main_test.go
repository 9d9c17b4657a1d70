package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PROTOCOL_API_URL", "")
	t.Setenv("REDIS_ENABLED", "false")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestOptions(t *testing.T) {
	out, _, err := run(t, "options")
	require.NoError(t, err)

	assert.Contains(t, out, "Major Depressive Disorder")
	assert.Contains(t, out, "Cardiac Pacemaker")
}

func TestSymptoms(t *testing.T) {
	out, _, err := run(t, "symptoms", "PTSD", "--json")
	require.NoError(t, err)

	var symptoms []string
	require.NoError(t, json.Unmarshal([]byte(out), &symptoms))
	assert.Equal(t, []string{"Intrusive Thoughts", "Hyperarousal", "Avoidance Symptoms", "iTBS Left DLPFC"}, symptoms)

	out, _, err = run(t, "symptoms", "Tinnitus")
	require.NoError(t, err)
	assert.Contains(t, out, "No symptoms known")
}

func TestProtocols(t *testing.T) {
	out, _, err := run(t, "protocols")
	require.NoError(t, err)

	assert.Contains(t, out, "Alpha Protocol (Mock)")
	assert.Contains(t, out, "p5")
}

func TestRecommend(t *testing.T) {
	out, _, err := run(t, "recommend", "-d", "PTSD", "-s", "Intrusive Thoughts", "--age", "70", "--json")
	require.NoError(t, err)

	var body struct {
		Recommendations []entities.Recommendation `json:"recommendations"`
		Disclaimer      string                    `json:"disclaimer"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, "Right DLPFC", body.Recommendations[0].Protocol.Target)
	assert.Len(t, body.Recommendations[0].Adjustments, 1)
	assert.Equal(t, entities.Disclaimer, body.Disclaimer)
}

func TestRecommend_UnknownSymptom(t *testing.T) {
	_, _, err := run(t, "recommend", "-d", "PTSD", "-s", "Anhedonia")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestRecommend_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.pdf")

	_, stderr, err := run(t, "recommend", "-d", "PTSD", "-s", "Intrusive Thoughts", "--export", path)
	require.NoError(t, err)

	assert.Contains(t, stderr, "Exported recommendations")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestCompare(t *testing.T) {
	out, _, err := run(t, "compare", "--url", "https://app.example/compare?ids=p1", "-t", "p2")
	require.NoError(t, err)

	assert.Contains(t, out, "Alpha Protocol (Mock) (Mocked Data)")
	assert.Contains(t, out, "Beta Protocol (Mock) (Mocked Data)")
	assert.Contains(t, out, "URL: https://app.example/compare?ids=p1,p2")
}

func TestCompare_LimitWarns(t *testing.T) {
	out, stderr, err := run(t, "compare", "--url", "ids=p1,p2,p3,p4", "-t", "p5", "--json")
	require.NoError(t, err)

	assert.Contains(t, stderr, "warning: you can compare at most 4 protocols")
	var body struct {
		URL      string                   `json:"url"`
		Selected []string                 `json:"selected"`
		State    services.ComparatorState `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, body.Selected)
	assert.Equal(t, services.ComparisonReady, body.State.Comparison.Status)
}

func TestCompare_Empty(t *testing.T) {
	out, _, err := run(t, "compare")
	require.NoError(t, err)

	assert.Contains(t, out, services.MessageSelectProtocols)
}
