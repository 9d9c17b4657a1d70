package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neurostream/protocolengine/internal/application/services"
)

func TestSymptomResolver_Symptoms(t *testing.T) {
	resolver := services.NewSymptomResolver(services.DefaultReferenceData())

	tests := []struct {
		name      string
		diagnosis string
		want      []string
	}{
		{"ptsd", "PTSD", []string{"Intrusive Thoughts", "Hyperarousal", "Avoidance Symptoms", "iTBS Left DLPFC"}},
		{"ocd", "Obsessive-Compulsive Disorder", []string{"Obsessions", "Compulsions"}},
		{"empty", "", []string{}},
		{"unknown", "Tinnitus", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Symptoms(tt.diagnosis)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSymptomResolver_SymptomsReturnsCopy(t *testing.T) {
	resolver := services.NewSymptomResolver(services.DefaultReferenceData())

	got := resolver.Symptoms("PTSD")
	got[0] = "mutated"

	assert.Equal(t, "Intrusive Thoughts", resolver.Symptoms("PTSD")[0])
}

func TestSymptomResolver_FilterSymptoms(t *testing.T) {
	resolver := services.NewSymptomResolver(services.DefaultReferenceData())

	got := resolver.FilterSymptoms("PTSD", []string{"Hyperarousal", "Anhedonia", "Hyperarousal", "Intrusive Thoughts"})

	assert.Equal(t, []string{"Hyperarousal", "Intrusive Thoughts"}, got)
	assert.Empty(t, resolver.FilterSymptoms("Tinnitus", []string{"Hyperarousal"}))
}

func TestSymptomResolver_Diagnoses(t *testing.T) {
	resolver := services.NewSymptomResolver(services.DefaultReferenceData())

	diagnoses := resolver.Diagnoses()

	assert.Len(t, diagnoses, 9)
	assert.Equal(t, "Major Depressive Disorder", diagnoses[0])
	for _, d := range diagnoses {
		assert.NotEmpty(t, resolver.Symptoms(d), d)
	}
}
