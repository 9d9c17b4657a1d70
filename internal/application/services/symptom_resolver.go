package services

import (
	"slices"

	"github.com/neurostream/protocolengine/internal/domain/entities"
)

// SymptomResolver maps a diagnosis to the symptoms the tool offers for it
type SymptomResolver struct {
	reference entities.ReferenceData
}

// NewSymptomResolver creates a resolver over the given reference data
func NewSymptomResolver(reference entities.ReferenceData) *SymptomResolver {
	return &SymptomResolver{reference: reference}
}

// Symptoms returns the ordered symptoms for a diagnosis. Unknown or empty
// diagnoses yield an empty, non-nil slice.
func (r *SymptomResolver) Symptoms(diagnosis string) []string {
	if diagnosis == "" {
		return []string{}
	}
	symptoms, ok := r.reference.Symptoms[diagnosis]
	if !ok {
		return []string{}
	}
	return slices.Clone(symptoms)
}

// Diagnoses returns the diagnoses in display order
func (r *SymptomResolver) Diagnoses() []string {
	return slices.Clone(r.reference.Diagnoses)
}

// Reference returns a copy of the option lists
func (r *SymptomResolver) Reference() entities.ReferenceData {
	out := r.reference
	out.Diagnoses = slices.Clone(r.reference.Diagnoses)
	out.Comorbidities = slices.Clone(r.reference.Comorbidities)
	out.PreviousTreatments = slices.Clone(r.reference.PreviousTreatments)
	out.Contraindications = slices.Clone(r.reference.Contraindications)
	out.Symptoms = make(map[string][]string, len(r.reference.Symptoms))
	for diagnosis, symptoms := range r.reference.Symptoms {
		out.Symptoms[diagnosis] = slices.Clone(symptoms)
	}
	return out
}

// FilterSymptoms keeps the selected symptoms that are valid for the diagnosis,
// preserving selection order and dropping duplicates.
func (r *SymptomResolver) FilterSymptoms(diagnosis string, selected []string) []string {
	valid := r.reference.Symptoms[diagnosis]
	out := make([]string, 0, len(selected))
	for _, s := range entities.UniqueValues(selected) {
		if slices.Contains(valid, s) {
			out = append(out, s)
		}
	}
	return out
}
