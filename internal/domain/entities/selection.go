package entities

import (
	"slices"
	"strconv"
	"strings"
)

// FieldAge is the free-form field holding the patient's age in years
const FieldAge = "age"

// PatientSelection is the user's input to the recommendation tool
type PatientSelection struct {
	Diagnosis          string            `json:"diagnosis"`
	Symptoms           []string          `json:"symptoms"`
	Comorbidities      []string          `json:"comorbidities"`
	PreviousTreatments []string          `json:"previous_treatments"`
	Contraindications  []string          `json:"contraindications"`
	Fields             map[string]string `json:"fields,omitempty"`
}

// NewPatientSelection returns a selection with empty defaults
func NewPatientSelection() PatientSelection {
	return PatientSelection{
		Symptoms:           []string{},
		Comorbidities:      []string{},
		PreviousTreatments: []string{},
		Contraindications:  []string{},
		Fields:             map[string]string{},
	}
}

// Clone returns a deep copy of the selection
func (s PatientSelection) Clone() PatientSelection {
	out := s
	out.Symptoms = slices.Clone(s.Symptoms)
	out.Comorbidities = slices.Clone(s.Comorbidities)
	out.PreviousTreatments = slices.Clone(s.PreviousTreatments)
	out.Contraindications = slices.Clone(s.Contraindications)
	if s.Fields != nil {
		out.Fields = make(map[string]string, len(s.Fields))
		for k, v := range s.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// HasComorbidity reports whether the comorbidity is selected
func (s PatientSelection) HasComorbidity(name string) bool {
	return slices.Contains(s.Comorbidities, name)
}

// HasPreviousTreatment reports whether the previous treatment is selected
func (s PatientSelection) HasPreviousTreatment(name string) bool {
	return slices.Contains(s.PreviousTreatments, name)
}

// Field returns a free-form field value
func (s PatientSelection) Field(name string) string {
	return s.Fields[name]
}

// Age returns the parsed age field. Leading integer digits are accepted ("70 years" -> 70).
func (s PatientSelection) Age() (int, bool) {
	raw := strings.TrimSpace(s.Field(FieldAge))
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	age, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return age, true
}

// UniqueValues removes empty strings and duplicates, keeping first occurrence order
func UniqueValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
