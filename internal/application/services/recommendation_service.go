package services

import (
	"github.com/neurostream/protocolengine/internal/domain/entities"
)

// Sentinel messages shown in place of a protocol
const (
	MessageDataUnavailable   = "Protocol data is not available. Please try again later."
	MessageNoDiagnosis       = "No protocols found for this diagnosis."
	MessageNoSymptomProtocol = "No specific protocol found for this symptom in the selected diagnosis."
)

// RecommendationService turns a patient selection into protocol recommendations
type RecommendationService struct {
	rules []AdjustmentRule
}

// NewRecommendationService creates a service evaluating the given rules.
// A nil rule set falls back to DefaultAdjustmentRules.
func NewRecommendationService(rules []AdjustmentRule) *RecommendationService {
	if rules == nil {
		rules = DefaultAdjustmentRules()
	}
	return &RecommendationService{rules: rules}
}

// Generate returns one recommendation per distinct selected symptom, in
// selection order.
// It is pure: identical inputs produce identical output, and neither input is modified.
func (s *RecommendationService) Generate(dataset entities.ProtocolDataset, selection entities.PatientSelection) []entities.Recommendation {
	if dataset == nil {
		return []entities.Recommendation{{
			Symptom: entities.SentinelSymptom,
			Status:  entities.RecommendationDataUnavailable,
			Message: MessageDataUnavailable,
		}}
	}

	if !dataset.HasDiagnosis(selection.Diagnosis) {
		return []entities.Recommendation{{
			Symptom: entities.SentinelSymptom,
			Status:  entities.RecommendationNoDiagnosisProtocol,
			Message: MessageNoDiagnosis,
		}}
	}

	symptoms := entities.UniqueValues(selection.Symptoms)
	recommendations := make([]entities.Recommendation, 0, len(symptoms))
	for _, symptom := range symptoms {
		protocol, ok := dataset.Lookup(selection.Diagnosis, symptom)
		if !ok {
			recommendations = append(recommendations, entities.Recommendation{
				Symptom: symptom,
				Status:  entities.RecommendationNoSymptomProtocol,
				Message: MessageNoSymptomProtocol,
			})
			continue
		}

		recommendations = append(recommendations, entities.Recommendation{
			Symptom:     symptom,
			Status:      entities.RecommendationMatched,
			Protocol:    &protocol,
			Adjustments: s.adjustments(selection, protocol),
		})
	}

	return recommendations
}

func (s *RecommendationService) adjustments(selection entities.PatientSelection, protocol entities.SymptomProtocol) []string {
	notes := []string{}
	for _, rule := range s.rules {
		if rule.Applies(selection, protocol) {
			notes = append(notes, rule.Note(selection, protocol))
		}
	}
	return notes
}
