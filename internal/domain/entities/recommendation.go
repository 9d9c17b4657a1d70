package entities

// RecommendationStatus tells a matched recommendation apart from the sentinel results
type RecommendationStatus string

const (
	RecommendationMatched             RecommendationStatus = "matched"
	RecommendationDataUnavailable     RecommendationStatus = "data_unavailable"
	RecommendationNoDiagnosisProtocol RecommendationStatus = "no_diagnosis_protocol"
	RecommendationNoSymptomProtocol   RecommendationStatus = "no_symptom_protocol"
)

// SentinelSymptom is the symptom name used by sentinels not tied to one symptom
const SentinelSymptom = "N/A"

// Recommendation is one result row of the protocol tool
type Recommendation struct {
	Symptom     string               `json:"symptom"`
	Status      RecommendationStatus `json:"status"`
	Protocol    *SymptomProtocol     `json:"protocol,omitempty"`
	Message     string               `json:"message,omitempty"`
	Adjustments []string             `json:"adjustments,omitempty"`
}

// IsSentinel reports whether the recommendation is a "no data" placeholder
func (r Recommendation) IsSentinel() bool {
	return r.Status != RecommendationMatched
}
