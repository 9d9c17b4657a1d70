package entities

// ReferenceData holds the option lists offered by the protocol tool
type ReferenceData struct {
	Diagnoses          []string            `json:"diagnoses" yaml:"diagnoses"`
	Symptoms           map[string][]string `json:"symptoms" yaml:"symptoms"`
	Comorbidities      []string            `json:"comorbidities" yaml:"comorbidities"`
	PreviousTreatments []string            `json:"previousTreatments" yaml:"previous_treatments"`
	Contraindications  []string            `json:"contraindications" yaml:"contraindications"`
}

// Disclaimer accompanies every recommendation and comparison output
const Disclaimer = "This tool is for informational purposes only and does not constitute medical advice. " +
	"All treatment decisions must be made by qualified healthcare professionals."
