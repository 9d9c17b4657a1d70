package services

import (
	"fmt"
	"strings"

	"github.com/neurostream/protocolengine/internal/domain/entities"
)

// AgeCautionThreshold is the age above which the age caution note is added
const AgeCautionThreshold = 65

// AdjustmentRule adds an advisory note when its predicate holds.
// Rules are independent: any subset may fire and none suppresses another.
type AdjustmentRule struct {
	Name    string
	Applies func(selection entities.PatientSelection, protocol entities.SymptomProtocol) bool
	Note    func(selection entities.PatientSelection, protocol entities.SymptomProtocol) string
}

func staticNote(note string) func(entities.PatientSelection, entities.SymptomProtocol) string {
	return func(entities.PatientSelection, entities.SymptomProtocol) string { return note }
}

// DefaultAdjustmentRules returns the built-in rule set
func DefaultAdjustmentRules() []AdjustmentRule {
	return []AdjustmentRule{
		{
			Name: "anxiety_left_dlpfc",
			Applies: func(s entities.PatientSelection, p entities.SymptomProtocol) bool {
				return s.HasComorbidity("Anxiety") && p.Target == "Left DLPFC"
			},
			Note: staticNote("Consider lower intensity or shorter duration due to anxiety comorbidity."),
		},
		{
			Name: "post_ect_threshold",
			Applies: func(s entities.PatientSelection, p entities.SymptomProtocol) bool {
				return s.HasPreviousTreatment("ECT") && p.Intensity != ""
			},
			Note: staticNote("May require motor threshold re-assessment post-ECT."),
		},
		{
			Name: "contraindication_review",
			Applies: func(s entities.PatientSelection, _ entities.SymptomProtocol) bool {
				return len(s.Contraindications) > 0
			},
			Note: func(s entities.PatientSelection, _ entities.SymptomProtocol) string {
				return fmt.Sprintf("Review contraindications: %s before proceeding.", strings.Join(s.Contraindications, ", "))
			},
		},
		{
			Name: "age_caution",
			Applies: func(s entities.PatientSelection, p entities.SymptomProtocol) bool {
				age, ok := s.Age()
				return ok && age > AgeCautionThreshold && p.Intensity != ""
			},
			Note: staticNote("Consider age: potential need for intensity adjustment or closer monitoring."),
		},
	}
}
