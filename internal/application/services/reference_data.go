package services

import "github.com/neurostream/protocolengine/internal/domain/entities"

// DefaultReferenceData returns the option lists of the protocol tool.
// Some symptom entries name a protocol rather than a symptom; they are kept
// because the dataset is keyed by them.
func DefaultReferenceData() entities.ReferenceData {
	return entities.ReferenceData{
		Diagnoses: []string{
			"Major Depressive Disorder",
			"Treatment-Resistant Depression",
			"Obsessive-Compulsive Disorder",
			"PTSD",
			"Schizophrenia (Auditory Hallucinations)",
			"Chronic Pain",
			"Fibromyalgia",
			"Migraine",
			"Generalized Anxiety Disorder",
		},
		Symptoms: map[string][]string{
			"Major Depressive Disorder":               {"Anhedonia", "Psychomotor Retardation", "Cognitive Impairment"},
			"Treatment-Resistant Depression":          {"Severe Anhedonia", "Persistent Low Mood"},
			"Obsessive-Compulsive Disorder":           {"Obsessions", "Compulsions"},
			"PTSD":                                    {"Intrusive Thoughts", "Hyperarousal", "Avoidance Symptoms", "iTBS Left DLPFC"},
			"Schizophrenia (Auditory Hallucinations)": {"Auditory Hallucinations"},
			"Chronic Pain":                            {"Persistent Pain", "Neuropathic Pain"},
			"Fibromyalgia":                            {"Widespread Pain", "Fatigue"},
			"Migraine":                                {"Headache Frequency", "Aura Symptoms"},
			"Generalized Anxiety Disorder":            {"Excessive Worry", "Restlessness", "Muscle Tension", "1 Hz Right DLPFC"},
		},
		Comorbidities:      []string{"Anxiety", "Substance Use Disorder", "Insomnia", "Chronic Fatigue"},
		PreviousTreatments: []string{"SSRI", "SNRI", "TCA", "MAOI", "Psychotherapy", "ECT", "Other TMS"},
		Contraindications:  []string{"Metallic Implant", "Seizure History", "Pregnancy", "Cardiac Pacemaker"},
	}
}
