package entities

// ProtocolRecord identifies a treatment protocol in the remote catalog
type ProtocolRecord struct {
	ID            string `json:"id" yaml:"id"`
	Label         string `json:"label" yaml:"label"`
	Device        string `json:"device,omitempty" yaml:"device,omitempty"`
	EvidenceLevel string `json:"evidence_level" yaml:"evidence_level"`
}

// SymptomProtocol is the stimulation protocol recommended for one diagnosis/symptom pair
type SymptomProtocol struct {
	Target     string   `json:"target" yaml:"target"`
	Frequency  string   `json:"frequency" yaml:"frequency"`
	Intensity  string   `json:"intensity" yaml:"intensity"`
	Pulses     int      `json:"pulses" yaml:"pulses"`
	Sessions   string   `json:"sessions" yaml:"sessions"`
	Schedule   string   `json:"schedule" yaml:"schedule"`
	Evidence   string   `json:"evidence" yaml:"evidence"`
	Notes      string   `json:"notes" yaml:"notes"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// Clone returns a copy that shares no slices with p
func (p SymptomProtocol) Clone() SymptomProtocol {
	if p.References != nil {
		p.References = append([]string(nil), p.References...)
	}
	return p
}

// ProtocolDataset maps diagnosis -> symptom -> protocol.
// A nil dataset means the data is not loaded.
type ProtocolDataset map[string]map[string]SymptomProtocol

// HasDiagnosis reports whether the dataset has any protocol for the diagnosis
func (d ProtocolDataset) HasDiagnosis(diagnosis string) bool {
	if diagnosis == "" {
		return false
	}
	_, ok := d[diagnosis]
	return ok
}

// Lookup returns the protocol for a diagnosis/symptom pair
func (d ProtocolDataset) Lookup(diagnosis, symptom string) (SymptomProtocol, bool) {
	bySymptom, ok := d[diagnosis]
	if !ok {
		return SymptomProtocol{}, false
	}
	p, ok := bySymptom[symptom]
	if !ok {
		return SymptomProtocol{}, false
	}
	return p.Clone(), true
}
