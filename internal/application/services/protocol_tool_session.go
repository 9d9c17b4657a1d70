package services

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

// LoadStatus is the state of a one-shot data load
type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadLoading LoadStatus = "loading"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "failed"
)

// ProtocolToolState is a snapshot of the recommendation tool
type ProtocolToolState struct {
	SessionID       string                    `json:"session_id"`
	DatasetStatus   LoadStatus                `json:"dataset_status"`
	DatasetError    string                    `json:"dataset_error,omitempty"`
	Dataset         entities.ProtocolDataset  `json:"-"`
	Selection       entities.PatientSelection `json:"selection"`
	SymptomOptions  []string                  `json:"symptom_options"`
	Recommendations []entities.Recommendation `json:"recommendations"`
}

// ProtocolToolSession holds the state of one recommendation tool session
type ProtocolToolSession struct {
	api         providers.ProtocolAPI
	resolver    *SymptomResolver
	recommender *RecommendationService
	store       *Store[ProtocolToolState]
}

// NewProtocolToolSession creates a session with an empty selection
func NewProtocolToolSession(api providers.ProtocolAPI, resolver *SymptomResolver, recommender *RecommendationService) *ProtocolToolSession {
	return &ProtocolToolSession{
		api:         api,
		resolver:    resolver,
		recommender: recommender,
		store: NewStore(ProtocolToolState{
			SessionID:       observability.NewRequestID(),
			DatasetStatus:   LoadIdle,
			Selection:       entities.NewPatientSelection(),
			SymptomOptions:  []string{},
			Recommendations: []entities.Recommendation{},
		}),
	}
}

// State returns the current snapshot
func (s *ProtocolToolSession) State() ProtocolToolState {
	return s.store.Get()
}

// Subscribe streams snapshots until ctx is done
func (s *ProtocolToolSession) Subscribe(ctx context.Context) <-chan ProtocolToolState {
	return s.store.Subscribe(ctx)
}

// LoadDataset fetches the protocol dataset. On failure the dataset stays
// unavailable and recommendations report it.
func (s *ProtocolToolSession) LoadDataset(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "ProtocolToolSession.LoadDataset")
	defer span.End()

	s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.DatasetStatus = LoadLoading
		st.DatasetError = ""
		return st
	})

	dataset, err := s.api.GetDataset(ctx)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("failed to load protocol dataset")
		s.store.Update(func(st ProtocolToolState) ProtocolToolState {
			st.DatasetStatus = LoadFailed
			st.DatasetError = err.Error()
			st.Dataset = nil
			return st
		})
		return err
	}

	span.SetAttributes(attribute.Int("dataset.diagnoses", len(dataset)))
	s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.DatasetStatus = LoadReady
		st.Dataset = dataset
		return st
	})
	return nil
}

// SetDiagnosis selects a diagnosis, refreshes the symptom options and clears
// the symptom selection and any recommendations.
func (s *ProtocolToolSession) SetDiagnosis(diagnosis string) ProtocolToolState {
	return s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.Selection = st.Selection.Clone()
		st.Selection.Diagnosis = diagnosis
		st.Selection.Symptoms = []string{}
		st.SymptomOptions = s.resolver.Symptoms(diagnosis)
		st.Recommendations = []entities.Recommendation{}
		return st
	})
}

// ToggleSymptom selects or deselects a symptom offered for the diagnosis
func (s *ProtocolToolSession) ToggleSymptom(symptom string) (ProtocolToolState, error) {
	st, ok := s.store.TryUpdate(func(st ProtocolToolState) (ProtocolToolState, bool) {
		if !slices.Contains(st.SymptomOptions, symptom) {
			return st, false
		}
		st.Selection = st.Selection.Clone()
		st.Selection.Symptoms = toggleValue(st.Selection.Symptoms, symptom)
		return st, true
	})
	if !ok {
		return st, apperrors.NewValidationError(fmt.Sprintf("symptom %q is not offered for diagnosis %q", symptom, st.Selection.Diagnosis))
	}
	return st, nil
}

// SetSymptoms replaces the symptom selection. Symptoms not offered for the
// diagnosis are dropped.
func (s *ProtocolToolSession) SetSymptoms(symptoms []string) ProtocolToolState {
	return s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.Selection = st.Selection.Clone()
		st.Selection.Symptoms = s.resolver.FilterSymptoms(st.Selection.Diagnosis, symptoms)
		return st
	})
}

// SetComorbidities replaces the comorbidity selection
func (s *ProtocolToolSession) SetComorbidities(values []string) ProtocolToolState {
	return s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.Selection = st.Selection.Clone()
		st.Selection.Comorbidities = entities.UniqueValues(values)
		return st
	})
}

// SetPreviousTreatments replaces the previous treatment selection
func (s *ProtocolToolSession) SetPreviousTreatments(values []string) ProtocolToolState {
	return s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.Selection = st.Selection.Clone()
		st.Selection.PreviousTreatments = entities.UniqueValues(values)
		return st
	})
}

// SetContraindications replaces the contraindication selection
func (s *ProtocolToolSession) SetContraindications(values []string) ProtocolToolState {
	return s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.Selection = st.Selection.Clone()
		st.Selection.Contraindications = entities.UniqueValues(values)
		return st
	})
}

// SetField sets a free-form field such as age. An empty value removes it.
func (s *ProtocolToolSession) SetField(name, value string) ProtocolToolState {
	return s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.Selection = st.Selection.Clone()
		if st.Selection.Fields == nil {
			st.Selection.Fields = map[string]string{}
		}
		if value == "" {
			delete(st.Selection.Fields, name)
		} else {
			st.Selection.Fields[name] = value
		}
		return st
	})
}

// Generate regenerates the recommendations for the current selection
func (s *ProtocolToolSession) Generate(ctx context.Context) []entities.Recommendation {
	_, span := observability.StartSpan(ctx, "ProtocolToolSession.Generate")
	defer span.End()

	st := s.store.Update(func(st ProtocolToolState) ProtocolToolState {
		st.Recommendations = s.recommender.Generate(st.Dataset, st.Selection)
		return st
	})
	span.SetAttributes(
		attribute.String("selection.diagnosis", st.Selection.Diagnosis),
		attribute.Int("recommendations.count", len(st.Recommendations)),
	)
	return st.Recommendations
}

func toggleValue(values []string, value string) []string {
	if i := slices.Index(values, value); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), value)
}
