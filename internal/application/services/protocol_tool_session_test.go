package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/protocolengine/internal/adapters/providers/mockapi"
	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers/mocks"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

func newToolSession(t *testing.T) *services.ProtocolToolSession {
	t.Helper()
	api, err := mockapi.New()
	require.NoError(t, err)
	return services.NewProtocolToolSession(
		api,
		services.NewSymptomResolver(services.DefaultReferenceData()),
		services.NewRecommendationService(nil),
	)
}

func TestProtocolToolSession_RecommendFlow(t *testing.T) {
	ctx := context.Background()
	session := newToolSession(t)
	require.NoError(t, session.LoadDataset(ctx))
	assert.Equal(t, services.LoadReady, session.State().DatasetStatus)

	st := session.SetDiagnosis("PTSD")
	assert.Equal(t, []string{"Intrusive Thoughts", "Hyperarousal", "Avoidance Symptoms", "iTBS Left DLPFC"}, st.SymptomOptions)

	_, err := session.ToggleSymptom("Intrusive Thoughts")
	require.NoError(t, err)
	session.SetField(entities.FieldAge, "70")

	recs := session.Generate(ctx)

	require.Len(t, recs, 1)
	assert.Equal(t, "Right DLPFC", recs[0].Protocol.Target)
	assert.Equal(t, []string{"Consider age: potential need for intensity adjustment or closer monitoring."}, recs[0].Adjustments)
	assert.Equal(t, recs, session.State().Recommendations)
}

func TestProtocolToolSession_DiagnosisChangeClearsSymptoms(t *testing.T) {
	ctx := context.Background()
	session := newToolSession(t)
	require.NoError(t, session.LoadDataset(ctx))

	session.SetDiagnosis("PTSD")
	session.SetSymptoms([]string{"Hyperarousal", "Obsessions", "Intrusive Thoughts"})
	assert.Equal(t, []string{"Hyperarousal", "Intrusive Thoughts"}, session.State().Selection.Symptoms)
	session.Generate(ctx)
	require.NotEmpty(t, session.State().Recommendations)

	st := session.SetDiagnosis("Obsessive-Compulsive Disorder")

	assert.Empty(t, st.Selection.Symptoms)
	assert.Empty(t, st.Recommendations)
	assert.Equal(t, []string{"Obsessions", "Compulsions"}, st.SymptomOptions)
}

func TestProtocolToolSession_ToggleSymptom(t *testing.T) {
	session := newToolSession(t)
	session.SetDiagnosis("PTSD")

	_, err := session.ToggleSymptom("Anhedonia")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, session.State().Selection.Symptoms)

	_, err = session.ToggleSymptom("Hyperarousal")
	require.NoError(t, err)
	st, err := session.ToggleSymptom("Hyperarousal")
	require.NoError(t, err)
	assert.Empty(t, st.Selection.Symptoms)
}

func TestProtocolToolSession_OtherSelections(t *testing.T) {
	session := newToolSession(t)

	session.SetComorbidities([]string{"Anxiety", "Anxiety", "Insomnia"})
	session.SetPreviousTreatments([]string{"ECT"})
	session.SetContraindications([]string{"Pregnancy"})
	session.SetField(entities.FieldAge, "42")
	st := session.SetField("notes", "")

	assert.Equal(t, []string{"Anxiety", "Insomnia"}, st.Selection.Comorbidities)
	assert.Equal(t, []string{"ECT"}, st.Selection.PreviousTreatments)
	assert.Equal(t, []string{"Pregnancy"}, st.Selection.Contraindications)
	assert.Equal(t, map[string]string{entities.FieldAge: "42"}, st.Selection.Fields)

	st = session.SetField(entities.FieldAge, "")
	assert.Empty(t, st.Selection.Fields)
}

func TestProtocolToolSession_DatasetFailure(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewMockProtocolAPI(t)
	api.EXPECT().
		GetDataset(mock.Anything).
		Return(nil, apperrors.NewDataUnavailableError("protocol API is unreachable", nil))

	session := services.NewProtocolToolSession(
		api,
		services.NewSymptomResolver(services.DefaultReferenceData()),
		services.NewRecommendationService(nil),
	)

	err := session.LoadDataset(ctx)
	require.Error(t, err)
	assert.Equal(t, services.LoadFailed, session.State().DatasetStatus)

	session.SetDiagnosis("PTSD")
	session.SetSymptoms([]string{"Intrusive Thoughts"})
	recs := session.Generate(ctx)

	require.Len(t, recs, 1)
	assert.Equal(t, entities.RecommendationDataUnavailable, recs[0].Status)
}
