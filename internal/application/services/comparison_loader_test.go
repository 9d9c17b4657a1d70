package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers/mocks"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

func comparisonFor(names ...string) *entities.ComparisonResult {
	result := &entities.ComparisonResult{
		Table:       entities.ComparisonTable{Columns: []string{"Protocol Name"}},
		NarrativeMD: "## Comparison",
	}
	for _, name := range names {
		result.Table.Rows = append(result.Table.Rows, entities.Row{name})
	}
	return result
}

func TestComparisonLoader_EmptyIDsSkipAPI(t *testing.T) {
	api := mocks.NewMockProtocolAPI(t)
	loader := services.NewComparisonLoader(api, nil)

	state, err := loader.Load(context.Background(), []string{" ", ""})

	require.NoError(t, err)
	assert.Equal(t, services.ComparisonEmpty, state.Status)
	assert.Equal(t, services.MessageSelectProtocols, state.Message)
	assert.Equal(t, []string{}, state.IDs)
}

func TestComparisonLoader_Ready(t *testing.T) {
	api := mocks.NewMockProtocolAPI(t)
	api.EXPECT().
		CompareProtocols(mock.Anything, []string{"p1", "p2"}).
		Return(comparisonFor("Alpha", "Beta"), nil)
	loader := services.NewComparisonLoader(api, nil)

	state, err := loader.Load(context.Background(), []string{"p1", "p2", "p1"})

	require.NoError(t, err)
	assert.Equal(t, services.ComparisonReady, state.Status)
	assert.Equal(t, uint64(1), state.Seq)
	require.NotNil(t, state.Result)
	assert.Len(t, state.Result.Table.Rows, 2)
	assert.Equal(t, state, loader.State())
}

func TestComparisonLoader_ValidationErrorEndsEmpty(t *testing.T) {
	api := mocks.NewMockProtocolAPI(t)
	api.EXPECT().
		CompareProtocols(mock.Anything, []string{"p9"}).
		Return(nil, apperrors.NewValidationError("No IDs provided for mock comparison."))
	loader := services.NewComparisonLoader(api, nil)

	state, err := loader.Load(context.Background(), []string{"p9"})

	require.NoError(t, err)
	assert.Equal(t, services.ComparisonEmpty, state.Status)
	assert.Nil(t, state.Err)
}

func TestComparisonLoader_FailureEndsFailed(t *testing.T) {
	upstream := apperrors.NewDataUnavailableError("protocol API is unreachable", errors.New("connection refused"))
	api := mocks.NewMockProtocolAPI(t)
	api.EXPECT().CompareProtocols(mock.Anything, []string{"p1"}).Return(nil, upstream)
	loader := services.NewComparisonLoader(api, nil)

	state, err := loader.Load(context.Background(), []string{"p1"})

	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, services.ComparisonFailed, state.Status)
	assert.Equal(t, services.MessageComparisonFailed, state.Message)
	assert.Nil(t, state.Result)
}

func TestComparisonLoader_MalformedTableFails(t *testing.T) {
	malformed := &entities.ComparisonResult{Table: entities.ComparisonTable{
		Columns: []string{"a", "b"},
		Rows:    []entities.Row{{"only one"}},
	}}
	api := mocks.NewMockProtocolAPI(t)
	api.EXPECT().CompareProtocols(mock.Anything, []string{"p1"}).Return(malformed, nil)
	loader := services.NewComparisonLoader(api, nil)

	state, err := loader.Load(context.Background(), []string{"p1"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDataUnavailable))
	assert.Equal(t, services.ComparisonFailed, state.Status)
}

func TestComparisonLoader_StaleResponseIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	api := mocks.NewMockProtocolAPI(t)
	api.EXPECT().
		CompareProtocols(mock.Anything, []string{"p1"}).
		RunAndReturn(func(context.Context, []string) (*entities.ComparisonResult, error) {
			close(started)
			<-release
			return comparisonFor("Slow"), nil
		})
	api.EXPECT().
		CompareProtocols(mock.Anything, []string{"p2"}).
		Return(comparisonFor("Fast"), nil)

	loader := services.NewComparisonLoader(api, nil)

	var observed []services.ComparisonState
	loader.OnStateChange(func(s services.ComparisonState) {
		observed = append(observed, s)
	})

	type outcome struct {
		state services.ComparisonState
		err   error
	}
	slow := make(chan outcome, 1)
	go func() {
		state, err := loader.Load(context.Background(), []string{"p1"})
		slow <- outcome{state, err}
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first request never reached the API")
	}

	fast, err := loader.Load(context.Background(), []string{"p2"})
	require.NoError(t, err)
	assert.Equal(t, services.ComparisonReady, fast.Status)

	close(release)
	got := <-slow

	assert.ErrorIs(t, got.err, services.ErrStaleResponse)
	final := loader.State()
	assert.Equal(t, uint64(2), final.Seq)
	assert.Equal(t, []string{"p2"}, final.IDs)
	assert.Equal(t, "Fast", final.Result.Table.Rows[0][0])

	for _, s := range observed {
		if s.Result != nil {
			assert.NotEqual(t, "Slow", s.Result.Table.Rows[0][0])
		}
	}
}

func TestComparisonLoader_SubscribeSeesLoadingThenReady(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	api := mocks.NewMockProtocolAPI(t)
	api.EXPECT().
		CompareProtocols(mock.Anything, []string{"p1"}).
		RunAndReturn(func(context.Context, []string) (*entities.ComparisonResult, error) {
			<-release
			return comparisonFor("Alpha"), nil
		})
	loader := services.NewComparisonLoader(api, nil)
	updates := loader.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = loader.Load(context.Background(), []string{"p1"})
	}()

	assert.Equal(t, services.ComparisonLoading, (<-updates).Status)
	close(release)
	<-done
	assert.Equal(t, services.ComparisonReady, (<-updates).Status)
}
