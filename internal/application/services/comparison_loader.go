package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

// ErrStaleResponse is returned by ComparisonLoader.Load when a newer load was
// issued while the request was in flight. The response is discarded.
var ErrStaleResponse = errors.New("stale comparison response discarded")

// ComparisonStatus is the state of the comparison fetch
type ComparisonStatus string

const (
	ComparisonIdle    ComparisonStatus = "idle"
	ComparisonEmpty   ComparisonStatus = "empty"
	ComparisonLoading ComparisonStatus = "loading"
	ComparisonReady   ComparisonStatus = "ready"
	ComparisonFailed  ComparisonStatus = "failed"
)

// Messages shown for comparison states without a table
const (
	MessageSelectProtocols  = "Select protocols to compare."
	MessageComparisonFailed = "Failed to load comparison data. Please try again."
)

// ComparisonState is an immutable snapshot of the comparison fetch
type ComparisonState struct {
	Status  ComparisonStatus           `json:"status"`
	Seq     uint64                     `json:"seq"`
	IDs     []string                   `json:"ids"`
	Result  *entities.ComparisonResult `json:"result,omitempty"`
	Message string                     `json:"message,omitempty"`
	Err     error                      `json:"-"`
}

// ComparisonLoader fetches comparison results and makes sure only the most
// recently issued request can publish its outcome.
type ComparisonLoader struct {
	api     providers.ProtocolAPI
	metrics *observability.Metrics
	seq     atomic.Uint64
	store   *Store[ComparisonState]

	mu        sync.RWMutex
	observers []func(ComparisonState)
}

// NewComparisonLoader creates an idle loader
func NewComparisonLoader(api providers.ProtocolAPI, metrics *observability.Metrics) *ComparisonLoader {
	return &ComparisonLoader{
		api:     api,
		metrics: metrics,
		store:   NewStore(ComparisonState{Status: ComparisonIdle, IDs: []string{}}),
	}
}

// State returns the current snapshot
func (l *ComparisonLoader) State() ComparisonState {
	return l.store.Get()
}

// Subscribe streams published snapshots until ctx is done
func (l *ComparisonLoader) Subscribe(ctx context.Context) <-chan ComparisonState {
	return l.store.Subscribe(ctx)
}

// OnStateChange registers fn to be called with every published snapshot.
// Calls for different loads may interleave; observers compare Seq.
func (l *ComparisonLoader) OnStateChange(fn func(ComparisonState)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Load fetches the comparison for ids. Empty ids and requests the API
// rejects as invalid end in the Empty state; other failures end in Failed.
// If a newer Load started meanwhile, the outcome is dropped and
// ErrStaleResponse is returned.
func (l *ComparisonLoader) Load(ctx context.Context, ids []string) (ComparisonState, error) {
	seq := l.seq.Add(1)
	ids = entities.UniqueValues(ids)

	ctx, span := observability.StartSpan(ctx, "ComparisonLoader.Load")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("comparison.seq", int64(seq)),
		attribute.StringSlice("comparison.ids", ids),
	)

	if len(ids) == 0 {
		return l.finish(ctx, ComparisonState{
			Status:  ComparisonEmpty,
			Seq:     seq,
			IDs:     ids,
			Message: MessageSelectProtocols,
		})
	}

	if _, err := l.publish(ComparisonState{Status: ComparisonLoading, Seq: seq, IDs: ids}); err != nil {
		return l.discard(ctx, seq)
	}

	result, err := l.api.CompareProtocols(ctx, slices.Clone(ids))
	if err != nil {
		observability.RecordError(span, err)
		state := ComparisonState{
			Status:  ComparisonFailed,
			Seq:     seq,
			IDs:     ids,
			Message: MessageComparisonFailed,
			Err:     err,
		}
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			state.Status = ComparisonEmpty
			state.Message = MessageSelectProtocols
			state.Err = nil
		}
		return l.finish(ctx, state)
	}

	if err := result.Table.Validate(); err != nil {
		observability.RecordError(span, err)
		return l.finish(ctx, ComparisonState{
			Status:  ComparisonFailed,
			Seq:     seq,
			IDs:     ids,
			Message: MessageComparisonFailed,
			Err:     apperrors.NewDataUnavailableError("comparison table is malformed", err),
		})
	}

	return l.finish(ctx, ComparisonState{
		Status: ComparisonReady,
		Seq:    seq,
		IDs:    ids,
		Result: result,
	})
}

func (l *ComparisonLoader) finish(ctx context.Context, state ComparisonState) (ComparisonState, error) {
	published, err := l.publish(state)
	if err != nil {
		return l.discard(ctx, state.Seq)
	}
	if state.Status == ComparisonFailed {
		return published, state.Err
	}
	return published, nil
}

// publish installs state unless a newer load has been issued
func (l *ComparisonLoader) publish(state ComparisonState) (ComparisonState, error) {
	published, ok := l.store.TryUpdate(func(ComparisonState) (ComparisonState, bool) {
		return state, state.Seq == l.seq.Load()
	})
	if !ok {
		return published, ErrStaleResponse
	}

	l.mu.RLock()
	observers := slices.Clone(l.observers)
	l.mu.RUnlock()
	for _, fn := range observers {
		fn(published)
	}
	return published, nil
}

func (l *ComparisonLoader) discard(ctx context.Context, seq uint64) (ComparisonState, error) {
	observability.RecordStaleComparison(ctx, l.metrics)
	observability.LoggerFromContext(ctx).Debug().
		Uint64("seq", seq).
		Uint64("latest", l.seq.Load()).
		Msg("discarding stale comparison response")
	return l.store.Get(), ErrStaleResponse
}
