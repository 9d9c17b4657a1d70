package services

import (
	"context"
	"errors"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

// ComparatorState is a snapshot of the protocol comparator
type ComparatorState struct {
	SessionID     string                    `json:"session_id"`
	CatalogStatus LoadStatus                `json:"catalog_status"`
	CatalogError  string                    `json:"catalog_error,omitempty"`
	Catalog       []entities.ProtocolRecord `json:"catalog"`
	Phase         SelectionPhase            `json:"phase"`
	Selected      []string                  `json:"selected"`
	Notice        string                    `json:"notice,omitempty"`
	Table         entities.TableState       `json:"table"`
	Comparison    ComparisonState           `json:"comparison"`
	View          entities.TableView        `json:"view"`

	// source is the table the view derives from. It keeps the last ready
	// table while a newer comparison is loading.
	source entities.ComparisonTable
}

// ComparatorSession ties the catalog, the URL-synchronized selection, the
// comparison fetch and the table view state together.
type ComparatorSession struct {
	api       providers.ProtocolAPI
	selection *SelectionSync
	loader    *ComparisonLoader
	metrics   *observability.Metrics
	store     *Store[ComparatorState]
}

// NewComparatorSession creates a session mirroring its selection to location
func NewComparatorSession(api providers.ProtocolAPI, location Location, metrics *observability.Metrics) *ComparatorSession {
	s := &ComparatorSession{
		api:       api,
		selection: NewSelectionSync(location),
		loader:    NewComparisonLoader(api, metrics),
		metrics:   metrics,
	}

	table := entities.NewTableState()
	comparison := s.loader.State()
	s.store = NewStore(ComparatorState{
		SessionID:     observability.NewRequestID(),
		CatalogStatus: LoadIdle,
		Catalog:       []entities.ProtocolRecord{},
		Phase:         PhaseUninitialized,
		Selected:      []string{},
		Table:         table,
		Comparison:    comparison,
		View:          DeriveTableView(entities.ComparisonTable{}, table),
	})
	s.loader.OnStateChange(s.applyComparison)
	return s
}

// State returns the current snapshot
func (s *ComparatorSession) State() ComparatorState {
	return s.store.Get()
}

// Subscribe streams snapshots until ctx is done
func (s *ComparatorSession) Subscribe(ctx context.Context) <-chan ComparatorState {
	return s.store.Subscribe(ctx)
}

// LoadCatalog fetches the protocol catalog. Once it is available the starting
// selection is adopted from the location and its comparison loaded.
func (s *ComparatorSession) LoadCatalog(ctx context.Context, diagnosis string) error {
	ctx, span := observability.StartSpan(ctx, "ComparatorSession.LoadCatalog")
	defer span.End()

	s.store.Update(func(st ComparatorState) ComparatorState {
		st.CatalogStatus = LoadLoading
		st.CatalogError = ""
		return st
	})

	catalog, err := s.api.ListProtocols(ctx, diagnosis)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("failed to load protocol catalog")
		s.store.Update(func(st ComparatorState) ComparatorState {
			st.CatalogStatus = LoadFailed
			st.CatalogError = err.Error()
			return st
		})
		return err
	}
	if catalog == nil {
		catalog = []entities.ProtocolRecord{}
	}
	span.SetAttributes(attribute.Int("catalog.size", len(catalog)))

	s.store.Update(func(st ComparatorState) ComparatorState {
		st.CatalogStatus = LoadReady
		st.Catalog = slices.Clone(catalog)
		return st
	})

	return s.Adopt(ctx)
}

// Adopt adopts the selection from the location when the catalog and the
// location are ready. It does nothing after the first adoption.
func (s *ComparatorSession) Adopt(ctx context.Context) error {
	st := s.store.Get()
	if st.CatalogStatus != LoadReady {
		return nil
	}
	if !s.selection.Adopt(st.Catalog) {
		return nil
	}
	s.syncSelection("")
	return s.reload(ctx)
}

// Toggle selects or deselects a protocol and reloads the comparison.
// A fifth selection is refused with a SELECTION_LIMIT error and a notice.
func (s *ComparatorSession) Toggle(ctx context.Context, id string) error {
	if _, err := s.selection.Toggle(id); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeSelectionLimit) {
			observability.RecordSelectionRejected(ctx, s.metrics)
			var appErr *apperrors.AppError
			errors.As(err, &appErr)
			s.syncSelection(appErr.Message)
		}
		return err
	}
	s.syncSelection("")
	return s.reload(ctx)
}

// Sort applies a header click to the table
func (s *ComparatorSession) Sort(column string) ComparatorState {
	return s.updateTable(func(t entities.TableState, _ entities.TableView) entities.TableState {
		return t.RequestSort(column)
	})
}

// SetFilter replaces the column filter
func (s *ComparatorSession) SetFilter(column, text string) ComparatorState {
	return s.updateTable(func(t entities.TableState, _ entities.TableView) entities.TableState {
		return t.WithFilter(entities.FilterState{Column: column, Text: text})
	})
}

// SetPage jumps to a page; out-of-range pages are clamped
func (s *ComparatorSession) SetPage(page int) ComparatorState {
	return s.updateTable(func(t entities.TableState, _ entities.TableView) entities.TableState {
		t.Page = page
		return t
	})
}

// NextPage moves to the next page of the table
func (s *ComparatorSession) NextPage() ComparatorState {
	return s.updateTable(func(t entities.TableState, view entities.TableView) entities.TableState {
		return t.NextPage(view.TotalPages)
	})
}

// PrevPage moves to the previous page of the table
func (s *ComparatorSession) PrevPage() ComparatorState {
	return s.updateTable(func(t entities.TableState, _ entities.TableView) entities.TableState {
		return t.PrevPage()
	})
}

func (s *ComparatorSession) reload(ctx context.Context) error {
	_, err := s.loader.Load(ctx, s.selection.Selected())
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	return err
}

func (s *ComparatorSession) syncSelection(notice string) {
	phase, selected := s.selection.Phase(), s.selection.Selected()
	s.store.Update(func(st ComparatorState) ComparatorState {
		st.Phase = phase
		st.Selected = selected
		st.Notice = notice
		return st
	})
}

// applyComparison installs a loader snapshot unless a newer one is shown
func (s *ComparatorSession) applyComparison(comparison ComparisonState) {
	s.store.TryUpdate(func(st ComparatorState) (ComparatorState, bool) {
		if comparison.Seq < st.Comparison.Seq {
			return st, false
		}
		st.Comparison = comparison
		st.source = viewSource(comparison, st.source)
		st.View = DeriveTableView(st.source, st.Table)
		st.Table = st.View.State
		return st, true
	})
}

func (s *ComparatorSession) updateTable(fn func(entities.TableState, entities.TableView) entities.TableState) ComparatorState {
	return s.store.Update(func(st ComparatorState) ComparatorState {
		st.View = DeriveTableView(st.source, fn(st.Table, st.View))
		st.Table = st.View.State
		return st
	})
}

// viewSource picks the table to show for a comparison snapshot. A loading
// comparison keeps showing the previous table.
func viewSource(comparison ComparisonState, previous entities.ComparisonTable) entities.ComparisonTable {
	switch {
	case comparison.Status == ComparisonLoading:
		return previous
	case comparison.Status == ComparisonReady && comparison.Result != nil:
		return comparison.Result.Table
	default:
		return entities.ComparisonTable{}
	}
}
