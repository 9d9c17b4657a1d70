package services

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

// SelectionQueryKey is the query parameter holding the selected protocol ids
const SelectionQueryKey = "ids"

// SelectionPhase is the state of the selection/URL synchronizer
type SelectionPhase string

const (
	PhaseUninitialized SelectionPhase = "uninitialized"
	PhaseURLAdopted    SelectionPhase = "url_adopted"
	PhaseUserDriven    SelectionPhase = "user_driven"
)

// EncodeSelection serializes ids for the location: trimmed, deduplicated,
// capped at MaxComparedProtocols, in selection order.
func EncodeSelection(ids []string) string {
	unique := entities.UniqueValues(ids)
	if len(unique) > entities.MaxComparedProtocols {
		unique = unique[:entities.MaxComparedProtocols]
	}
	return strings.Join(unique, ",")
}

// DecodeSelection parses a serialized selection. Order is kept; blanks and
// duplicates are dropped. No cap is applied here because unknown ids must be
// discarded before truncating.
func DecodeSelection(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return entities.UniqueValues(strings.Split(raw, ","))
}

// SelectionSync keeps the selected protocol ids and the location's ids
// parameter in step.
//
// Uninitialized -> URLAdopted happens exactly once, when both the location and
// the catalog are ready. The first toggle moves to UserDriven. Nothing returns
// to Uninitialized.
type SelectionSync struct {
	mu       sync.Mutex
	location Location
	phase    SelectionPhase
	selected []string
}

// NewSelectionSync creates an uninitialized synchronizer
func NewSelectionSync(location Location) *SelectionSync {
	return &SelectionSync{
		location: location,
		phase:    PhaseUninitialized,
		selected: []string{},
	}
}

// Phase returns the current state
func (s *SelectionSync) Phase() SelectionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Selected returns a copy of the selected ids in selection order
func (s *SelectionSync) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selected)
}

// Adopt takes the starting selection from the location: ids not in the
// catalog are discarded and the first MaxComparedProtocols valid ids kept.
// It returns true only on the call that performs the adoption; it is a no-op
// once adopted or while the location or catalog is not ready.
func (s *SelectionSync) Adopt(catalog []entities.ProtocolRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseUninitialized || catalog == nil {
		return false
	}
	values, ready := s.location.Query()
	if !ready {
		return false
	}

	known := make(map[string]struct{}, len(catalog))
	for _, p := range catalog {
		known[p.ID] = struct{}{}
	}

	adopted := make([]string, 0, entities.MaxComparedProtocols)
	for _, id := range DecodeSelection(values.Get(SelectionQueryKey)) {
		if _, ok := known[id]; !ok {
			continue
		}
		adopted = append(adopted, id)
		if len(adopted) == entities.MaxComparedProtocols {
			break
		}
	}

	s.selected = adopted
	s.phase = PhaseURLAdopted
	return true
}

// Toggle deselects an already selected id or appends a new one, then pushes
// the selection to the location. Selecting a fifth id fails with a
// SELECTION_LIMIT error and leaves the selection unchanged.
func (s *SelectionSync) Toggle(id string) ([]string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewValidationError("protocol id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseUninitialized {
		return nil, apperrors.NewValidationError("selection is not initialized yet")
	}

	if i := slices.Index(s.selected, id); i >= 0 {
		s.selected = slices.Delete(slices.Clone(s.selected), i, i+1)
	} else {
		if len(s.selected) >= entities.MaxComparedProtocols {
			return slices.Clone(s.selected), apperrors.NewSelectionLimitError(
				fmt.Sprintf("you can compare at most %d protocols; deselect one first", entities.MaxComparedProtocols),
			)
		}
		s.selected = append(slices.Clone(s.selected), id)
	}

	s.phase = PhaseUserDriven
	s.push()
	return slices.Clone(s.selected), nil
}

// push writes the selection to the location, removing the key when empty.
// Callers hold s.mu.
func (s *SelectionSync) push() {
	values, ready := s.location.Query()
	if !ready {
		return
	}
	if len(s.selected) == 0 {
		values.Del(SelectionQueryKey)
	} else {
		values.Set(SelectionQueryKey, EncodeSelection(s.selected))
	}
	s.location.ReplaceQuery(values)
}
