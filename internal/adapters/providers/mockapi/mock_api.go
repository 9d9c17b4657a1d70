package mockapi

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

// MessageNoIDs is the narrative of a rejected empty comparison request
const MessageNoIDs = "No IDs provided for mock comparison."

// Columns of a mock comparison table
var Columns = []string{
	"Protocol Name", "Coil Type", "Frequency", "Intensity",
	"Pulses/Session", "Sessions", "Evidence Level", "Device Name",
	"Manufacturer", "Publication Title", "Publication Year", "DOI",
}

//go:embed fixtures/protocols.yaml
var fixtureYAML []byte

type fixture struct {
	Catalog []entities.ProtocolRecord `yaml:"catalog"`
	Dataset entities.ProtocolDataset  `yaml:"dataset"`
}

// API is an in-process ProtocolAPI serving fixed mock data. It backs the
// development server and stands in for the remote API in tests.
type API struct {
	catalog []entities.ProtocolRecord
	byID    map[string]entities.ProtocolRecord
	dataset entities.ProtocolDataset
}

var _ providers.ProtocolAPI = (*API)(nil)

// New loads the embedded fixtures
func New() (*API, error) {
	return Parse(fixtureYAML)
}

// Parse builds a mock API from YAML fixtures
func Parse(data []byte) (*API, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse mock fixtures: %w", err)
	}

	byID := make(map[string]entities.ProtocolRecord, len(f.Catalog))
	for _, p := range f.Catalog {
		if p.ID == "" {
			return nil, fmt.Errorf("mock fixtures: protocol without id")
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("mock fixtures: duplicate protocol id %q", p.ID)
		}
		byID[p.ID] = p
	}

	return &API{catalog: f.Catalog, byID: byID, dataset: f.Dataset}, nil
}

// ListProtocols returns the whole catalog; the diagnosis is not used to filter
func (a *API) ListProtocols(_ context.Context, _ string) ([]entities.ProtocolRecord, error) {
	out := make([]entities.ProtocolRecord, len(a.catalog))
	copy(out, a.catalog)
	return out, nil
}

// CompareProtocols builds one mock row per id. Unknown ids still get a row.
func (a *API) CompareProtocols(_ context.Context, ids []string) (*entities.ComparisonResult, error) {
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError(MessageNoIDs)
	}

	rows := make([]entities.Row, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, a.row(id))
	}

	return &entities.ComparisonResult{
		Table: entities.ComparisonTable{
			Columns: append([]string(nil), Columns...),
			Rows:    rows,
		},
		NarrativeMD: narrative(ids),
		LitChunks:   []any{},
	}, nil
}

// GetDataset returns a copy of the protocol dataset
func (a *API) GetDataset(_ context.Context) (entities.ProtocolDataset, error) {
	out := make(entities.ProtocolDataset, len(a.dataset))
	for diagnosis, bySymptom := range a.dataset {
		copied := make(map[string]entities.SymptomProtocol, len(bySymptom))
		for symptom, p := range bySymptom {
			copied[symptom] = p.Clone()
		}
		out[diagnosis] = copied
	}
	return out, nil
}

// EmptyComparison is the body returned with a rejected comparison request
func EmptyComparison(message string) *entities.ComparisonResult {
	return &entities.ComparisonResult{
		Table:       entities.ComparisonTable{Columns: []string{}, Rows: []entities.Row{}},
		NarrativeMD: message,
		LitChunks:   []any{},
	}
}

func (a *API) row(id string) entities.Row {
	protocol, known := a.byID[id]

	name := id + " Name"
	title := "Study on " + id
	evidence, device := "N/A", "N/A"
	if known {
		name = protocol.Label
		title = "Study on " + protocol.Label
		evidence = protocol.EvidenceLevel
		device = protocol.Device
	}

	year := 2020 + idNumber(id)%4
	return entities.Row{
		name + " (Mocked Data)",
		pick(id == "p1" || id == "p3", "Figure-8 (Mock)", "H-Coil (Mock)"),
		pick(id == "p1", "10 Hz (Mock)", "iTBS (Mock)"),
		pick(id == "p1", "120% rMT (Mock)", "110% rMT (Mock)"),
		pulses(id),
		sessions(id),
		evidence,
		device,
		manufacturer(protocol.Device),
		title,
		year,
		fmt.Sprintf("10.1000/mock-%s-%d", id, year),
	}
}

func pulses(id string) int {
	switch id {
	case "p1":
		return 3000
	case "p2":
		return 1800
	default:
		return 2400
	}
}

func sessions(id string) int {
	switch id {
	case "p1":
		return 20
	case "p2":
		return 30
	default:
		return 25
	}
}

func manufacturer(device string) string {
	switch device {
	case "Device A":
		return "Mfg A"
	case "Device B":
		return "Mfg B"
	default:
		return "Mfg C"
	}
}

// idNumber parses the leading digits after the first character ("p3" -> 3)
func idNumber(id string) int {
	if len(id) < 2 {
		return 0
	}
	digits := id[1:]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0
	}
	return n
}

func narrative(ids []string) string {
	second := "N/A"
	if len(ids) > 1 {
		second = ids[1]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Mock Narrative for %s\n", strings.Join(ids, ", "))
	b.WriteString("This is a **mock comparison narrative** based on the selected IDs.\n")
	fmt.Fprintf(&b, "- Protocol %s often uses a Figure-8 coil for more focal stimulation.\n", ids[0])
	fmt.Fprintf(&b, "- Protocol %s might involve more sessions, increasing patient burden but potentially offering different efficacy.\n", second)
	b.WriteString("Clinical Pearl: Always cross-reference mock data with real-world clinical guidelines.")
	return b.String()
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
