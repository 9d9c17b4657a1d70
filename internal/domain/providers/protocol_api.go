package providers

import (
	"context"

	"github.com/neurostream/protocolengine/internal/domain/entities"
)

// ProtocolAPI is the remote protocol-data collaborator. The HTTP client and the
// in-process mock both implement it.
type ProtocolAPI interface {
	// ListProtocols returns the protocol catalog, optionally narrowed by diagnosis
	ListProtocols(ctx context.Context, diagnosis string) ([]entities.ProtocolRecord, error)

	// CompareProtocols returns the comparison table and narrative for the given ids.
	// An empty id list is rejected with a validation error.
	CompareProtocols(ctx context.Context, ids []string) (*entities.ComparisonResult, error)

	// GetDataset returns the diagnosis -> symptom -> protocol lookup table
	GetDataset(ctx context.Context) (entities.ProtocolDataset, error)
}
