package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

// maxCompareBody bounds the compare request body
const maxCompareBody = 1 << 20

// ProtocolHandler serves the protocol-data API
type ProtocolHandler struct {
	api providers.ProtocolAPI
}

// NewProtocolHandler creates a new protocol handler
func NewProtocolHandler(api providers.ProtocolAPI) *ProtocolHandler {
	return &ProtocolHandler{api: api}
}

// ListProtocols handles GET /api/protocol/list
func (h *ProtocolHandler) ListProtocols(w http.ResponseWriter, r *http.Request) {
	diagnosis := r.URL.Query().Get("diagnosis")

	protocols, err := h.api.ListProtocols(r.Context(), diagnosis)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if protocols == nil {
		protocols = []entities.ProtocolRecord{}
	}

	respondWithJSON(w, http.StatusOK, protocols)
}

// CompareProtocols handles POST /api/protocol/compare. An empty id list is
// answered with 400 and an empty table.
func (h *ProtocolHandler) CompareProtocols(w http.ResponseWriter, r *http.Request) {
	var req entities.ComparisonRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCompareBody)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ids := entities.UniqueValues(req.IDs)
	if len(ids) > entities.MaxComparedProtocols {
		respondWithJSON(w, http.StatusBadRequest, emptyComparison("At most 4 protocols can be compared."))
		return
	}

	result, err := h.api.CompareProtocols(r.Context(), ids)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
			respondWithJSON(w, http.StatusBadRequest, emptyComparison(appErr.Message))
			return
		}
		h.respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetDataset handles GET /protocols
func (h *ProtocolHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.api.GetDataset(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dataset)
}

func (h *ProtocolHandler) respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("unexpected protocol API error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeDataUnavailable, apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("protocol data unavailable")
		respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("protocol API failure")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func emptyComparison(message string) entities.ComparisonResult {
	return entities.ComparisonResult{
		Table:       entities.ComparisonTable{Columns: []string{}, Rows: []entities.Row{}},
		NarrativeMD: message,
		LitChunks:   []any{},
	}
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
