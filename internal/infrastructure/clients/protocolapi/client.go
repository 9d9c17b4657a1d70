package protocolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	apperrors "github.com/neurostream/protocolengine/pkg/errors"
)

const (
	listPath    = "/api/protocol/list"
	comparePath = "/api/protocol/compare"
	datasetPath = "/protocols"

	// RequestIDHeader carries the caller's request id to the protocol API
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of an error response is read for its message
	maxErrorBody = 64 << 10
)

// HTTPClient talks to the remote protocol-data API
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithTimeout overrides the default 10s request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *HTTPClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMetrics records upstream latency on the given metrics
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *HTTPClient) {
		c.metrics = metrics
	}
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ providers.ProtocolAPI = (*HTTPClient)(nil)

// ListProtocols implements providers.ProtocolAPI
func (c *HTTPClient) ListProtocols(ctx context.Context, diagnosis string) ([]entities.ProtocolRecord, error) {
	parsed, err := url.Parse(c.baseURL + listPath)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid protocol API URL", err)
	}
	if diagnosis != "" {
		query := parsed.Query()
		query.Set("diagnosis", diagnosis)
		parsed.RawQuery = query.Encode()
	}

	out := []entities.ProtocolRecord{}
	if err := c.doJSON(ctx, "list_protocols", http.MethodGet, parsed.String(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompareProtocols implements providers.ProtocolAPI. Numeric cells are
// decoded as json.Number so they keep their exact text.
func (c *HTTPClient) CompareProtocols(ctx context.Context, ids []string) (*entities.ComparisonResult, error) {
	if ids == nil {
		ids = []string{}
	}
	body, err := json.Marshal(entities.ComparisonRequest{IDs: ids})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode comparison request", err)
	}

	out := &entities.ComparisonResult{}
	if err := c.doJSON(ctx, "compare_protocols", http.MethodPost, c.baseURL+comparePath, bytes.NewReader(body), out); err != nil {
		return nil, err
	}
	if err := out.Table.Validate(); err != nil {
		return nil, apperrors.NewDataUnavailableError("protocol API returned a malformed comparison table", err)
	}
	return out, nil
}

// GetDataset implements providers.ProtocolAPI
func (c *HTTPClient) GetDataset(ctx context.Context) (entities.ProtocolDataset, error) {
	out := entities.ProtocolDataset{}
	if err := c.doJSON(ctx, "get_dataset", http.MethodGet, c.baseURL+datasetPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type errorBody struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	NarrativeMD string `json:"narrative_md"`
}

func (c *HTTPClient) doJSON(ctx context.Context, operation, method, endpoint string, body io.Reader, out interface{}) error {
	ctx, span := observability.StartSpan(ctx, "protocolapi."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", endpoint),
	)

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return apperrors.NewInternalError("failed to build protocol API request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := observability.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = observability.NewRequestID()
	}
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordError(span, err)
		span.SetStatus(codes.Error, "transport failure")
		observability.RecordUpstreamMetric(ctx, c.metrics, operation, 0, time.Since(start))
		return apperrors.NewDataUnavailableError("protocol API is unreachable", err)
	}
	defer resp.Body.Close()

	observability.RecordUpstreamMetric(ctx, c.metrics, operation, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusBadRequest {
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = "protocol API rejected the request"
		}
		span.SetStatus(codes.Error, msg)
		return apperrors.NewValidationError(msg)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("protocol api returned status %d", resp.StatusCode)
		observability.RecordError(span, err)
		span.SetStatus(codes.Error, err.Error())
		return apperrors.NewDataUnavailableError("protocol API request failed", err)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		observability.RecordError(span, err)
		span.SetStatus(codes.Error, "decode failure")
		return apperrors.NewDataUnavailableError("protocol API returned an unreadable response", err)
	}

	return nil
}

func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, msg := range []string{parsed.Error, parsed.Message, parsed.NarrativeMD} {
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg
		}
	}
	return ""
}
