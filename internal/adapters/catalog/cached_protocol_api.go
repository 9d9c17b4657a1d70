package catalog

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/neurostream/protocolengine/internal/domain/entities"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
)

// Cache TTLs (in seconds)
const (
	DefaultCatalogTTL    = 180  // 3 minutes for the catalog and dataset
	DefaultComparisonTTL = 3600 // 1 hour for comparison results
)

// Narratives returned in place of a real comparison write-up. Results
// carrying one of these are never cached.
var placeholderNarratives = []string{
	"Error generating narrative. Please try again later.",
	"Narrative generation is currently unavailable (API key not configured).",
	"No protocol data found to generate a comparison narrative.",
	"No IDs provided for mock comparison.",
}

// CachedProtocolAPI wraps a ProtocolAPI with cache-aside caching. Concurrent
// identical requests share one upstream call.
type CachedProtocolAPI struct {
	api           providers.ProtocolAPI
	cache         providers.CacheProvider
	metrics       *observability.Metrics
	group         singleflight.Group
	catalogTTL    int
	comparisonTTL int
}

// NewCachedProtocolAPI creates a caching decorator. Non-positive TTLs fall
// back to the defaults.
func NewCachedProtocolAPI(api providers.ProtocolAPI, cache providers.CacheProvider, metrics *observability.Metrics, catalogTTL, comparisonTTL int) *CachedProtocolAPI {
	if catalogTTL <= 0 {
		catalogTTL = DefaultCatalogTTL
	}
	if comparisonTTL <= 0 {
		comparisonTTL = DefaultComparisonTTL
	}
	return &CachedProtocolAPI{
		api:           api,
		cache:         cache,
		metrics:       metrics,
		catalogTTL:    catalogTTL,
		comparisonTTL: comparisonTTL,
	}
}

var _ providers.ProtocolAPI = (*CachedProtocolAPI)(nil)

// Cache key generators
func catalogCacheKey(diagnosis string) string {
	if diagnosis == "" {
		return "catalog:all"
	}
	return fmt.Sprintf("catalog:%s", strings.ToLower(diagnosis))
}

func datasetCacheKey() string {
	return "dataset"
}

// ComparisonCacheKey returns the cache key of a comparison. Rows and the
// narrative follow the request order, so the key keeps it.
func ComparisonCacheKey(ids []string) string {
	sum := md5.Sum([]byte(strings.Join(ids, ",")))
	return "comparison:" + hex.EncodeToString(sum[:])
}

// ListProtocols retrieves the catalog with caching
func (a *CachedProtocolAPI) ListProtocols(ctx context.Context, diagnosis string) ([]entities.ProtocolRecord, error) {
	key := catalogCacheKey(diagnosis)

	var cached []entities.ProtocolRecord
	if a.lookup(ctx, key, "catalog", &cached) {
		return cached, nil
	}

	v, err, _ := a.group.Do(key, func() (interface{}, error) {
		records, err := a.api.ListProtocols(ctx, diagnosis)
		if err != nil {
			return nil, err
		}
		a.store(ctx, key, records, a.catalogTTL)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]entities.ProtocolRecord)), nil
}

// CompareProtocols retrieves a comparison with caching. Errors are never
// cached and neither are placeholder results.
func (a *CachedProtocolAPI) CompareProtocols(ctx context.Context, ids []string) (*entities.ComparisonResult, error) {
	if len(ids) == 0 {
		return a.api.CompareProtocols(ctx, ids)
	}
	key := ComparisonCacheKey(ids)

	var cached entities.ComparisonResult
	if a.lookup(ctx, key, "comparison", &cached) {
		return &cached, nil
	}

	v, err, _ := a.group.Do(key, func() (interface{}, error) {
		result, err := a.api.CompareProtocols(ctx, ids)
		if err != nil {
			return nil, err
		}
		if cacheable(result) {
			a.store(ctx, key, result, a.comparisonTTL)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	result := *v.(*entities.ComparisonResult)
	return &result, nil
}

// GetDataset retrieves the protocol dataset with caching
func (a *CachedProtocolAPI) GetDataset(ctx context.Context) (entities.ProtocolDataset, error) {
	key := datasetCacheKey()

	var cached entities.ProtocolDataset
	if a.lookup(ctx, key, "dataset", &cached) {
		return cached, nil
	}

	v, err, _ := a.group.Do(key, func() (interface{}, error) {
		dataset, err := a.api.GetDataset(ctx)
		if err != nil {
			return nil, err
		}
		a.store(ctx, key, dataset, a.catalogTTL)
		return dataset, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(entities.ProtocolDataset), nil
}

// Invalidate drops the cached comparison for ids
func (a *CachedProtocolAPI) Invalidate(ctx context.Context, ids []string) error {
	return a.cache.Delete(ctx, ComparisonCacheKey(ids))
}

// lookup reads key into out. Misses and cache failures both fall through to
// the upstream API; failures are only logged.
func (a *CachedProtocolAPI) lookup(ctx context.Context, key, keyspace string, out interface{}) bool {
	data, err := a.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, a.metrics, keyspace)
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("cache get failed")
		}
		return false
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("failed to decode cached value")
		observability.RecordCacheMiss(ctx, a.metrics, keyspace)
		return false
	}

	observability.RecordCacheHit(ctx, a.metrics, keyspace)
	return true
}

func (a *CachedProtocolAPI) store(ctx context.Context, key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("failed to encode value for cache")
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("cache set failed")
	}
}

func cacheable(result *entities.ComparisonResult) bool {
	if result == nil || result.Table.IsEmpty() {
		return false
	}
	return !slices.Contains(placeholderNarratives, strings.TrimSpace(result.NarrativeMD))
}
