package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
)

// CacheWarmingService primes the protocol caches before traffic arrives.
// It goes through the cached ProtocolAPI so every successful call leaves
// an entry behind.
type CacheWarmingService struct {
	api         providers.ProtocolAPI
	diagnoses   []string
	comparisons [][]string
}

// NewCacheWarmingService creates a warmer for the catalog of every diagnosis,
// the dataset and the given comparison id sets
func NewCacheWarmingService(api providers.ProtocolAPI, diagnoses []string, comparisons [][]string) *CacheWarmingService {
	return &CacheWarmingService{
		api:         api,
		diagnoses:   diagnoses,
		comparisons: comparisons,
	}
}

// ParseComparisonSets reads id sets written as "p1,p2;p1,p3". Blank sets are skipped.
func ParseComparisonSets(sets []string) [][]string {
	out := make([][]string, 0, len(sets))
	for _, set := range sets {
		var ids []string
		for _, id := range strings.Split(set, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			out = append(out, ids)
		}
	}
	return out
}

// WarmCache loads everything it knows about. Individual failures are logged
// and do not stop the run; they are returned joined.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "CacheWarmingService.WarmCache")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	logger.Info().Msg("Starting cache warming...")

	var errs []error
	warmed := 0
	try := func(what string, fn func() error) {
		if err := fn(); err != nil {
			logger.Warn().Err(err).Str("entry", what).Msg("failed to warm cache entry")
			errs = append(errs, fmt.Errorf("%s: %w", what, err))
			return
		}
		warmed++
	}

	try("dataset", func() error {
		_, err := s.api.GetDataset(ctx)
		return err
	})

	for _, diagnosis := range append([]string{""}, s.diagnoses...) {
		try("catalog "+diagnosis, func() error {
			_, err := s.api.ListProtocols(ctx, diagnosis)
			return err
		})
	}

	for _, ids := range s.comparisons {
		try("comparison "+strings.Join(ids, ","), func() error {
			_, err := s.api.CompareProtocols(ctx, ids)
			return err
		})
	}

	err := errors.Join(errs...)
	observability.RecordError(span, err)
	logger.Info().Int("warmed", warmed).Int("failed", len(errs)).Msg("Cache warming completed")
	return err
}
