package catalog

import (
	"context"

	"github.com/neurostream/protocolengine/internal/adapters/cache"
	"github.com/neurostream/protocolengine/internal/adapters/providers/mockapi"
	"github.com/neurostream/protocolengine/internal/domain/providers"
	"github.com/neurostream/protocolengine/internal/infrastructure/clients/protocolapi"
	redisclient "github.com/neurostream/protocolengine/internal/infrastructure/clients/redis"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	"github.com/neurostream/protocolengine/pkg/config"
)

// cacheKeyPrefix namespaces this service's keys in a shared Redis
const cacheKeyPrefix = "protocolengine:"

// Stack is a wired ProtocolAPI with the resources it holds
type Stack struct {
	API   providers.ProtocolAPI
	Cache providers.CacheProvider
	Redis *redisclient.Client
	Mock  bool
}

// Close releases the Redis connection, if any
func (s *Stack) Close() error {
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}

// NewStack wires the protocol API for cfg: the HTTP client when a URL is
// configured (unless forceMock), the embedded mock otherwise, behind the
// cache-aside decorator. Redis is used when enabled and reachable; otherwise
// an in-memory cache is used and the failure logged.
func NewStack(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, forceMock bool) (*Stack, error) {
	stack := &Stack{}

	var upstream providers.ProtocolAPI
	if forceMock || cfg.ProtocolAPI.UseMock() {
		mock, err := mockapi.New()
		if err != nil {
			return nil, err
		}
		upstream = mock
		stack.Mock = true
	} else {
		upstream = protocolapi.NewClient(cfg.ProtocolAPI.URL,
			protocolapi.WithTimeout(cfg.ProtocolAPI.Timeout),
			protocolapi.WithMetrics(metrics),
		)
	}

	stack.Cache = cache.NewMemoryAdapter()
	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Redis unavailable, using in-memory cache")
		} else {
			stack.Redis = client
			stack.Cache = cache.NewRedisAdapter(client, cacheKeyPrefix)
		}
	}

	stack.API = NewCachedProtocolAPI(upstream, stack.Cache, metrics,
		cfg.Cache.CatalogTTLSeconds, cfg.Cache.ComparisonTTLSeconds)
	return stack, nil
}
