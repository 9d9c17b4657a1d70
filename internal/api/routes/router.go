package routes

import (
	"net/http"

	"github.com/neurostream/protocolengine/internal/api/handlers"
	"github.com/neurostream/protocolengine/internal/api/middleware"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	protocolHandler *handlers.ProtocolHandler
	healthHandler   *handlers.HealthHandler

	allowedOrigins []string
	cacheMaxAge    int
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	protocolHandler *handlers.ProtocolHandler,
	healthHandler *handlers.HealthHandler,
	allowedOrigins []string,
	cacheMaxAge int,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		protocolHandler: protocolHandler,
		healthHandler:   healthHandler,
		allowedOrigins:  allowedOrigins,
		cacheMaxAge:     cacheMaxAge,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Protocol endpoints
	r.mux.HandleFunc("GET /api/protocol/list", r.protocolHandler.ListProtocols)
	r.mux.HandleFunc("POST /api/protocol/compare", r.protocolHandler.CompareProtocols)
	r.mux.HandleFunc("GET /protocols", r.protocolHandler.GetDataset)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.Logging(handler)
	handler = middleware.Observability(r.metrics)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.ResponseOptimization(r.cacheMaxAge)(handler)
	// CORS wraps everything so preflights never reach the handlers
	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}
