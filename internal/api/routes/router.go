package routes

import (
	"net/http"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/api/handlers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/api/middleware"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	matchHandler     *handlers.MatchHandler
	providerHandler  *handlers.ProviderHandler
	synthesisHandler *handlers.SynthesisHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	matchHandler *handlers.MatchHandler,
	providerHandler *handlers.ProviderHandler,
	synthesisHandler *handlers.SynthesisHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		matchHandler:     matchHandler,
		providerHandler:  providerHandler,
		synthesisHandler: synthesisHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Matching endpoint
	r.mux.HandleFunc("POST /api/match/providers", r.matchHandler.MatchProviders)

	// Provider directory endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)
	r.mux.HandleFunc("GET /api/providers/{id}/listings", r.providerHandler.GetProviderListings)
	r.mux.HandleFunc("GET /api/providers/{id}/availability", r.providerHandler.GetProviderAvailability)

	// Admin endpoint for explicit synthetic listing materialization
	if r.synthesisHandler != nil {
		r.mux.HandleFunc("POST /api/admin/synthetic-listings", r.synthesisHandler.CreateSyntheticListing)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
