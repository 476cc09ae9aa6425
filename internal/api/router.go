package api

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spatialgrid/internal/spatialhash"
)

// GridEngine defines the read-only grid operations the API layer calls.
// None of these methods mention the item payload type, so a
// *spatialhash.SpatialHash[T] satisfies this interface for any T — the
// HTTP boundary only ever deals in ids, never in items. Keeping this
// minimal enables mocking for tests without constructing a real grid.
type GridEngine interface {
	ItemCount() int
	BucketItemCount() int
	CellCount() spatialhash.Int3
	CellSize() spatialhash.Float3
	WorldBounds() spatialhash.AABB
	QueryAABB(query spatialhash.AABB) []spatialhash.ItemId
	QueryOBB(query spatialhash.OBB) []spatialhash.ItemId
	RayCast(origin, dir spatialhash.Float3, length float64) (spatialhash.ItemId, spatialhash.Float3, bool)
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Grid: mockGrid,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Grid is the spatial index being served (required)
	Grid GridEngine

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses a permissive localhost-only default.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
//
// raycastMu serializes every call into grid.RayCast: RayCast writes
// through a small scratch area on the grid itself (ray_origin,
// ray_direction, has_hit, hit_id — see spatialhash.go), so it is
// exclusive-mode only and must never run on two goroutines at once.
// net/http serves one goroutine per request, so without this mutex two
// concurrent POST /api/grid/raycast requests would race on that scratch
// state.
type routerHandlers struct {
	grid      GridEngine
	raycastMu sync.Mutex
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It opens no network listeners and launches no WebSocket workers. When
// cfg.RateLimiter is nil it creates an IPRateLimiter, and that limiter
// starts its stale-entry cleanup goroutine.
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{grid: cfg.Grid}

	r.Route("/api/grid", func(r chi.Router) {
		r.Get("/stats", h.handleGetStats)
		r.Post("/query/aabb", h.handleQueryAABB)
		r.Post("/query/obb", h.handleQueryOBB)
		r.Post("/raycast", h.handleRaycast)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// GetRateLimiterFromRouter returns cfg.RateLimiter when it is set. Otherwise it
// builds a new IPRateLimiter from cfg.RateLimitConfig (or DefaultRateLimitConfig),
// which is a separate instance from the one a router built from cfg uses.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
