// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/phuslu/log"

	"geofeed/internal/config"
	"geofeed/internal/domain/discovery"
	"geofeed/internal/server/handlers"
	"geofeed/internal/service/geo"
)

// Dependencies are the services the HTTP surface exposes
type Dependencies struct {
	Engine discovery.Engine
	Feed   handlers.FeedService
	Venues *geo.VenueDetector

	// NATSConn and RefreshSubject back /ws/trending; a nil conn disables it
	NATSConn       *nats.Conn
	RefreshSubject string
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies, logger *log.Logger) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	discoveryHandler := handlers.NewDiscoveryHandler(deps.Engine, logger)
	feedHandler := handlers.NewFeedHandler(deps.Feed, logger)
	geoHandler := handlers.NewGeoHandler(deps.Venues)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/discovery", func(r chi.Router) {
				r.Get("/trending", discoveryHandler.GetTrending)
				r.Get("/nearby", discoveryHandler.GetPopularNearby)
				r.Get("/following", discoveryHandler.GetFollowingActivity)
				r.Delete("/cache", discoveryHandler.ClearCache)
			})

			r.Get("/feed", feedHandler.GetFeed)

			r.Route("/geo", func(r chi.Router) {
				r.Get("/venue", geoHandler.GetVenue)
				r.Get("/distance", geoHandler.GetDistance)
			})
		})
	})

	// Live trending refreshes
	var events handlers.EventSubscriber
	if deps.NATSConn != nil {
		events = handlers.NewNATSSubscriber(deps.NATSConn)
	}
	router.Get("/ws/trending", handlers.TrendingWebSocketHandler(events, deps.RefreshSubject, logger))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
