package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "engagement-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера и собирает все роуты.
func NewServer(
	port string,
	allowedOrigins []string,
	registry core_port.SessionRegistryPort,
	engagement *EngagementHandler,
	collections *CollectionHandler,
	recommendations *RecommendationHandler,
	linking *LinkingHandler,
	sessions *SessionHandler,
	baseLogger core_port.LoggerPort) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		// AllowedOrigins - список доменов, с которых разрешены запросы
		AllowedOrigins: allowedOrigins,

		// AllowedMethods - список разрешенных HTTP-методов.
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},

		// AllowedHeaders - список разрешенных заголовков в запросе
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-Trace-ID"},

		AllowCredentials: true,
	}))
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Группа роутов нашего API. Идентификацию пользователя выполняет
	// api-gateway, сюда запросы приходят с заголовком X-User-ID.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(registry))

		r.Route("/saved", func(r chi.Router) {
			r.Get("/", engagement.ListSaved)
			r.Post("/refresh", engagement.RefreshSaved)
			r.Post("/{propertyID}", engagement.SaveProperty)
			r.Delete("/{propertyID}", engagement.UnsaveProperty)
		})

		r.Route("/recently-viewed", func(r chi.Router) {
			r.Get("/", engagement.ListRecentlyViewed)
			r.Post("/", engagement.AddRecentlyViewed)
			r.Delete("/", engagement.ClearRecentlyViewed)
			r.Delete("/{propertyID}", engagement.RemoveRecentlyViewed)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", collections.ListCollections)
			r.Post("/", collections.CreateCollection)
			r.Post("/{collectionID}/properties/{propertyID}", collections.AddToCollection)
			r.Delete("/{collectionID}/properties/{propertyID}", collections.RemoveFromCollection)
		})

		r.Post("/recommendations/personalized", recommendations.GetPersonalized)
		r.Get("/properties/{propertyID}/similar", recommendations.GetSimilar)

		r.Post("/clients/{clientID}/properties", linking.LinkProperty)

		r.Post("/session/logout", sessions.Logout)
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
