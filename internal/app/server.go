package app

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/uniconnect/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/uniconnect/internal/api/middlewares"
	"github.com/markdave123-py/uniconnect/internal/config"
	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
	"github.com/markdave123-py/uniconnect/internal/services"
	"github.com/markdave123-py/uniconnect/web"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewRouter builds the full route table over the given store and object storage.
func NewRouter(cfg *config.Config, db core.DbClient, obj core.ObjectClient) http.Handler {
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	directory := services.NewUserDirectory(db)
	threads := services.NewThreadService(db, directory)

	userHandler := handlers.NewUserHandler(services.NewUserService(db, tokens))
	noteHandler := handlers.NewNoteHandler(db, directory)
	projectHandler := handlers.NewProjectHandler(db, services.NewProjectService(db, directory), directory)
	messageHandler := handlers.NewMessageHandler(db, directory)
	listingHandler := handlers.NewListingHandler(db, directory)
	eventHandler := handlers.NewEventHandler(db, directory)
	lostItemHandler := handlers.NewLostItemHandler(db, directory)
	listingThreads := handlers.NewThreadHandler(threads, models.ListingThread)
	lostItemThreads := handlers.NewThreadHandler(threads, models.LostItemThread)
	uploadHandler := handlers.NewUploadHandler(obj, cfg.MaxUploadBytes)
	healthHandler := handlers.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
	}))

	// Serve the embedded frontend
	static, err := fs.Sub(web.Files, "static")
	if err != nil {
		log.Fatalf("web assets: %v", err)
	}
	r.Handle("/*", http.FileServer(http.FS(static)))

	// API routes
	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Get("/health", healthHandler.Check)
		api.Post("/users/register", userHandler.Register)
		api.Post("/users/login", userHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.AuthMiddleware(tokens))

			protected.Get("/users/me", userHandler.Me)
			protected.Put("/users/me", userHandler.UpdateMe)

			protected.Get("/notes", noteHandler.List)
			protected.Post("/notes", noteHandler.Create)

			protected.Get("/projects", projectHandler.List)
			protected.Post("/projects", projectHandler.Create)
			protected.Post("/projects/review/{id}", projectHandler.Review)

			protected.Get("/messages/{room}", messageHandler.ListByRoom)
			protected.Post("/messages", messageHandler.Create)

			protected.Get("/listings", listingHandler.List)
			protected.Post("/listings", listingHandler.Create)

			protected.Get("/events", eventHandler.List)
			protected.Post("/events", eventHandler.Create)

			protected.Get("/lost-items", lostItemHandler.List)
			protected.Post("/lost-items", lostItemHandler.Create)

			protected.Route("/conversations", listingThreads.Routes)
			protected.Route("/lost-item-conversations", lostItemThreads.Routes)

			protected.Post("/uploads", uploadHandler.Upload)
		})
	})

	return r
}

// NewServer wraps the router in an http.Server listening on the configured port.
func NewServer(cfg *config.Config, handler http.Handler) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
