package api

import (
	"database/sql"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avelez/photodeck-be/internal/api/handlers"
	"github.com/avelez/photodeck-be/internal/auth"
	"github.com/avelez/photodeck-be/internal/objectstore"
	"github.com/avelez/photodeck-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	db *sql.DB,
	store objectstore.Store,
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	imageService services.ImageServiceProvider,
	allowedOrigins string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(allowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, store)
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	imageHandler := handlers.NewImageHandler(imageService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/users", userHandler.Register)

		// Everything below requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())

			r.Get("/auth/verify", authHandler.Verify)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/username/{username}", userHandler.GetByUsername)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", userHandler.Get)
					r.Put("/", userHandler.Update)
					r.Delete("/", userHandler.Delete)
				})
			})

			r.Route("/images", func(r chi.Router) {
				r.Post("/upload", imageHandler.Upload)
				r.Get("/directories", imageHandler.Directories)
				r.Route("/{directory}", func(r chi.Router) {
					r.Get("/", imageHandler.List)
					r.Get("/{file}", imageHandler.Serve)
					r.Delete("/{file}", imageHandler.Delete)
				})
			})
		})
	})

	return r
}
