package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olebek/contacts-be/internal/api/handlers"
	"github.com/olebek/contacts-be/internal/auth"
	"github.com/olebek/contacts-be/internal/avatar"
	"github.com/olebek/contacts-be/internal/config"
	"github.com/olebek/contacts-be/internal/email"
	"github.com/olebek/contacts-be/internal/services"
	"github.com/olebek/contacts-be/internal/upload"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	contactService services.ContactServiceProvider,
	mailer email.Sender,
	avatars *avatar.Store,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, mailer, avatars)
	contactHandler := handlers.NewContactHandler(contactService)

	authenticator := auth.NewAuthenticator(tokens, userService)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Get("/verify/{verificationToken}", userHandler.Verify)
		r.Post("/verify", userHandler.ResendVerify)
		r.Post("/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Middleware())
			r.Get("/current", userHandler.Current)
			r.Post("/logout", userHandler.Logout)
			r.With(upload.Middleware(cfg.TmpDir, "avatar")).Patch("/avatars", userHandler.UpdateAvatar)
			r.Patch("/{id}", userHandler.UpdateSubscription)
		})
	})

	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(authenticator.Middleware())
		r.Get("/", contactHandler.List)
		r.Post("/", contactHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", contactHandler.Get)
			r.Put("/", contactHandler.Update)
			r.Delete("/", contactHandler.Delete)
			r.Patch("/favorite", contactHandler.UpdateFavorite)
		})
	})

	// Processed avatars are served as static files.
	fileServer := http.StripPrefix("/avatars/", http.FileServer(http.Dir(cfg.AvatarDir)))
	r.Get("/avatars/*", fileServer.ServeHTTP)

	return r
}
