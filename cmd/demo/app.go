package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/servo"
)

// application holds the demo server's dependencies.
type application struct {
	config   *Config
	logger   *slog.Logger
	registry *userRegistry
	signup   *servo.ServiceObject
	login    *servo.ServiceObject
}

// newApplication wires the registry, the token issuer and the two service
// object definitions.
func newApplication(cfg *Config, logger *slog.Logger) *application {
	registry := newUserRegistry()
	tokens := newTokenIssuer(cfg.Auth)

	return &application{
		config:   cfg,
		logger:   logger,
		registry: registry,
		signup:   newSignupService(registry, tokens, logger),
		login:    newLoginService(registry, tokens, logger),
	}
}

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", app.handleSignup)
		r.Post("/login", app.handleLogin)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
