package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skuehn/lernbox/internal/api"
	apimiddleware "github.com/skuehn/lernbox/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		&app.config.Auth,
	)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	snapshotHandler := api.NewSnapshotHandler(app.snapshotStore, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Get("/health", app.handleHealth)

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/sessions", studyHandler.CreateSession)
			r.Get("/sessions", studyHandler.ListSessions)
			r.Get("/sessions/{id}", studyHandler.GetSession)
			r.Delete("/sessions/{id}", studyHandler.EndSession)
			r.Get("/sessions/{id}/compartments", studyHandler.GetCompartments)
			r.Post("/sessions/{id}/draw", studyHandler.Draw)
			r.Post("/sessions/{id}/answer", studyHandler.Answer)
			r.Patch("/sessions/{id}/settings", studyHandler.UpdateSettings)
			r.Post("/sessions/{id}/save", studyHandler.SaveSnapshot)
			r.Post("/sessions/{id}/load", studyHandler.LoadSnapshot)
			r.Get("/sessions/{id}/export", studyHandler.Export)

			r.Get("/snapshots", snapshotHandler.ListSnapshots)
			r.Delete("/snapshots/{id}", snapshotHandler.DeleteSnapshot)
		})
	})

	return r
}

// handleHealth reports process liveness. It deliberately does not touch
// the database; a saturated pool should not flap the liveness probe.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
