package routes

import (
	"bharatrohan/hangar/internal/api"
	"bharatrohan/hangar/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers the database webhook and the /api/v1 dashboard API
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	// Database webhook, authenticated by shared secret
	r.With(middleware.WebhookSecret(deps.Config.Alerts.SharedSecret)).
		Post("/api/alerts/check", api.AlertCheckHandler(deps))

	writeLimiter := middleware.NewRateLimiter(
		deps.Config.HTTP.UploadRateLimit,
		deps.Config.HTTP.UploadBurst,
		"127.0.0.1",
	)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/drones", api.ListDronesHandler(deps))
		v1.Get("/drones/{id}", api.GetDroneHandler(deps))
		v1.Get("/drones/{id}/notes", api.ListNotesHandler(deps))

		v1.Get("/models", api.ListModelsHandler(deps))
		v1.Get("/models/{model}/drones", api.ListModelDronesHandler(deps))
		v1.Get("/models/{model}/drones/{serial}", api.GetModelDroneHandler(deps))

		v1.Get("/alerts", api.ListAlertsHandler(deps))
		v1.Delete("/alerts/{id}", api.DeleteAlertHandler(deps))

		v1.Post("/logs/{id}/download-link", api.CreateDownloadLinkHandler(deps))
		v1.Get("/logs/download", api.DownloadFlightLogHandler(deps))

		// Writes that touch storage are rate limited per client IP
		v1.Group(func(limited chi.Router) {
			limited.Use(writeLimiter.Middleware)
			limited.Post("/logs", api.UploadFlightLogHandler(deps))
			limited.Post("/drones/{id}/notes", api.CreateNoteHandler(deps))
			limited.Delete("/notes/{id}", api.DeleteNoteHandler(deps))
		})
	})
}
