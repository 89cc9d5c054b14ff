package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grvbrk/yt_approval_hub/internal/app"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httprate.LimitAll(app.Config.RateLimit, time.Minute))
	r.Use(app.MiddlewareHandler.RequestLogger)
	r.Use(app.MiddlewareHandler.Security)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.Envelope{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(100, time.Minute))
		r.Use(app.MiddlewareHandler.Cors)
		r.Use(app.MiddlewareHandler.Workspace)

		r.Get("/session", app.Auth.AuthUser)

		r.Route("/dialog", func(r chi.Router) {
			r.Post("/open", app.Auth.OpenDialog)
			r.Post("/close", app.Auth.CloseDialog)
			r.Post("/back", app.Auth.BackDialog)
			r.Post("/role", app.Auth.SelectRole)
		})

		r.Post("/login", app.Auth.Login)
		r.Post("/logout", app.Auth.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(app.MiddlewareHandler.Cors)
		r.Use(app.MiddlewareHandler.ExistingWorkspace)
		r.Use(app.MiddlewareHandler.Authenticate)

		r.Get("/view", app.ViewHandler.HandlerGetView)
		r.Get("/notifications", app.ViewHandler.HandlerGetNotifications)
		r.Get("/videos", app.VideoHandler.HandlerGetVideos)
		r.Get("/videos/{id}", app.VideoHandler.HandlerGetVideoByID)

		// creator routes
		r.Group(func(r chi.Router) {
			r.Use(app.MiddlewareHandler.RequireRole(models.RoleCreator))

			r.Route("/platform", func(r chi.Router) {
				r.Post("/open", app.PlatformAuth.OpenDialog)
				r.Post("/close", app.PlatformAuth.CloseDialog)
				r.Post("/link", app.PlatformAuth.Link)
			})

			r.Post("/videos/{id}/approve", app.VideoHandler.HandlerApproveVideo)
			r.Post("/videos/{id}/reject", app.VideoHandler.HandlerRejectVideo)
		})

		// editor routes
		r.Route("/upload", func(r chi.Router) {
			r.Use(app.MiddlewareHandler.RequireRole(models.RoleEditor))

			r.Get("/", app.UploadHandler.HandlerGetUploadForm)
			r.Post("/file", app.UploadHandler.HandlerSetFile)
			r.Delete("/file", app.UploadHandler.HandlerRemoveFile)
			r.Put("/metadata", app.UploadHandler.HandlerSetMetadata)
			r.Post("/submit", app.UploadHandler.HandlerSubmit)
		})
	})

	return r
}
