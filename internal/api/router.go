package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Gradebook/internal/config"
	"github.com/MikeSquared-Agency/Gradebook/internal/hermes"
	"github.com/MikeSquared-Agency/Gradebook/internal/store"
)

func NewRouter(s store.Store, h hermes.Client, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitRPM))

	auth := NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	modules := NewModulesHandler(s, h, cfg.Scale(), cfg.Method())
	assessments := NewAssessmentsHandler(s, h, logger)
	outcomes := NewOutcomeHandler(s, logger)
	cat := NewCatalogHandler(s, h)
	scales := NewScalesHandler(cfg.Scale())
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scales/{scale}", scales.Bands)
		r.Get("/classify", scales.Classify)
		r.Get("/catalog", cat.List)

		r.Group(func(r chi.Router) {
			r.Use(UserMiddleware(auth))

			r.Post("/modules", modules.Create)
			r.Get("/modules", modules.List)
			r.Post("/modules/default", modules.CreateDefault)
			r.Get("/modules/{id}", modules.Get)
			r.Patch("/modules/{id}", modules.Update)
			r.Delete("/modules/{id}", modules.Delete)

			r.Post("/modules/{id}/assessments", assessments.Create)
			r.Patch("/assessments/{id}", assessments.Update)
			r.Delete("/assessments/{id}", assessments.Delete)
			r.Post("/assessments/{id}/mark", assessments.EnterMark)

			r.Get("/modules/{id}/outcome", outcomes.Outcome)
			r.Post("/modules/{id}/whatif", outcomes.WhatIf)
			r.Get("/modules/{id}/export", outcomes.Export)
			r.Get("/dashboard", outcomes.Dashboard)

			r.Post("/catalog/enroll", cat.Enroll)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Put("/admin/catalog/{code}", cat.Upsert)
			r.Get("/admin/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
