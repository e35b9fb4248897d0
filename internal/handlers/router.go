package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	mw "moodjournal/internal/middleware"
)

type RouterConfig struct {
	Logger  *zap.Logger
	Auth    *mw.AuthMiddleware
	Entries *EntryHandler
	Recaps  *RecapHandler
	Health  *HealthHandler

	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
	Metrics     bool
	// RecapRateLimit caps forced recap generations per user per hour.
	// Zero disables the limit.
	RecapRateLimit int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.ZapRequestLogger(cfg.Logger))
	if cfg.Metrics {
		r.Use(mw.Instrument)
	}
	r.Use(mw.Recoverer(cfg.Logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", cfg.Health.Live)
	r.Get("/readyz", cfg.Health.Ready)
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(cfg.Auth.RequireAuth)
		api.Route("/entries", func(er chi.Router) {
			er.Post("/", cfg.Entries.Create)
			er.Get("/", cfg.Entries.List)
			er.Get("/stats/daily", cfg.Entries.Daily)
			er.Get("/stats/summary", cfg.Entries.Summary)
			er.Get("/weekly_recap", cfg.Recaps.Get)
			er.With(recapLimiter(cfg.RecapRateLimit)).Get("/generate_new_weekly_recap", cfg.Recaps.Generate)
			er.Get("/{id}", cfg.Entries.Get)
			er.Put("/{id}", cfg.Entries.Update)
			er.Delete("/{id}", cfg.Entries.Delete)
		})
	})
	return r
}

// recapLimiter keys on the authenticated user, so it must run after RequireAuth.
func recapLimiter(perHour int) func(http.Handler) http.Handler {
	if perHour <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perHour, time.Hour,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return userID(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many recap requests, try again later"})
		}),
	)
}
