package http

import (
	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(middleware.Compress(5, "application/json"))

	router.Get("/metrics", promhttp.Handler().ServeHTTP)

	router.Group(func(r chi.Router) {
		r.Use(h.withGlobalRateLimit)

		r.Get("/ping", h.ping)
		r.Get("/version", h.getServerVersion)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.signup)
			r.Post("/login", h.login)
			r.Post("/refresh", h.refresh)
			r.Get("/verify", h.verify)
			r.Get("/verify/{token}", h.verify)

			r.With(h.resetLimiter.middleware(app.MsgTooManyResetRequests)).
				Post("/request-password-reset", h.requestPasswordReset)
			r.Post("/reset-password/{token}", h.resetPassword)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Get("/me", h.me)
				r.With(h.verificationLimiter.middleware(app.MsgTooManyVerificationRequests)).
					Post("/send-verification", h.sendVerification)
			})
		})

		r.Route("/weights", func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/", h.getWeights)
			r.Put("/", h.putWeights)
			r.Post("/migrate", h.migrate)
			r.Post("/reset", h.reset)
			r.Get("/{year}/{month}", h.getMonth)
			r.Post("/{year}/{month}", h.saveMonth)
		})

		r.Get("/weather", h.getWeather)
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	return router
}
