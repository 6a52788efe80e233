// Package peptidetracker собирает HTTP API трекера пептидной терапии.
package peptidetracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/alerts/alertsaction"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/alerts/alertslist"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/analytics/analyticsexport"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/analytics/analyticsquery"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/injection/injectioncreate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/injection/injectionduplicate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/injection/injectionlist"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/injection/injectionread"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/injection/injectionremove"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/injection/injectionupdate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/injection/weeklysummary"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/peptide/peptidecreate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/peptide/peptidelist"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/peptide/peptideread"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/peptide/peptideremove"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/peptide/peptidetemplates"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/peptide/peptideupdate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/protocol/protocolcreate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/protocol/protocollist"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/protocol/protocolprogress"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/protocol/protocolread"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/protocol/protocolremove"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/protocol/protocolupdate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/user/notificationsget"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/user/notificationsupdate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/user/preferences"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/wellness/wellnesscreate"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/handlers/wellness/wellnesslist"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/metrics"
	alertservices "github.com/magabrotheeeer/peptide-tracker/internal/services/alerts"
	analyticsservices "github.com/magabrotheeeer/peptide-tracker/internal/services/analytics"
	authservices "github.com/magabrotheeeer/peptide-tracker/internal/services/auth"
	injectionservices "github.com/magabrotheeeer/peptide-tracker/internal/services/injection"
	peptideservices "github.com/magabrotheeeer/peptide-tracker/internal/services/peptide"
	progressservices "github.com/magabrotheeeer/peptide-tracker/internal/services/progress"
	protocolservices "github.com/magabrotheeeer/peptide-tracker/internal/services/protocol"
	userservices "github.com/magabrotheeeer/peptide-tracker/internal/services/user"
	wellnessservices "github.com/magabrotheeeer/peptide-tracker/internal/services/wellness"
)

// Services — сервисы, которые обслуживают HTTP API.
type Services struct {
	Auth      *authservices.AuthService
	User      *userservices.UserService
	Peptide   *peptideservices.PeptideService
	Injection *injectionservices.InjectionService
	Protocol  *protocolservices.ProtocolService
	Progress  *progressservices.ProgressService
	Wellness  *wellnessservices.WellnessService
	Alerts    *alertservices.AlertService
	Analytics *analyticsservices.AnalyticsService
	Health    health.Checker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services, limiter *middlewarectx.RateLimiter) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.InstrumentHandler,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(limiter.Middleware(logger))

			r.Get("/me", profile.New(logger, s.User).ServeHTTP)
			r.Put("/me/preferences", preferences.New(logger, s.User).ServeHTTP)
			r.Get("/user/notification-preferences", notificationsget.New(logger, s.User).ServeHTTP)
			r.Put("/user/notification-preferences", notificationsupdate.New(logger, s.User).ServeHTTP)

			r.Get("/peptides", peptidelist.New(logger, s.Peptide).ServeHTTP)
			r.Post("/peptides", peptidecreate.New(logger, s.Peptide).ServeHTTP)
			r.Get("/peptides/templates", peptidetemplates.New(logger, s.Peptide).ServeHTTP)
			r.Get("/peptides/{id}", peptideread.New(logger, s.Peptide).ServeHTTP)
			r.Put("/peptides/{id}", peptideupdate.New(logger, s.Peptide).ServeHTTP)
			r.Delete("/peptides/{id}", peptideremove.New(logger, s.Peptide).ServeHTTP)

			r.Get("/injections", injectionlist.New(logger, s.Injection).ServeHTTP)
			r.Post("/injections", injectioncreate.New(logger, s.Injection).ServeHTTP)
			r.Get("/injections/weekly-summary", weeklysummary.New(logger, s.Progress).ServeHTTP)
			r.Get("/injections/{id}", injectionread.New(logger, s.Injection).ServeHTTP)
			r.Put("/injections/{id}", injectionupdate.New(logger, s.Injection).ServeHTTP)
			r.Delete("/injections/{id}", injectionremove.New(logger, s.Injection).ServeHTTP)
			r.Post("/injections/{id}/duplicate", injectionduplicate.New(logger, s.Injection).ServeHTTP)

			r.Get("/protocols", protocollist.New(logger, s.Protocol).ServeHTTP)
			r.Post("/protocols", protocolcreate.New(logger, s.Protocol).ServeHTTP)
			r.Get("/protocols/weekly-progress", protocolprogress.New(logger, s.Progress, progressservices.DefaultTrendWeeks).ServeHTTP)
			r.Get("/protocols/{id}", protocolread.New(logger, s.Protocol).ServeHTTP)
			r.Put("/protocols/{id}", protocolupdate.New(logger, s.Protocol).ServeHTTP)
			r.Delete("/protocols/{id}", protocolremove.New(logger, s.Protocol).ServeHTTP)

			r.Get("/wellness-metrics", wellnesslist.New(logger, s.Wellness).ServeHTTP)
			r.Post("/wellness-metrics", wellnesscreate.New(logger, s.Wellness).ServeHTTP)

			r.Get("/alerts", alertslist.New(logger, s.Alerts).ServeHTTP)
			r.Post("/alerts", alertsaction.New(logger, s.Alerts).ServeHTTP)

			r.Get("/analytics", analyticsquery.New(logger, s.Analytics).ServeHTTP)
			r.Get("/analytics/export", analyticsexport.New(logger, s.Analytics).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
