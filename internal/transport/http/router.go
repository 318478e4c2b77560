package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	agentapp "github.com/agency-api/internal/application/agent"
	"github.com/agency-api/internal/application/auth"
	clientapp "github.com/agency-api/internal/application/client"
	propertyapp "github.com/agency-api/internal/application/property"
	reportapp "github.com/agency-api/internal/application/report"
	"github.com/agency-api/internal/config"
	"github.com/agency-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/agency-api/internal/infrastructure/jwt"
	s3infra "github.com/agency-api/internal/infrastructure/s3"
	"github.com/agency-api/internal/infrastructure/smtp"
	"github.com/agency-api/internal/infrastructure/sns"
	"github.com/agency-api/internal/transport/http/handler"
	appmiddleware "github.com/agency-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AgentRepo    *dynamo.AgentRepo
	PropertyRepo *dynamo.PropertyRepo
	ClientRepo   *dynamo.ClientRepo
	ReportRepo   *dynamo.ReportRepo
	S3Store      *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	secure := cfg.AppEnv == "production"
	sessionGate := appmiddleware.SessionGate(deps.JWTProvider, cfg.LoginPath, secure)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(deps.AgentRepo, deps.Mailer, deps.JWTProvider)
	agentSvc := agentapp.NewService(deps.AgentRepo)
	propertySvc := propertyapp.NewService(deps.PropertyRepo, deps.AgentRepo, deps.ClientRepo, deps.S3Store, deps.SMSSender)
	clientSvc := clientapp.NewService(deps.ClientRepo, deps.PropertyRepo)
	reportSvc := reportapp.NewService(deps.ReportRepo, deps.PropertyRepo, deps.ClientRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, deps.JWTProvider.Expiry(), secure)
	agentH := handler.NewAgentHandler(agentSvc)
	propertyH := handler.NewPropertyHandler(propertySvc)
	clientH := handler.NewClientHandler(clientSvc)
	reportH := handler.NewReportHandler(reportSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no session) ───────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/verify-email", authH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/auth/resend-code", authH.ResendCode)
		r.Get("/auth/pending", authH.Pending)
		r.Get("/p/{id}", propertyH.PublicGet)

		// ── Session-gated app routes ─────────────────────────────────────────
		r.Route("/app", func(r chi.Router) {
			r.Use(sessionGate)

			r.Get("/auth/me", authH.Me)
			r.Post("/auth/logout", authH.Logout)

			r.Get("/dashboard", reportH.Dashboard)

			r.Get("/properties", propertyH.List)
			r.Post("/properties", propertyH.Create)
			r.Get("/properties/{id}", propertyH.Get)
			r.Put("/properties/{id}", propertyH.Update)
			r.Delete("/properties/{id}", propertyH.Delete)
			r.Post("/properties/{id}/photos", propertyH.AddPhoto)
			r.Get("/properties/{id}/photos/url", propertyH.PhotoURL)

			r.Get("/clients", clientH.List)
			r.Post("/clients", clientH.Create)
			r.Get("/clients/{id}", clientH.Get)
			r.Put("/clients/{id}", clientH.Update)
			r.Delete("/clients/{id}", clientH.Delete)
			r.Post("/clients/{id}/interactions", clientH.AddInteraction)
			r.Put("/clients/{id}/interests/{propertyID}", clientH.AddInterest)
			r.Delete("/clients/{id}/interests/{propertyID}", clientH.RemoveInterest)
			r.Get("/clients/{id}/recommendations", clientH.Recommendations)

			r.Get("/reports", reportH.List)
			r.Post("/reports", reportH.Create)
			r.Get("/reports/stats", reportH.Stats)
			r.Delete("/reports/{id}", reportH.Delete)

			r.Get("/settings", agentH.Get)
			r.Put("/settings", agentH.Update)
		})
	})

	return r
}
