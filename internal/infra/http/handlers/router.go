package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type Router struct {
	AllowedOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxy bool

	Auth          *AuthHandler
	Users         *UserHandler
	Leads         *LeadHandler
	Opportunities *OpportunityHandler
	CallLogs      *CallLogHandler
	Dashboard     *DashboardHandler
	Health        *HealthHandler
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	if rt.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	if rt.Health != nil {
		r.Get("/health", rt.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", rt.Auth.Register)
		r.Post("/auth/login", rt.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.Auth.AuthUC, WriteError))

			r.Get("/auth/me", rt.Auth.Me)
			r.Get("/users", rt.Users.List)

			r.Post("/leads", rt.Leads.Create)
			r.Get("/leads", rt.Leads.List)
			r.Get("/leads/{id}", rt.Leads.Get)
			r.Put("/leads/{id}", rt.Leads.Update)
			r.Delete("/leads/{id}", rt.Leads.Delete)

			r.Post("/opportunities", rt.Opportunities.Create)
			r.Get("/opportunities", rt.Opportunities.List)
			r.Get("/opportunities/{id}", rt.Opportunities.Get)
			r.Put("/opportunities/{id}", rt.Opportunities.Update)

			r.Post("/call-logs", rt.CallLogs.Create)
			r.Get("/call-logs", rt.CallLogs.List)

			r.Get("/dashboard/stats", rt.Dashboard.Stats)
		})
	})

	return r
}
