package handlers

import (
	"context"
	"net/http"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/auth"
	"github.com/AurelieMous/projet-zombieland/internal/catalog"
	"github.com/AurelieMous/projet-zombieland/internal/config"
	"github.com/AurelieMous/projet-zombieland/internal/ratelimit"
	"github.com/AurelieMous/projet-zombieland/internal/reservation"
	"github.com/AurelieMous/projet-zombieland/internal/users"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Services struct {
	Auth         *auth.AuthHandler
	Users        *users.Service
	Catalog      *catalog.Service
	Reservations *reservation.Engine
	AuthLimiter  *ratelimit.Limiter
}

var security = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func message(msg string) *MessageResponse {
	res := &MessageResponse{}
	res.Body.Message = msg
	return res
}

func actorFrom(ctx context.Context) (access.Actor, error) {
	actor, ok := access.FromContext(ctx)
	if !ok {
		return actor, huma.Error401Unauthorized("authentication required")
	}
	return actor, nil
}

func withActor(api huma.API) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		o.Security = security
		o.Middlewares = append(o.Middlewares, auth.RequireActor(api))
	}
}

func withAdmin(api huma.API) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		o.Security = security
		o.Middlewares = append(o.Middlewares, auth.RequireAdmin(api))
	}
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}

func tagged(tag string) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		o.Tags = append(o.Tags, tag)
	}
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, s Services) huma.API {
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Zombieland API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, config)
	api.UseMiddleware(s.Auth.Middleware)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	registerAuth(api, s.Auth, s.AuthLimiter)
	NewUserHandler(s.Users).Register(api)
	NewCatalogHandler(s.Catalog).Register(api)
	NewReservationHandler(s.Reservations).Register(api)

	return api
}

func registerAuth(api huma.API, h *auth.AuthHandler, limiter *ratelimit.Limiter) {
	limited := func(o *huma.Operation) {
		o.Middlewares = append(o.Middlewares, limiter.Middleware(api))
	}

	huma.Post(api, "/auth/register", h.HandleRegister, tagged("Auth"), created, limited)
	huma.Post(api, "/auth/login", h.HandleLogin, tagged("Auth"), limited)
	huma.Get(api, "/auth/me", h.HandleMe, tagged("Auth"), withActor(api))
}
