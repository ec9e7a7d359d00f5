package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/stackline/user-gateway/app"
	"github.com/stackline/user-gateway/authz"
	"github.com/stackline/user-gateway/handlers"
	"github.com/stackline/user-gateway/middleware"
	"github.com/stackline/user-gateway/models"
)

// SecurityTable builds the route-to-policy binding table. All authorization
// rules live here, in one auditable place, rather than scattered across
// per-route middleware.
func SecurityTable() (*authz.Table, error) {
	public := []string{
		"/api/auth/**",
		"/api/public/**",
		"/healthz",
		"/readyz",
	}

	bindings := []authz.Binding{
		{
			Pattern: "/api/admin/**",
			Policy:  authz.RequireRole(models.RoleAdmin),
		},
		{
			// Literal segments outrank the {id} variable below, so the
			// profile and secure-data routes never fall under the
			// ownership check.
			Pattern: "/api/user/profile",
			Policy:  authz.RequireAnyRole(models.RoleUser, models.RoleAdmin),
		},
		{
			Pattern: "/api/user/secure-data",
			Policy:  authz.RequireAnyRole(models.RoleUser, models.RoleAdmin),
		},
		{
			Pattern: "/api/user/{id}/**",
			Policy:  authz.RequireOwner("id"),
		},
		{
			Pattern: "/api/user/**",
			Policy:  authz.RequireAnyRole(models.RoleUser, models.RoleAdmin),
		},
		{
			Pattern: "/api/special/**",
			Policy:  authz.RequireScope("SCOPE_special"),
		},
	}

	return authz.NewTable(public, bindings)
}

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) (http.Handler, error) {
	table, err := SecurityTable()
	if err != nil {
		return nil, err
	}
	pipeline := middleware.NewPipeline(table, deps.Authenticator, deps.Logger)

	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security pipeline. Runs on every request; public routes pass through
	// untouched, everything else is authenticated and authorized before any
	// handler executes.
	r.Use(pipeline.Handler)

	// Health check endpoints
	r.Get("/healthz", handlers.HealthHandler(deps))
	r.Get("/readyz", handlers.ReadinessHandler(deps))

	// Authentication endpoints
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", handlers.LoginHandler(deps))
		r.Post("/signup", handlers.SignupHandler(deps))
	})

	// Public endpoints
	r.Get("/api/public/info", handlers.PublicInfoHandler(deps))

	// User endpoints
	r.Route("/api/user", func(r chi.Router) {
		r.Get("/profile", handlers.ProfileHandler(deps))
		r.Get("/secure-data", handlers.SecureDataHandler(deps))
		r.Get("/{id}", handlers.GetUserHandler(deps))
		r.Put("/{id}", handlers.UpdateUserHandler(deps))
		r.Delete("/{id}", handlers.DeleteUserHandler(deps))
	})

	// Special scope-gated endpoints
	r.Get("/api/special/x", handlers.SpecialDataHandler(deps))

	// Admin endpoints
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/users", handlers.ListUsersHandler(deps))
		r.Post("/users/bulk-disable", handlers.BulkDisableUsersHandler(deps))
		r.Get("/users/{id}", handlers.AdminGetUserHandler(deps))
		r.Delete("/users/{id}", handlers.AdminDeleteUserHandler(deps))
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r, nil
}
