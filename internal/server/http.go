package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/placementprep/portal/internal/admin"
	"github.com/placementprep/portal/internal/auth"
	"github.com/placementprep/portal/internal/config"
	"github.com/placementprep/portal/internal/dashboard"
	"github.com/placementprep/portal/internal/logging"
	"github.com/placementprep/portal/internal/quiz"
	"github.com/placementprep/portal/internal/resource"
)

// Handlers groups the per-domain HTTP handler sets the server routes to.
type Handlers struct {
	Auth      *auth.HTTPHandlers
	Quiz      *quiz.HTTPHandlers
	Admin     *admin.HTTPHandlers
	Resource  *resource.HTTPHandlers
	Dashboard *dashboard.HTTPHandlers
}

// NewHTTPServer wires all routes for the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, authSvc *auth.Service, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redis); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Public endpoints
	mux.HandleFunc("POST /v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.Auth.RefreshToken)
	mux.HandleFunc("GET /v1/resources", h.Resource.List)

	// Authenticated endpoints
	authed := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireAuth(fn)
	}
	mux.Handle("GET /v1/users/me", authed(h.Auth.GetMe))
	mux.Handle("GET /v1/dashboard", authed(h.Dashboard.Dashboard))
	mux.Handle("GET /v1/quiz/categories", authed(h.Quiz.ListCategories))
	mux.Handle("GET /v1/quiz/categories/{id}", authed(h.Quiz.CategoryDetail))
	mux.Handle("POST /v1/quiz/start/{category_id}", authed(h.Quiz.Start))
	mux.Handle("GET /v1/quiz/question/{n}", authed(h.Quiz.Question))
	mux.Handle("POST /v1/quiz/submit", authed(h.Quiz.Submit))
	mux.Handle("GET /v1/quiz/results/{id}", authed(h.Quiz.Result))
	mux.Handle("GET /v1/quiz/history", authed(h.Quiz.History))

	// Admin endpoints, guarded by role
	adminOnly := auth.RequireRole("admin")
	adminRoute := func(fn http.HandlerFunc) http.Handler {
		return adminOnly(fn)
	}
	mux.Handle("GET /v1/admin/dashboard", adminRoute(h.Admin.Dashboard))
	mux.Handle("GET /v1/admin/users", adminRoute(h.Admin.ListUsers))
	mux.Handle("POST /v1/admin/users/{id}/toggle-role", adminRoute(h.Admin.ToggleRole))
	mux.Handle("DELETE /v1/admin/users/{id}", adminRoute(h.Admin.DeleteUser))
	mux.Handle("GET /v1/admin/categories", adminRoute(h.Admin.ListCategories))
	mux.Handle("POST /v1/admin/categories", adminRoute(h.Admin.CreateCategory))
	mux.Handle("PUT /v1/admin/categories/{id}", adminRoute(h.Admin.UpdateCategory))
	mux.Handle("DELETE /v1/admin/categories/{id}", adminRoute(h.Admin.DeleteCategory))
	mux.Handle("GET /v1/admin/questions", adminRoute(h.Admin.ListQuestions))
	mux.Handle("POST /v1/admin/questions", adminRoute(h.Admin.CreateQuestion))
	mux.Handle("PUT /v1/admin/questions/{id}", adminRoute(h.Admin.UpdateQuestion))
	mux.Handle("DELETE /v1/admin/questions/{id}", adminRoute(h.Admin.DeleteQuestion))
	mux.Handle("GET /v1/admin/resources", adminRoute(h.Admin.ListResources))
	mux.Handle("POST /v1/admin/resources", adminRoute(h.Admin.CreateResource))
	mux.Handle("PUT /v1/admin/resources/{id}", adminRoute(h.Admin.UpdateResource))
	mux.Handle("DELETE /v1/admin/resources/{id}", adminRoute(h.Admin.DeleteResource))

	handler := corsMiddleware(cfg.CORS)(auth.Middleware(authSvc, logger)(mux))

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}

func corsMiddleware(cfg config.CORS) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(cfg.AllowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				if r.Method == http.MethodOptions {
					w.Header().Set("Access-Control-Allow-Methods", methods)
					w.Header().Set("Access-Control-Allow-Headers", headers)
					w.Header().Set("Access-Control-Max-Age", maxAge)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
