// Package server assembles the HTTP surface: Connect services, health and
// metrics endpoints behind CORS and rate limiting.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/balanceapi/internal/auth"
	"github.com/mmynk/balanceapi/internal/metrics"
	"github.com/mmynk/balanceapi/internal/middleware"
	"github.com/mmynk/balanceapi/pkg/api"
)

const healthTimeout = 2 * time.Second

// Deps are the collaborators served by the router.
type Deps struct {
	Participants api.ParticipantServiceHandler
	Expenses     api.ExpenseServiceHandler
	Auth         api.AuthServiceHandler
	JWTManager   *auth.JWTManager
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	// Health reports whether the backing store is reachable.
	Health func(ctx context.Context) error
}

// Options tune the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// RequireAuth rejects anonymous calls to the participant and expense services.
	RequireAuth bool
	// RateLimit is applied per client IP. A zero RequestsPerSecond disables it.
	RateLimit middleware.RateLimitConfig
}

// NewRouter mounts every service. ctx bounds background work such as the rate
// limiter's cleanup.
func NewRouter(ctx context.Context, deps Deps, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders:   []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthHandler(deps.Health))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	guard := middleware.OptionalAuth(deps.JWTManager)
	if opts.RequireAuth {
		guard = middleware.RequireAuth(deps.JWTManager)
	}
	ledgerInterceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(deps.Metrics),
		guard,
		middleware.LoggingInterceptor(logger),
	)
	authInterceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(deps.Metrics),
		middleware.OptionalAuth(deps.JWTManager),
		middleware.LoggingInterceptor(logger),
	)

	r.Group(func(r chi.Router) {
		if opts.RateLimit.RequestsPerSecond > 0 {
			r.Use(middleware.RateLimiter(ctx, opts.RateLimit))
		}
		participantPath, participantHandler := api.NewParticipantServiceHandler(deps.Participants, ledgerInterceptors)
		r.Handle(participantPath+"*", participantHandler)

		expensePath, expenseHandler := api.NewExpenseServiceHandler(deps.Expenses, ledgerInterceptors)
		r.Handle(expensePath+"*", expenseHandler)

		authPath, authHandler := api.NewAuthServiceHandler(deps.Auth, authInterceptors)
		r.Handle(authPath+"*", authHandler)
	})

	return r
}

// New wraps handler in h2c so Connect and gRPC clients can speak HTTP/2
// without TLS.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func healthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				slog.WarnContext(ctx, "Health check failed", "error", err)
				status, code = "unavailable", http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
