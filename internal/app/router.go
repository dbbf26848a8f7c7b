package app

import (
	"log/slog"
	"net/http"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/mandalnilabja/promptgate/internal/storage"
	"github.com/mandalnilabja/promptgate/internal/transport/http/handler"
	"github.com/mandalnilabja/promptgate/internal/transport/http/middleware"
	"github.com/mandalnilabja/promptgate/internal/transport/http/middleware/auth"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger      *slog.Logger
	Storage     storage.Storage
	APIKeyCache *ristretto.Cache[string, *auth.CachedAPIKey]
}

// NewRouter creates and configures the HTTP router with all application
// routes. Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes (no auth)
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET /", repo.Infra.RootStatus)

	apiKeyAuth := auth.APIKeyAuth(opts.Storage, opts.APIKeyCache)

	// Proxy route
	mux.Handle("POST /v1/chat/completions", apiKeyAuth(http.HandlerFunc(repo.Proxy.ChatCompletions)))

	// Usage and logs
	mux.Handle("GET /api/usage", apiKeyAuth(http.HandlerFunc(repo.Stats.GetUsageStats)))
	mux.Handle("GET /api/usage/daily", apiKeyAuth(http.HandlerFunc(repo.Stats.GetDailyUsage)))
	mux.Handle("GET /api/logs", apiKeyAuth(http.HandlerFunc(repo.Stats.GetRequestLogs)))
	mux.Handle("DELETE /api/logs", apiKeyAuth(http.HandlerFunc(repo.Stats.DeleteRequestLogs)))

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	h = middleware.Trace(h)
	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}
	h = middleware.RequestID(h)
	h = middleware.CORS(h)

	return h
}
