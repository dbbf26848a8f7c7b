// Package handler composes the HTTP handlers for the gateway.
package handler

import (
	"log/slog"
	"time"

	"github.com/mandalnilabja/promptgate/internal/storage"
	"github.com/mandalnilabja/promptgate/internal/tokenizer"
	"github.com/mandalnilabja/promptgate/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/promptgate/internal/transport/http/handler/proxy"
	"github.com/mandalnilabja/promptgate/internal/transport/http/handler/stats"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Proxy *proxy.Handlers
	Infra *infra.Handlers
	Stats *stats.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(up proxy.Upstream, rw proxy.PromptRewriter, store storage.Storage, tok tokenizer.Tokenizer, logger *slog.Logger, fullDeployment, miniDeployment string) *Repo {
	startTime := time.Now()
	return &Repo{
		Proxy: proxy.New(up, rw, store, tok, logger, fullDeployment),
		Infra: infra.New(startTime, fullDeployment, miniDeployment),
		Stats: stats.New(store),
	}
}
