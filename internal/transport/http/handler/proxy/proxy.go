// Package proxy implements the chat completion proxy endpoint.
package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mandalnilabja/promptgate/internal/rewrite"
	"github.com/mandalnilabja/promptgate/internal/storage"
	"github.com/mandalnilabja/promptgate/internal/tokenizer"
	"github.com/mandalnilabja/promptgate/internal/upstream/azure"
)

// Upstream forwards streaming chat completions to a deployment.
// Satisfied by the Azure client.
type Upstream interface {
	Forward(ctx context.Context, deployment string, body io.Reader, header http.Header, w http.ResponseWriter) (*azure.ForwardResult, error)
}

// PromptRewriter runs the rewrite pass on a prompt.
type PromptRewriter interface {
	Rewrite(ctx context.Context, prompt string) (*rewrite.Result, error)
}

// Handlers holds the dependencies for proxy HTTP handlers.
type Handlers struct {
	Upstream       Upstream
	Rewriter       PromptRewriter
	Storage        storage.Storage
	Tokenizer      tokenizer.Tokenizer
	Logger         *slog.Logger
	FullDeployment string
}

// New creates a new instance of proxy handlers.
func New(up Upstream, rw PromptRewriter, store storage.Storage, tok tokenizer.Tokenizer, logger *slog.Logger, fullDeployment string) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Upstream:       up,
		Rewriter:       rw,
		Storage:        store,
		Tokenizer:      tok,
		Logger:         logger,
		FullDeployment: fullDeployment,
	}
}

// updateDailyUsage updates the daily usage aggregate for a request.
func (h *Handlers) updateDailyUsage(log *storage.RequestLog) {
	today := time.Now().Format("2006-01-02")

	errorCount := 0
	if log.StatusCode >= 400 {
		errorCount = 1
	}
	clarifications := 0
	if log.Outcome == storage.OutcomeClarification {
		clarifications = 1
	}

	usage := &storage.DailyUsage{
		Date:               today,
		Deployment:         log.Deployment,
		RequestCount:       1,
		PromptTokens:       log.PromptTokens,
		CompletionTokens:   log.CompletionTokens,
		RewriteTokens:      log.RewriteTokens,
		TotalTokens:        log.TotalTokens,
		ClarificationCount: clarifications,
		ErrorCount:         errorCount,
	}

	_ = h.Storage.UpdateDailyUsage(usage)
}
