package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mandalnilabja/promptgate/internal/rewrite"
	"github.com/mandalnilabja/promptgate/internal/storage"
	"github.com/mandalnilabja/promptgate/internal/types"
	"github.com/mandalnilabja/promptgate/internal/upstream/azure"
)

// tokenCountTimeout is the maximum time to wait for token counting before proceeding.
const tokenCountTimeout = 100 * time.Millisecond

// ChatCompletions runs the final user prompt through the rewrite pass and
// forwards the request to the full deployment as a relayed SSE stream. When
// the rewrite model asks for clarification instead, the question is returned
// as a synthesized single-chunk stream and nothing reaches the full model.
// Token counting runs in parallel with the upstream request.
func (h *Handlers) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	startTime := time.Now()

	// Read and buffer the request body
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("failed to read request body"))
		return
	}
	r.Body.Close()

	var req types.ChatCompletionRequest
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request format"))
		return
	}

	if !req.Stream {
		types.WriteError(w, http.StatusBadRequest,
			types.ErrInvalidRequest(`only streaming requests are supported; set "stream": true`))
		return
	}

	last := req.LastMessage()
	if last == nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("messages must not be empty"))
		return
	}

	prompt := last.Content.String()
	if prompt == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("final message has no text content"))
		return
	}

	// Start token counting in background goroutine (non-blocking). The
	// counter decodes its own copy from the buffered body because req is
	// mutated below once the rewrite result comes back.
	tokensChan := make(chan int, 1)
	go func() {
		defer close(tokensChan)
		if h.Tokenizer == nil {
			return
		}
		var snapshot types.ChatCompletionRequest
		if err := json.Unmarshal(bodyBytes, &snapshot); err != nil {
			return
		}
		if tokens, err := h.Tokenizer.CountRequest(&snapshot); err == nil {
			tokensChan <- tokens
		}
	}()

	rewriteResult, err := h.Rewriter.Rewrite(r.Context(), prompt)
	if err != nil {
		// Forward the original prompt rather than failing the request
		h.Logger.Warn("rewrite pass failed, forwarding original prompt",
			"request_id", requestID, "error", err)
		rewriteResult = &rewrite.Result{Prompt: prompt}
	}

	if rewriteResult.NeedsClarification {
		h.writeClarification(w, rewriteResult)
		go h.logChatRequest(requestID, storage.OutcomeClarification, rewriteResult,
			&azure.ForwardResult{StatusCode: http.StatusOK, Duration: time.Since(startTime)}, 0)
		return
	}

	// Swap in the rewritten prompt and retarget the full deployment
	last.Content = types.Content{Text: rewriteResult.Prompt}
	req.Model = h.FullDeployment

	upstreamBody, err := json.Marshal(&req)
	if err != nil {
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("failed to encode upstream request"))
		return
	}

	result, err := h.Upstream.Forward(r.Context(), h.FullDeployment, bytes.NewReader(upstreamBody), r.Header, w)
	if err != nil {
		h.Logger.Error("upstream forward failed", "request_id", requestID, "error", err)
	}

	// Collect token count with timeout (100ms max wait)
	var promptTokens int
	select {
	case tokens, ok := <-tokensChan:
		if ok {
			promptTokens = tokens
		}
	case <-time.After(tokenCountTimeout):
		// Upstream usage may still provide it
	}

	go h.logChatRequest(requestID, storage.OutcomeForwarded, rewriteResult, result, promptTokens)
}

// writeClarification returns the rewrite model's question as a one-chunk SSE
// stream so streaming clients handle it like any other completion.
func (h *Handlers) writeClarification(w http.ResponseWriter, result *rewrite.Result) {
	created := result.Response.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	finishReason := types.FinishReasonStop
	choices := make([]types.ChunkChoice, 0, len(result.Response.Choices))
	for _, choice := range result.Response.Choices {
		choices = append(choices, types.ChunkChoice{
			Index: choice.Index,
			Delta: types.Delta{
				Role:    types.RoleAssistant,
				Content: rewrite.StripMarker(choice.Message.Content.String()),
			},
			FinishReason: &finishReason,
		})
	}

	chunk := types.ChatCompletionChunk{
		ID:      result.Response.ID,
		Object:  types.ObjectChatCompletionChunk,
		Created: created,
		Model:   result.Response.Model,
		Choices: choices,
		Usage:   result.Response.Usage,
	}

	data, err := json.Marshal(&chunk)
	if err != nil {
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(types.FormatSSE(data))
	_, _ = io.WriteString(w, types.SSEDone)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// logChatRequest logs the proxy request to storage asynchronously.
func (h *Handlers) logChatRequest(requestID, outcome string, rewriteResult *rewrite.Result, result *azure.ForwardResult, promptTokens int) {
	if h.Storage == nil || result == nil {
		return
	}

	// Prefer upstream usage over the background count
	prompt := promptTokens
	completion := 0
	if result.Usage != nil {
		if result.Usage.PromptTokens > 0 {
			prompt = result.Usage.PromptTokens
		}
		completion = result.Usage.CompletionTokens
	}

	rewriteTokens := 0
	cached := false
	if rewriteResult != nil {
		rewriteTokens = rewriteResult.RewriteTokens()
		cached = rewriteResult.CacheHit
	}

	log := &storage.RequestLog{
		RequestID:        requestID,
		Deployment:       h.FullDeployment,
		Outcome:          outcome,
		RewriteCached:    cached,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		RewriteTokens:    rewriteTokens,
		TotalTokens:      prompt + completion + rewriteTokens,
		IsStreaming:      true,
		StatusCode:       result.StatusCode,
		ErrorMessage:     result.ErrorMessage,
		DurationMs:       result.Duration.Milliseconds(),
		CreatedAt:        time.Now().UTC(),
	}

	if err := h.Storage.LogRequest(log); err != nil {
		h.Logger.Warn("failed to log request", "request_id", requestID, "error", err)
		return
	}

	h.updateDailyUsage(log)
}
