// Package rewrite implements the prompt rewrite pass: the final user prompt
// is cleaned up by a small model deployment before the request is forwarded
// to the full one.
package rewrite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mandalnilabja/promptgate/internal/types"
)

// ErrEmptyCompletion is returned when the rewrite model answers with no choices.
var ErrEmptyCompletion = errors.New("rewrite completion returned no choices")

// Completer performs a non-streaming chat completion against a deployment.
// Satisfied by the Azure upstream client.
type Completer interface {
	Complete(ctx context.Context, deployment string, req *types.ChatCompletionRequest) (*types.ChatCompletionResponse, error)
}

// Result is the outcome of one rewrite pass.
type Result struct {
	// Prompt is the rewritten prompt. Empty when clarification is needed.
	Prompt string

	// NeedsClarification is set when the model asked a follow-up question
	// instead of rewriting. Response then carries the question.
	NeedsClarification bool

	// Response is the raw rewrite completion. Nil on a cache hit.
	Response *types.ChatCompletionResponse

	// CacheHit is true when the rewritten prompt came from the cache.
	CacheHit bool
}

// RewriteTokens returns the tokens spent on the rewrite pass.
func (r *Result) RewriteTokens() int {
	if r.Response == nil || r.Response.Usage == nil {
		return 0
	}
	return r.Response.Usage.TotalTokens
}

// Rewriter runs prompts through the mini deployment with a fixed instruction.
type Rewriter struct {
	completer  Completer
	deployment string
	maxTokens  int
	cache      *ristretto.Cache[string, string]
	cacheTTL   time.Duration
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Options configures a Rewriter.
type Options struct {
	// Deployment is the mini model deployment name. Required.
	Deployment string

	// MaxTokens bounds the rewrite completion. Zero means no limit.
	MaxTokens int

	// Cache stores rewritten prompts keyed by prompt hash. Optional.
	Cache *ristretto.Cache[string, string]

	// CacheTTL bounds cache entry lifetime when Cache is set.
	CacheTTL time.Duration

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// New creates a Rewriter backed by the given completer.
func New(completer Completer, opts Options) *Rewriter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Rewriter{
		completer:  completer,
		deployment: opts.Deployment,
		maxTokens:  opts.MaxTokens,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
		tracer:     otel.Tracer("promptgate/rewrite"),
	}
}

// Rewrite runs the rewrite pass on a prompt at temperature zero.
func (r *Rewriter) Rewrite(ctx context.Context, prompt string) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "rewrite.pass",
		trace.WithAttributes(attribute.String("rewrite.deployment", r.deployment)))
	defer span.End()

	if cached, ok := r.cacheGet(prompt); ok {
		span.SetAttributes(attribute.Bool("rewrite.cache_hit", true))
		r.logger.Debug("rewrite cache hit")
		return &Result{Prompt: cached, CacheHit: true}, nil
	}

	temperature := 0.0
	req := &types.ChatCompletionRequest{
		Model: r.deployment,
		Messages: []types.Message{
			types.NewTextMessage(types.RoleSystem, instructions),
			types.NewTextMessage(types.RoleUser, WrapPrompt(prompt)),
		},
		Temperature: &temperature,
	}
	if r.maxTokens > 0 {
		req.MaxCompletionTokens = &r.maxTokens
	}

	resp, err := r.completer.Complete(ctx, r.deployment, req)
	if err != nil {
		return nil, fmt.Errorf("rewrite pass failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	content := resp.FirstContent()

	if strings.Contains(content, ClarificationMarker) {
		span.SetAttributes(attribute.Bool("rewrite.needs_clarification", true))
		r.logger.Info("rewrite needs clarification", "deployment", r.deployment)
		return &Result{NeedsClarification: true, Response: resp}, nil
	}

	// A model that echoes the tags means the rewritten prompt is inside them
	rewritten := content
	if inner, ok := ExtractPromptContent(content); ok {
		rewritten = inner
	}
	rewritten = strings.TrimSpace(rewritten)

	r.cacheSet(prompt, rewritten)

	r.logger.Debug("rewrite complete",
		"deployment", r.deployment,
		"tokens", resp.Usage.TotalUsage(),
	)

	return &Result{Prompt: rewritten, Response: resp}, nil
}

// StripMarker removes the clarification marker from a question.
func StripMarker(content string) string {
	return strings.TrimSpace(strings.ReplaceAll(content, ClarificationMarker, ""))
}

func (r *Rewriter) cacheGet(prompt string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	return r.cache.Get(cacheKey(r.deployment, prompt))
}

func (r *Rewriter) cacheSet(prompt, rewritten string) {
	if r.cache == nil {
		return
	}
	r.cache.SetWithTTL(cacheKey(r.deployment, prompt), rewritten, int64(len(rewritten)), r.cacheTTL)
}

// cacheKey hashes the prompt so raw user text never becomes a map key.
func cacheKey(deployment, prompt string) string {
	sum := sha256.Sum256([]byte(deployment + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
