// Package azure implements the Azure OpenAI upstream client.
//
// Requests are addressed to a named deployment:
//
//	https://{resource}.openai.azure.com/openai/deployments/{deployment}/chat/completions?api-version={v}
//
// with api-key header authentication.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mandalnilabja/promptgate/internal/types"
)

// DefaultAPIVersion matches the version the service was built against.
const DefaultAPIVersion = "2024-12-01-preview"

// Client talks to one Azure OpenAI resource.
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	httpClient *http.Client
}

// New creates a client for the given resource endpoint.
func New(endpoint, apiKey, apiVersion string) (*Client, error) {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	host, err := endpointHost(endpoint)
	if err != nil {
		return nil, err
	}

	return &Client{
		endpoint:   host,
		apiKey:     apiKey,
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Transport: &http.Transport{
				// Compression breaks SSE chunk boundaries
				DisableCompression: true,
			},
		},
	}, nil
}

// Complete performs a non-streaming chat completion against a deployment.
// Used for the rewrite pass.
func (c *Client) Complete(ctx context.Context, deployment string, req *types.ChatCompletionRequest) (*types.ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.deploymentURL(deployment), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}

	var completion types.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &completion, nil
}

// ForwardResult carries metadata from a forwarded streaming request.
type ForwardResult struct {
	StatusCode   int
	Model        string
	FinishReason string
	Usage        *types.Usage
	Content      string
	Duration     time.Duration
	ErrorMessage string
}

// Forward streams a chat completion request to a deployment and relays the
// response to w without buffering. Upstream errors (>= 400) are passed
// through verbatim. Safe request headers are copied from header.
func (c *Client) Forward(ctx context.Context, deployment string, body io.Reader, header http.Header, w http.ResponseWriter) (*ForwardResult, error) {
	startTime := time.Now()
	result := &ForwardResult{}

	ctx, span := otel.Tracer("promptgate/upstream").Start(ctx, "upstream.forward",
		trace.WithAttributes(attribute.String("upstream.deployment", deployment)))
	defer func() {
		span.SetAttributes(attribute.Int("upstream.status_code", result.StatusCode))
		span.End()
	}()

	upstreamReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.deploymentURL(deployment), body)
	if err != nil {
		result.StatusCode = http.StatusInternalServerError
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("failed to create upstream request"))
		return result, err
	}

	// Copy headers, skipping hop-by-hop and client credentials
	for k, v := range header {
		switch k {
		case "Content-Length", "Connection", "Host", "Authorization", "Api-Key":
			continue
		}
		upstreamReq.Header[k] = v
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(upstreamReq)
	if err != nil {
		result.StatusCode = http.StatusBadGateway
		types.WriteError(w, http.StatusBadGateway, types.ErrServer("bad gateway: "+err.Error()))
		return result, err
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	if resp.StatusCode >= 400 {
		relayErrorResponse(w, resp, result)
		result.Duration = time.Since(startTime)
		return result, nil
	}

	err = relayStream(w, resp, result)
	result.Duration = time.Since(startTime)
	return result, err
}

// deploymentURL builds the deployment-scoped chat completions URL.
func (c *Client) deploymentURL(deployment string) string {
	return fmt.Sprintf("https://%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, deployment, c.apiVersion)
}

// relayStream forwards the SSE body to the client while a StreamProcessor
// shadows it for usage and finish reason.
func relayStream(w http.ResponseWriter, resp *http.Response, result *ForwardResult) error {
	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	flusher, ok := w.(http.Flusher)
	if !ok {
		result.ErrorMessage = "streaming unsupported by response writer"
		return io.ErrNoProgress
	}

	processor := NewStreamProcessor()
	err := processor.ProcessReader(resp.Body, func(chunk []byte) error {
		if _, wErr := w.Write(chunk); wErr != nil {
			return wErr
		}
		flusher.Flush()
		return nil
	})

	result.FinishReason = processor.FinishReason()
	result.Content = processor.Content()
	if processor.Model() != "" {
		result.Model = processor.Model()
	}
	if usage := processor.Usage(); usage != nil {
		result.Usage = usage
	}

	if err != nil {
		result.ErrorMessage = err.Error()
	}
	return err
}

// relayErrorResponse forwards an upstream error body and extracts the message.
func relayErrorResponse(w http.ResponseWriter, resp *http.Response, result *ForwardResult) {
	body, _ := io.ReadAll(resp.Body)

	var apiErr types.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		result.ErrorMessage = apiErr.Error.Message
	}

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}
