package azure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mandalnilabja/promptgate/internal/types"
)

// newTestClient points a client at a local TLS server standing in for the
// Azure endpoint.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "test-api-key", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.httpClient = srv.Client()
	return c
}

func TestForwardRelaysStream(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-key"); got != "test-api-key" {
			t.Errorf("expected api-key header, got %q", got)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("expected client Authorization header to be stripped")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sampleStream)
	}))

	header := http.Header{"Authorization": []string{"Bearer pg_client-key"}}
	rec := httptest.NewRecorder()
	result, err := c.Forward(context.Background(), "gpt-4o", strings.NewReader(`{"stream":true}`), header, rec)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != sampleStream {
		t.Error("relayed body differs from upstream stream")
	}
	if result.FinishReason != "stop" {
		t.Errorf("expected finish reason 'stop', got %q", result.FinishReason)
	}
	if result.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", result.Model)
	}
	if result.Usage == nil || result.Usage.TotalTokens != 12 {
		t.Errorf("expected usage from final chunk, got %+v", result.Usage)
	}
}

func TestForwardRelaysUpstreamError(t *testing.T) {
	errorBody := `{"error":{"message":"Rate limit exceeded. Try again in 60 seconds.","type":"rate_limit_error","code":"429"}}`
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, errorBody)
	}))

	rec := httptest.NewRecorder()
	result, err := c.Forward(context.Background(), "gpt-4o", strings.NewReader(`{"stream":true}`), http.Header{}, rec)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Body.String() != errorBody {
		t.Errorf("expected upstream error body verbatim, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("expected upstream Retry-After header, got %q", got)
	}
	if result.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected result status 429, got %d", result.StatusCode)
	}
	if !strings.Contains(result.ErrorMessage, "Rate limit exceeded") {
		t.Errorf("expected error message extracted, got %q", result.ErrorMessage)
	}
}

func TestForwardUnreachableUpstream(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	c, newErr := New(srv.URL, "test-api-key", "")
	if newErr != nil {
		t.Fatalf("New failed: %v", newErr)
	}
	c.httpClient = srv.Client()
	srv.Close()

	rec := httptest.NewRecorder()
	result, err := c.Forward(context.Background(), "gpt-4o", strings.NewReader(`{}`), http.Header{}, rec)
	if err == nil {
		t.Fatal("expected an error for unreachable upstream")
	}
	if rec.Code != http.StatusBadGateway || result.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got response %d result %d", rec.Code, result.StatusCode)
	}

	var apiErr types.APIError
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &apiErr); decodeErr != nil {
		t.Fatalf("failed to parse error body: %v", decodeErr)
	}
	if apiErr.Error.Type != types.ErrorTypeServer {
		t.Errorf("expected server error type, got %q", apiErr.Error.Type)
	}
}
