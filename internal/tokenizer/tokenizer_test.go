package tokenizer

import (
	"testing"

	"github.com/mandalnilabja/promptgate/internal/types"
)

func TestResolveEncoding(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gpt-4o", EncodingO200kBase},
		{"gpt-4o-mini", EncodingO200kBase},
		{"gpt-4", EncodingCL100kBase},
		{"gpt-4-turbo", EncodingCL100kBase},
		{"gpt-3.5-turbo", EncodingCL100kBase},
		{"o1-preview", EncodingO200kBase},
		{"my-custom-deployment", EncodingCL100kBase},
		{"GPT-4O", EncodingO200kBase}, // deployment names come in any case
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := resolveEncoding(tt.model); got != tt.want {
				t.Errorf("resolveEncoding(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestCountTokens(t *testing.T) {
	tok := New()

	count, err := tok.CountTokens("Hello, world!", "gpt-4o")
	if err != nil {
		t.Fatalf("CountTokens failed: %v", err)
	}
	if count < 3 || count > 5 {
		t.Errorf("CountTokens = %d, want between 3 and 5", count)
	}

	empty, err := tok.CountTokens("", "gpt-4o")
	if err != nil {
		t.Fatalf("CountTokens failed: %v", err)
	}
	if empty != 0 {
		t.Errorf("expected 0 tokens for empty text, got %d", empty)
	}
}

func TestCountRequest(t *testing.T) {
	tok := New()

	req := &types.ChatCompletionRequest{
		Model: "gpt-4o",
		Messages: []types.Message{
			types.NewTextMessage(types.RoleSystem, "You are a helpful assistant."),
			types.NewTextMessage(types.RoleUser, "What is the capital of France?"),
		},
	}

	count, err := tok.CountRequest(req)
	if err != nil {
		t.Fatalf("CountRequest failed: %v", err)
	}
	// Two messages plus overheads: well above the bare text, well below absurd.
	if count < 15 || count > 40 {
		t.Errorf("CountRequest = %d, outside plausible range", count)
	}
}

func TestCountRequestWithImage(t *testing.T) {
	tok := New()

	lowDetail := &types.ChatCompletionRequest{
		Model: "gpt-4o",
		Messages: []types.Message{{
			Role: types.RoleUser,
			Content: types.Content{Parts: []types.ContentPart{
				{Type: types.ContentTypeText, Text: "what is this"},
				{Type: types.ContentTypeImageURL, ImageURL: &types.ImageURL{URL: "https://x/a.png", Detail: "low"}},
			}},
		}},
	}

	low, err := tok.CountRequest(lowDetail)
	if err != nil {
		t.Fatalf("CountRequest failed: %v", err)
	}

	lowDetail.Messages[0].Content.Parts[1].ImageURL.Detail = "high"
	high, err := tok.CountRequest(lowDetail)
	if err != nil {
		t.Fatalf("CountRequest failed: %v", err)
	}

	if high <= low {
		t.Errorf("high detail (%d) should cost more than low detail (%d)", high, low)
	}
}
