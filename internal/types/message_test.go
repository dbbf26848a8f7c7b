package types

import (
	"encoding/json"
	"testing"
)

func TestContentUnmarshalString(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"role":"user","content":"hello"}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.Content.String() != "hello" {
		t.Errorf("expected 'hello', got %q", msg.Content.String())
	}
}

func TestContentUnmarshalParts(t *testing.T) {
	payload := `{"role":"user","content":[{"type":"text","text":"describe "},{"type":"text","text":"this"},{"type":"image_url","image_url":{"url":"https://x/img.png"}}]}`

	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(msg.Content.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(msg.Content.Parts))
	}
	if msg.Content.String() != "describe this" {
		t.Errorf("expected flattened text, got %q", msg.Content.String())
	}
}

func TestContentMarshalPreservesForm(t *testing.T) {
	text, err := json.Marshal(Content{Text: "plain"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(text) != `"plain"` {
		t.Errorf("expected string form, got %s", text)
	}

	parts, err := json.Marshal(Content{Parts: []ContentPart{{Type: ContentTypeText, Text: "a"}}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if parts[0] != '[' {
		t.Errorf("expected array form, got %s", parts)
	}
}

func TestStopRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single string", `"\n"`, []string{"\n"}},
		{"array", `["a","b"]`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stop
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(s.Values) != len(tt.want) {
				t.Fatalf("expected %d values, got %d", len(tt.want), len(s.Values))
			}
			for i, v := range tt.want {
				if s.Values[i] != v {
					t.Errorf("value %d: expected %q, got %q", i, v, s.Values[i])
				}
			}
		})
	}
}

func TestLastMessage(t *testing.T) {
	var empty ChatCompletionRequest
	if empty.LastMessage() != nil {
		t.Error("expected nil for empty messages")
	}

	req := ChatCompletionRequest{
		Messages: []Message{
			NewTextMessage(RoleSystem, "be nice"),
			NewTextMessage(RoleUser, "hi"),
		},
	}
	last := req.LastMessage()
	if last == nil || last.Content.String() != "hi" {
		t.Fatalf("expected last user message, got %+v", last)
	}

	// LastMessage must alias the slice so rewrites stick.
	last.Content = Content{Text: "rewritten"}
	if req.Messages[1].Content.String() != "rewritten" {
		t.Error("expected LastMessage to alias the request slice")
	}
}
