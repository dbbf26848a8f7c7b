package rewrite

import "testing"

func TestExtractPromptContent(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"simple", "<prompt>Hello world</prompt>", "Hello world", true},
		{"multi-line", "<prompt>\nMulti\nLine\nText\n</prompt>", "\nMulti\nLine\nText\n", true},
		{"case insensitive", "<PROMPT>Case insensitive</PROMPT>", "Case insensitive", true},
		{"mixed case", "<Prompt>Mixed</Prompt>", "Mixed", true},
		{"with attributes", `<prompt id="1" class="test">With attributes</prompt>`, "With attributes", true},
		{"first of several", "<prompt>First</prompt><prompt>Second</prompt>", "First", true},
		{"surrounding text", "before <prompt>inner</prompt> after", "inner", true},
		{"no tags", "No prompt tags here", "", false},
		{"other tag", "<other>Not a prompt tag</other>", "", false},
		{"unclosed", "<prompt>never closed", "", false},
		{"empty content", "<prompt></prompt>", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractPromptContent(tt.in)
			if found != tt.found {
				t.Fatalf("found=%v, expected %v", found, tt.found)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractAllPromptContents(t *testing.T) {
	got := ExtractAllPromptContents("<prompt>First</prompt> and <prompt>Second</prompt>")
	if len(got) != 2 || got[0] != "First" || got[1] != "Second" {
		t.Errorf("expected [First Second], got %v", got)
	}

	if got := ExtractAllPromptContents("no prompts here"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	got = ExtractAllPromptContents("<prompt>Only one</prompt>")
	if len(got) != 1 || got[0] != "Only one" {
		t.Errorf("expected [Only one], got %v", got)
	}
}

func TestHasPromptTags(t *testing.T) {
	if !HasPromptTags("<prompt>Hello</prompt>") {
		t.Error("expected tags to be detected")
	}
	if HasPromptTags("No tags here") {
		t.Error("expected no tags")
	}
	if HasPromptTags("<other>Not a prompt tag</other>") {
		t.Error("expected other tags to be ignored")
	}
}

func TestWrapPromptRoundTrip(t *testing.T) {
	wrapped := WrapPrompt("fix my code")
	inner, ok := ExtractPromptContent(wrapped)
	if !ok || inner != "fix my code" {
		t.Errorf("round trip failed: %q, %v", inner, ok)
	}
}
