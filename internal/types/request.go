package types

import "encoding/json"

// ChatCompletionRequest is an OpenAI chat completion request.
// Optional fields are pointers so that unset and zero stay distinguishable
// when the body is re-marshaled for the upstream call.
type ChatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	// Sampling
	Temperature         *float64 `json:"temperature,omitempty"`
	TopP                *float64 `json:"top_p,omitempty"`
	N                   *int     `json:"n,omitempty"`
	MaxTokens           *int     `json:"max_tokens,omitempty"` // Deprecated upstream, still accepted
	MaxCompletionTokens *int     `json:"max_completion_tokens,omitempty"`
	PresencePenalty     *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty    *float64 `json:"frequency_penalty,omitempty"`

	// Stopping
	Stop Stop `json:"stop,omitempty"`

	// Streaming
	Stream        bool           `json:"stream,omitempty"`
	StreamOptions *StreamOptions `json:"stream_options,omitempty"`

	// Tool calling
	Tools      []Tool      `json:"tools,omitempty"`
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`

	// Output format
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	// Misc
	Seed        *int   `json:"seed,omitempty"`
	User        string `json:"user,omitempty"`
	Logprobs    *bool  `json:"logprobs,omitempty"`
	TopLogprobs *int   `json:"top_logprobs,omitempty"`
}

// LastMessage returns a pointer to the final message, or nil when empty.
func (r *ChatCompletionRequest) LastMessage() *Message {
	if len(r.Messages) == 0 {
		return nil
	}
	return &r.Messages[len(r.Messages)-1]
}

// StreamOptions controls streaming behavior.
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage,omitempty"`
}

// ResponseFormat selects the output format.
type ResponseFormat struct {
	Type       string      `json:"type"` // "text", "json_object", "json_schema"
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// JSONSchema describes a structured-output schema.
type JSONSchema struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Schema      interface{} `json:"schema"`
	Strict      *bool       `json:"strict,omitempty"`
}

// Stop holds stop sequences, a string or array of strings on the wire.
type Stop struct {
	Values []string
}

// MarshalJSON emits a bare string for a single value, an array otherwise.
func (s Stop) MarshalJSON() ([]byte, error) {
	if len(s.Values) == 0 {
		return []byte("null"), nil
	}
	if len(s.Values) == 1 {
		return json.Marshal(s.Values[0])
	}
	return json.Marshal(s.Values)
}

// UnmarshalJSON accepts both forms.
func (s *Stop) UnmarshalJSON(data []byte) error {
	s.Values = nil
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.Values = []string{single}
		return nil
	}
	return json.Unmarshal(data, &s.Values)
}
