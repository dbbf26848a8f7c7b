package types

// ChatCompletionChunk is one streamed completion chunk.
type ChatCompletionChunk struct {
	ID                string        `json:"id"`
	Object            string        `json:"object"` // "chat.completion.chunk"
	Created           int64         `json:"created"`
	Model             string        `json:"model"`
	Choices           []ChunkChoice `json:"choices"`
	Usage             *Usage        `json:"usage,omitempty"` // Final chunk only, when requested
	SystemFingerprint string        `json:"system_fingerprint,omitempty"`
}

// ChunkChoice is a choice inside a streamed chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"` // Pointer keeps null distinct from ""
}

// Delta carries the incremental content of a chunk.
type Delta struct {
	Role      string     `json:"role,omitempty"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// IsFinal reports whether this choice ends the generation.
func (c *ChunkChoice) IsFinal() bool {
	return c.FinishReason != nil && *c.FinishReason != ""
}

// SSE framing helpers.

// SSEPrefix is the Server-Sent Events data prefix.
const SSEPrefix = "data: "

// SSEDone terminates an SSE completion stream.
const SSEDone = "data: [DONE]\n\n"

// FormatSSE frames a JSON payload as one SSE event.
func FormatSSE(data []byte) []byte {
	out := make([]byte, 0, len(SSEPrefix)+len(data)+2)
	out = append(out, SSEPrefix...)
	out = append(out, data...)
	out = append(out, '\n', '\n')
	return out
}
