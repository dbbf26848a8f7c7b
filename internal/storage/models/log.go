package models

import "time"

// Rewrite outcome values recorded on request logs.
const (
	OutcomeForwarded     = "forwarded"
	OutcomeClarification = "clarification"
)

// RequestLog is one proxied chat completion request.
type RequestLog struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id"`
	Deployment       string    `json:"deployment"`
	Outcome          string    `json:"outcome"`
	RewriteCached    bool      `json:"rewrite_cached"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	RewriteTokens    int       `json:"rewrite_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	IsStreaming      bool      `json:"is_streaming"`
	StatusCode       int       `json:"status_code"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// LogFilter contains parameters for filtering request logs.
type LogFilter struct {
	Deployment string
	Outcome    string
	StatusCode *int
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}
