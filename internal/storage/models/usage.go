package models

import "time"

// DailyUsage is the aggregated usage row for one deployment and day.
type DailyUsage struct {
	Date               string `json:"date"` // YYYY-MM-DD
	Deployment         string `json:"deployment"`
	RequestCount       int    `json:"request_count"`
	PromptTokens       int    `json:"prompt_tokens"`
	CompletionTokens   int    `json:"completion_tokens"`
	RewriteTokens      int    `json:"rewrite_tokens"`
	TotalTokens        int    `json:"total_tokens"`
	ClarificationCount int    `json:"clarification_count"`
	ErrorCount         int    `json:"error_count"`
}

// DeploymentStats is aggregated usage for one deployment.
type DeploymentStats struct {
	Deployment         string `json:"deployment"`
	RequestCount       int    `json:"request_count"`
	PromptTokens       int    `json:"prompt_tokens"`
	CompletionTokens   int    `json:"completion_tokens"`
	RewriteTokens      int    `json:"rewrite_tokens"`
	TotalTokens        int    `json:"total_tokens"`
	ClarificationCount int    `json:"clarification_count"`
	ErrorCount         int    `json:"error_count"`
}

// UsageStats is the aggregate across all deployments.
type UsageStats struct {
	TotalRequests         int                         `json:"total_requests"`
	TotalTokens           int                         `json:"total_tokens"`
	TotalPromptTokens     int                         `json:"prompt_tokens"`
	TotalCompletionTokens int                         `json:"completion_tokens"`
	TotalRewriteTokens    int                         `json:"rewrite_tokens"`
	ClarificationCount    int                         `json:"clarification_count"`
	ErrorCount            int                         `json:"error_count"`
	Deployments           map[string]*DeploymentStats `json:"deployments,omitempty"`
}

// StatsFilter contains parameters for filtering usage statistics.
type StatsFilter struct {
	Deployment string
	StartDate  *time.Time
	EndDate    *time.Time
}
