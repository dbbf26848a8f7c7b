// Package infra implements infrastructure endpoints.
package infra

import (
	"time"
)

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	StartTime      time.Time
	FullDeployment string
	MiniDeployment string
}

// New creates a new instance of infrastructure handlers.
func New(startTime time.Time, fullDeployment, miniDeployment string) *Handlers {
	return &Handlers{
		StartTime:      startTime,
		FullDeployment: fullDeployment,
		MiniDeployment: miniDeployment,
	}
}
