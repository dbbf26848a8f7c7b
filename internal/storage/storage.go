// Package storage provides the storage interface and implementations.
package storage

import (
	"github.com/mandalnilabja/promptgate/internal/storage/models"
	"github.com/mandalnilabja/promptgate/internal/storage/sqlite"
)

// Re-export types from the models package for convenience.
type (
	RequestLog      = models.RequestLog
	LogFilter       = models.LogFilter
	DailyUsage      = models.DailyUsage
	DeploymentStats = models.DeploymentStats
	UsageStats      = models.UsageStats
	StatsFilter     = models.StatsFilter
	ClientAPIKey    = models.ClientAPIKey
)

// Re-export outcome constants.
const (
	OutcomeForwarded     = models.OutcomeForwarded
	OutcomeClarification = models.OutcomeClarification
)

// Re-export errors from the sqlite package.
var (
	ErrNotFound      = sqlite.ErrNotFound
	ErrInvalidInput  = sqlite.ErrInvalidInput
	ErrStorageClosed = sqlite.ErrStorageClosed
)

// Storage defines the interface for persistent data storage.
type Storage interface {
	// Request logging
	LogRequest(log *models.RequestLog) error
	GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error)
	DeleteRequestLogs(olderThan string) (int64, error)

	// Usage statistics
	UpdateDailyUsage(usage *models.DailyUsage) error
	GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error)
	GetUsageStats(filter models.StatsFilter) (*models.UsageStats, error)

	// Gateway API keys
	CreateAPIKey(key *models.ClientAPIKey) error
	GetAPIKeyByPrefix(prefix string) ([]*models.ClientAPIKey, error)
	ListAPIKeys() ([]*models.ClientAPIKey, error)
	RevokeAPIKey(id string) error
	UpdateAPIKeyLastUsed(id string) error
	HasActiveAPIKeys() (bool, error)

	Close() error
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}
