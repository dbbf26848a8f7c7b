package sqlite

import (
	"github.com/mandalnilabja/promptgate/internal/storage/models"
)

// UpdateDailyUsage adds a usage delta to the daily aggregate row for the
// deployment, creating the row if it does not exist.
func (s *Storage) UpdateDailyUsage(usage *models.DailyUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if usage.Date == "" || usage.Deployment == "" {
		return ErrInvalidInput
	}

	_, err := s.db.Exec(`
		INSERT INTO usage_daily (date, deployment, request_count, prompt_tokens,
			completion_tokens, rewrite_tokens, total_tokens, clarification_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, deployment) DO UPDATE SET
			request_count = request_count + excluded.request_count,
			prompt_tokens = prompt_tokens + excluded.prompt_tokens,
			completion_tokens = completion_tokens + excluded.completion_tokens,
			rewrite_tokens = rewrite_tokens + excluded.rewrite_tokens,
			total_tokens = total_tokens + excluded.total_tokens,
			clarification_count = clarification_count + excluded.clarification_count,
			error_count = error_count + excluded.error_count
	`, usage.Date, usage.Deployment, usage.RequestCount, usage.PromptTokens,
		usage.CompletionTokens, usage.RewriteTokens, usage.TotalTokens,
		usage.ClarificationCount, usage.ErrorCount)

	return err
}

// GetDailyUsage returns daily usage rows between startDate and endDate
// inclusive (YYYY-MM-DD).
func (s *Storage) GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`
		SELECT date, deployment, request_count, prompt_tokens, completion_tokens,
			rewrite_tokens, total_tokens, clarification_count, error_count
		FROM usage_daily
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, deployment
	`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []*models.DailyUsage
	for rows.Next() {
		var u models.DailyUsage
		err := rows.Scan(&u.Date, &u.Deployment, &u.RequestCount, &u.PromptTokens,
			&u.CompletionTokens, &u.RewriteTokens, &u.TotalTokens,
			&u.ClarificationCount, &u.ErrorCount)
		if err != nil {
			return nil, err
		}
		usages = append(usages, &u)
	}

	return usages, rows.Err()
}

// GetUsageStats returns aggregate usage with a per-deployment breakdown.
func (s *Storage) GetUsageStats(filter models.StatsFilter) (*models.UsageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `
		SELECT deployment, SUM(request_count), SUM(prompt_tokens), SUM(completion_tokens),
			SUM(rewrite_tokens), SUM(total_tokens), SUM(clarification_count), SUM(error_count)
		FROM usage_daily WHERE 1=1`

	var args []interface{}

	if filter.Deployment != "" {
		query += " AND deployment = ?"
		args = append(args, filter.Deployment)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}

	query += " GROUP BY deployment"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.UsageStats{
		Deployments: make(map[string]*models.DeploymentStats),
	}

	for rows.Next() {
		var d models.DeploymentStats
		err := rows.Scan(&d.Deployment, &d.RequestCount, &d.PromptTokens, &d.CompletionTokens,
			&d.RewriteTokens, &d.TotalTokens, &d.ClarificationCount, &d.ErrorCount)
		if err != nil {
			return nil, err
		}

		stats.Deployments[d.Deployment] = &d
		stats.TotalRequests += d.RequestCount
		stats.TotalPromptTokens += d.PromptTokens
		stats.TotalCompletionTokens += d.CompletionTokens
		stats.TotalRewriteTokens += d.RewriteTokens
		stats.TotalTokens += d.TotalTokens
		stats.ClarificationCount += d.ClarificationCount
		stats.ErrorCount += d.ErrorCount
	}

	return stats, rows.Err()
}
