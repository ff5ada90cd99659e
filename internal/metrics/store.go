package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// GenerationMetric records the outcome of a single weekly plan generation.
type GenerationMetric struct {
	RunID          string
	TargetCalories int
	DietPreference string
	CuisineCount   int
	Candidates     int
	Sentinels      int
	Outcome        string
	Latency        time.Duration
	Timestamp      time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_runs
			(run_id, target_calories, diet_preference, cuisine_count, candidates, sentinels, outcome, latency_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.TargetCalories, m.DietPreference, m.CuisineCount, m.Candidates, m.Sentinels,
		m.Outcome, m.Latency.Milliseconds(), ts.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to record generation %s: %w", m.RunID, err)
	}
	return nil
}

// DailyUsage summarizes generations for a single day.
type DailyUsage struct {
	Date         string
	Total        int
	Succeeded    int
	Failed       int
	AvgLatencyMS int64
	Sentinels    int
}

// GetDailyUsage retrieves per-day summaries for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(timestampLayout)
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(recorded_at, 1, 10) AS day,
		       COUNT(*),
		       SUM(CASE WHEN outcome = 'ok' THEN 1 ELSE 0 END),
		       CAST(AVG(latency_ms) AS INTEGER),
		       SUM(sentinels)
		FROM generation_runs
		WHERE recorded_at >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Total, &u.Succeeded, &u.AvgLatencyMS, &u.Sentinels); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		u.Failed = u.Total - u.Succeeded
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(timestampLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM generation_runs WHERE recorded_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return res.RowsAffected()
}
