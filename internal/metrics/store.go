package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// GenerationMetric records metadata for a single shopping list generation.
type GenerationMetric struct {
	UserID      string
	Days        int
	DemandCount int
	ItemCount   int
	LatencyMS   int64
	Timestamp   time.Time
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_metrics (user_id, days, demand_count, item_count, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Days, m.DemandCount, m.ItemCount, m.LatencyMS, ts.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation metric: %w", err)
	}
	return nil
}

// DailyUsage represents generation totals for a single day.
type DailyUsage struct {
	Date         string
	Generations  int
	TotalItems   int
	AvgLatencyMS int64
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(timestampLayout)
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(timestamp, 1, 10) AS day, COUNT(*), COALESCE(SUM(item_count), 0), COALESCE(AVG(latency_ms), 0)
		 FROM generation_metrics
		 WHERE timestamp >= ?
		 GROUP BY day
		 ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			u   DailyUsage
			avg float64
		)
		if err := rows.Scan(&u.Date, &u.Generations, &u.TotalItems, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		u.AvgLatencyMS = int64(avg)
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily usage: %w", err)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(timestampLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM generation_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return res.RowsAffected()
}
