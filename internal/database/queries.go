package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Record is one persisted measurement row. LatencyMS is nil for failed
// probes.
type Record struct {
	Timestamp time.Time
	Target    string
	Success   bool
	LatencyMS *float64
}

// TargetStats aggregates the persisted measurements for one target.
type TargetStats struct {
	Target       string
	Total        int
	Successful   int
	AvgLatencyMS float64
	MinLatencyMS float64
	MaxLatencyMS float64
}

// Recent retrieves the newest persisted measurements, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.Query(`
        SELECT timestamp_ms, target, success, latency_ms
        FROM measurements
        ORDER BY timestamp_ms DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			ts      int64
			success int
			latency sql.NullFloat64
		)
		if err := rows.Scan(&ts, &r.Target, &success, &latency); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		r.Timestamp = time.UnixMilli(ts)
		r.Success = success != 0
		if latency.Valid {
			v := latency.Float64
			r.LatencyMS = &v
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats aggregates all persisted measurements for target. Failed probes
// count towards Total but not the latency aggregates.
func (s *Store) Stats(target string) (TargetStats, error) {
	stats := TargetStats{Target: target}

	var successful sql.NullInt64
	var avg, min, max sql.NullFloat64
	err := s.QueryRow(`
        SELECT
            COUNT(*),
            SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END),
            AVG(CASE WHEN success = 1 THEN latency_ms END),
            MIN(CASE WHEN success = 1 THEN latency_ms END),
            MAX(CASE WHEN success = 1 THEN latency_ms END)
        FROM measurements
        WHERE target = ?`, target,
	).Scan(&stats.Total, &successful, &avg, &min, &max)
	if err != nil {
		return stats, fmt.Errorf("query stats: %w", err)
	}

	stats.Successful = int(successful.Int64)
	if avg.Valid {
		stats.AvgLatencyMS = avg.Float64
	}
	if min.Valid {
		stats.MinLatencyMS = min.Float64
	}
	if max.Valid {
		stats.MaxLatencyMS = max.Float64
	}
	return stats, nil
}
