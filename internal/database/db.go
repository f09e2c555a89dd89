package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"netmonitor/internal/models"
)

// Store wraps sql.DB with the measurement persistence methods.
type Store struct {
	*sql.DB
}

// New opens (or creates) the database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	// WAL mode for better concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	return &Store{db}, nil
}

// InitSchema creates all necessary tables.
func (s *Store) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS measurements (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp_ms INTEGER NOT NULL,
        target TEXT NOT NULL,
        success INTEGER NOT NULL,
        latency_ms REAL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_measurements_timestamp ON measurements(timestamp_ms);
    CREATE INDEX IF NOT EXISTS idx_measurements_target ON measurements(target, timestamp_ms);
    `

	if _, err := s.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// SaveResult persists one measurement for target. The latency column is
// NULL for failed probes.
func (s *Store) SaveResult(m models.Measurement, target string) error {
	var latency sql.NullFloat64
	if m.OK {
		latency = sql.NullFloat64{
			Float64: float64(m.RTT) / float64(time.Millisecond),
			Valid:   true,
		}
	}

	_, err := s.Exec(
		`INSERT INTO measurements (timestamp_ms, target, success, latency_ms) VALUES (?, ?, ?, ?)`,
		m.Timestamp.UnixMilli(), target, boolToInt(m.OK), latency,
	)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
