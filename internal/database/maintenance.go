package database

import (
	"fmt"
	"time"
)

// Prune deletes measurements older than retention and returns how many
// rows were removed. A retention of zero keeps everything.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-retention).UnixMilli()
	res, err := s.Exec(`DELETE FROM measurements WHERE timestamp_ms < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune measurements: %w", err)
	}
	return res.RowsAffected()
}
