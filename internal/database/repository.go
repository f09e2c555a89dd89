package database

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"netmonitor/internal/models"
)

// Repository records measurements asynchronously. Save never blocks the
// caller and never surfaces storage errors; they are logged and
// swallowed so a broken database cannot disturb the measurement cadence.
// A Repository without a store attached silently discards writes.
type Repository struct {
	store *Store
	wg    sync.WaitGroup
}

// NewRepository wraps store. store may be nil.
func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

// Save persists m for target in a detached goroutine.
func (r *Repository) Save(m models.Measurement, target string) {
	if r == nil || r.store == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.store.SaveResult(m, target); err != nil {
			log.WithField("target", target).WithError(err).Error("failed to persist measurement")
		}
	}()
}

// Flush waits for in-flight writes to finish, at most for timeout.
// It reports whether everything was written in time.
func (r *Repository) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
