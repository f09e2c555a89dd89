package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	fsnotify "gopkg.in/fsnotify.v1"
)

// Provider supplies the live monitoring configuration and a change
// notification stream. The scheduler reads Current on start and on every
// tick; other collaborators may listen on Changes.
type Provider interface {
	Current() Config
	Changes() <-chan Config
}

// Store is a Provider whose configuration can be swapped at runtime.
type Store struct {
	mu       sync.RWMutex
	cfg      Config
	watchers []chan Config
}

// NewStore creates a Store seeded with cfg.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// Current returns the active configuration.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set swaps the active configuration and notifies change listeners.
// Notification is non-blocking; a listener that is not draining its
// channel misses the update.
func (s *Store) Set(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	watchers := s.watchers
	s.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- cfg:
		default:
		}
	}
}

// Changes returns a channel receiving every configuration swap.
func (s *Store) Changes() <-chan Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Config, 1)
	s.watchers = append(s.watchers, ch)
	return ch
}

// Watch reloads the config file whenever it changes on disk and blocks
// until ctx is cancelled. Values the file leaves unset keep their
// current (flag-derived) values. A file that fails to parse is ignored
// and the previous configuration stays active.
func (s *Store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("config watch %q: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.reload(path)
		case err := <-watcher.Errors:
			log.WithError(err).Warn("config watcher error")
		}
	}
}

func (s *Store) reload(path string) {
	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Warn("config reload failed")
		return
	}
	parsed, err := FromYAML(f)
	f.Close()
	if err != nil {
		log.WithError(err).Warn("config reload failed")
		return
	}

	merged := s.Current()
	applyFileConfig(&merged, parsed)
	if err := merged.Validate(); err != nil {
		log.WithError(err).Warn("ignoring invalid config change")
		return
	}

	s.Set(merged)
	log.WithField("target", merged.Target).Info("configuration reloaded")
}

// applyFileConfig overlays the non-zero values of src onto dst.
func applyFileConfig(dst *Config, src *Config) {
	if src.Target != "" {
		dst.Target = src.Target
	}
	if src.Interval != 0 {
		dst.Interval = src.Interval
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.HistorySize != 0 {
		dst.HistorySize = src.HistorySize
	}
	if src.DatabasePath != "" {
		dst.DatabasePath = src.DatabasePath
	}
	if src.Retention != 0 {
		dst.Retention = src.Retention
	}
	if src.ListenAddress != "" {
		dst.ListenAddress = src.ListenAddress
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}
