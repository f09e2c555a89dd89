package monitor

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"netmonitor/internal/config"
	"netmonitor/internal/history"
	"netmonitor/internal/models"
	"netmonitor/internal/stats"
)

// defaultTimeout bounds a probe when the configuration carries none.
const defaultTimeout = 5 * time.Second

// ConfigSource yields the live monitoring configuration. The target is
// read fresh on every tick so a change takes effect without a restart;
// the interval is resolved once per Start.
type ConfigSource interface {
	Current() config.Config
}

// Monitor owns the cancellable polling loop: it probes the configured
// target at a fixed cadence, maintains the rolling history, recomputes
// statistics and fans results out to subscribers and the repository.
//
// A Monitor is either idle or running. Exactly one loop exists while
// running, with at most one probe in flight, so updates are published in
// tick order.
type Monitor struct {
	source ConfigSource
	prober models.Prober
	repo   models.Repository
	buffer *history.Buffer

	mu     sync.Mutex // serializes Start/Stop
	cancel context.CancelFunc
	done   chan struct{}

	subMu  sync.Mutex
	subs   map[int]chan models.Update
	nextID int
}

// New creates an idle monitor. repo may be nil when persistence is not
// wanted.
func New(source ConfigSource, prober models.Prober, repo models.Repository, buffer *history.Buffer) *Monitor {
	if buffer == nil {
		buffer = history.New(history.DefaultCapacity)
	}
	return &Monitor{
		source: source,
		prober: prober,
		repo:   repo,
		buffer: buffer,
		subs:   make(map[int]chan models.Update),
	}
}

// Start begins polling at the configured interval. A running monitor is
// torn down first, so calling Start twice never leaves two loops behind.
func (m *Monitor) Start() {
	m.StartWithInterval(0)
}

// StartWithInterval begins polling, preferring override when positive
// over the configured interval. The first probe fires immediately.
func (m *Monitor) StartWithInterval(override time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()

	interval := override
	if interval <= 0 {
		interval = m.source.Current().Interval
	}
	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	log.WithField("interval", interval).Info("monitor started")
	go m.run(ctx, interval, done)
}

// Stop halts polling. After Stop returns no further tick effects occur;
// the result of a probe in flight at the cancellation point is
// discarded. Stopping an idle monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Monitor) stopLocked() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
	m.done = nil
	log.Info("monitor stopped")
}

// Running reports whether a polling loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// History returns a copy of the current measurement window.
func (m *Monitor) History() []models.Measurement {
	return m.buffer.Snapshot()
}

// Stats computes statistics over the current measurement window.
func (m *Monitor) Stats() models.Snapshot {
	return stats.Compute(m.buffer.Snapshot())
}

func (m *Monitor) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick performs one probe and applies its effects. The target is read
// fresh from the configuration source on every call.
func (m *Monitor) tick(ctx context.Context) {
	cfg := m.source.Current()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	measurement := m.prober.Probe(ctx, cfg.Target, timeout)
	if ctx.Err() != nil {
		// cancelled while the probe was in flight
		return
	}

	m.buffer.Push(measurement)
	snap := stats.Compute(m.buffer.Snapshot())

	m.publish(models.Update{
		Measurement: measurement,
		Stats:       snap,
		Target:      cfg.Target,
	})

	if m.repo != nil {
		m.repo.Save(measurement, cfg.Target)
	}
}
