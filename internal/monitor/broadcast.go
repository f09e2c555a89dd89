package monitor

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"netmonitor/internal/models"
)

// subscriptionBuffer is the per-subscriber channel depth. A consumer
// falling further behind than this loses updates instead of stalling
// the polling loop.
const subscriptionBuffer = 16

// Subscription receives one update per completed tick on C. It stays
// registered across Stop/Start cycles; updates simply pause while the
// monitor is idle. Cancel detaches it and closes C.
type Subscription struct {
	C <-chan models.Update

	once   sync.Once
	cancel func()
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers a consumer of measurement updates.
func (m *Monitor) Subscribe() *Subscription {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextID
	m.nextID++

	ch := make(chan models.Update, subscriptionBuffer)
	m.subs[id] = ch

	return &Subscription{
		C: ch,
		cancel: func() {
			m.subMu.Lock()
			delete(m.subs, id)
			close(ch)
			m.subMu.Unlock()
		},
	}
}

func (m *Monitor) publish(u models.Update) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- u:
		default:
			log.Warn("subscriber buffer full, dropping update")
		}
	}
}
