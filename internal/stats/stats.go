package stats

import (
	"math"
	"time"

	"netmonitor/internal/models"
)

// jitterGain is the 1/16 smoothing factor of the RFC 1889 interarrival
// jitter estimator.
const jitterGain = 16

// Compute derives a statistics snapshot from a measurement window
// ordered oldest to newest. Only successful probes contribute to the
// aggregates; failed entries are counted separately and are skipped when
// forming the consecutive pairs of the jitter estimator.
func Compute(window []models.Measurement) models.Snapshot {
	var (
		snap    models.Snapshot
		sum     float64
		n       int
		jitter  float64
		prev    float64
		hasPrev bool
	)

	for _, m := range window {
		if !m.OK {
			snap.Failures++
			continue
		}

		if n == 0 || m.RTT < snap.Min {
			snap.Min = m.RTT
		}
		if m.RTT > snap.Max {
			snap.Max = m.RTT
		}
		snap.Current = m.RTT
		sum += float64(m.RTT)
		n++

		if hasPrev {
			d := math.Abs(float64(m.RTT) - prev)
			jitter += (d - jitter) / jitterGain
		}
		prev = float64(m.RTT)
		hasPrev = true
	}

	if n == 0 {
		return models.Snapshot{Failures: snap.Failures}
	}

	snap.Average = time.Duration(sum / float64(n))
	snap.Jitter = time.Duration(jitter)
	return snap
}
