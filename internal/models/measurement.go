package models

import "time"

// Measurement is the result of a single latency probe.
// RTT only carries a value when OK is true; a failed probe records zero.
type Measurement struct {
	Timestamp time.Time     `json:"timestamp"`
	RTT       time.Duration `json:"rtt"`
	OK        bool          `json:"ok"`
}

// Snapshot holds statistics derived from an ordered measurement window.
// Failed probes are excluded from the aggregates but counted in Failures.
// All duration fields are zero when the window has no successful probe.
type Snapshot struct {
	Current  time.Duration `json:"current"`
	Average  time.Duration `json:"average"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
	Jitter   time.Duration `json:"jitter"`
	Failures int           `json:"failures"`
}

// Update pairs a measurement with the statistics recomputed after it was
// appended to the history, plus the target the probe was issued against.
type Update struct {
	Measurement Measurement `json:"measurement"`
	Stats       Snapshot    `json:"stats"`
	Target      string      `json:"target"`
}
