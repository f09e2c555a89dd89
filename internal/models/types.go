package models

import (
	"context"
	"time"
)

// Prober performs one latency probe against a target. Implementations
// never return an error; transport failures become failed Measurements.
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) Measurement
}

// Repository records measurements durably without blocking the caller.
// Storage failures must be handled internally and never surface.
type Repository interface {
	Save(m Measurement, target string)
}
