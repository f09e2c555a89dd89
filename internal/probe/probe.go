package probe

import (
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"netmonitor/internal/models"
)

// Transport performs one raw latency check against a target and may fail.
type Transport interface {
	RTT(ctx context.Context, target string, timeout time.Duration) (time.Duration, error)
}

// Prober turns transport attempts into Measurements. It prefers the
// native transport and falls back to the generic one when the native
// transport reports a capability problem. The capability is re-evaluated
// on every probe, never cached across a run.
type Prober struct {
	native   Transport
	fallback Transport
}

// New returns a prober that uses ICMP echo requests when raw sockets are
// available and falls back to HTTP HEAD requests otherwise.
func New() *Prober {
	return NewWithTransports(&ICMPTransport{}, NewHTTPTransport())
}

// NewWithTransports builds a prober from explicit transports. The
// fallback may be nil, in which case capability errors fail the probe.
func NewWithTransports(native, fallback Transport) *Prober {
	return &Prober{native: native, fallback: fallback}
}

// Probe measures latency to target. It never returns an error: any
// transport failure yields a Measurement with OK unset.
func (p *Prober) Probe(ctx context.Context, target string, timeout time.Duration) models.Measurement {
	m := models.Measurement{Timestamp: time.Now()}

	rtt, err := p.native.RTT(ctx, target, timeout)
	if err != nil && p.fallback != nil && isCapabilityError(err) {
		log.WithField("target", target).Debug("native probe unavailable, using generic probe")
		rtt, err = p.fallback.RTT(ctx, target, timeout)
	}
	if err != nil {
		log.WithField("target", target).WithError(err).Debug("probe failed")
		return m
	}

	m.RTT = rtt
	m.OK = true
	return m
}

// isCapabilityError reports whether err indicates the native transport
// cannot run in this environment, as opposed to the target being down.
func isCapabilityError(err error) bool {
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "operation not permitted") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "socket type not supported")
}
