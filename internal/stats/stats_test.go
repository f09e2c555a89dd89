package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"netmonitor/internal/models"
)

func ok(rtt time.Duration) models.Measurement {
	return models.Measurement{Timestamp: time.Now(), RTT: rtt, OK: true}
}

func failed() models.Measurement {
	return models.Measurement{Timestamp: time.Now()}
}

func jitterMillis(snap models.Snapshot) float64 {
	return float64(snap.Jitter) / float64(time.Millisecond)
}

func TestEmptyWindow(t *testing.T) {
	assert.Equal(t, models.Snapshot{}, Compute(nil))
	assert.Equal(t, models.Snapshot{}, Compute([]models.Measurement{}))
}

func TestAllFailed(t *testing.T) {
	snap := Compute([]models.Measurement{failed(), failed(), failed()})

	assert.Equal(t, time.Duration(0), snap.Current)
	assert.Equal(t, time.Duration(0), snap.Average)
	assert.Equal(t, time.Duration(0), snap.Min)
	assert.Equal(t, time.Duration(0), snap.Max)
	assert.Equal(t, time.Duration(0), snap.Jitter)
	assert.Equal(t, 3, snap.Failures)
}

func TestAggregates(t *testing.T) {
	snap := Compute([]models.Measurement{
		ok(30 * time.Millisecond),
		ok(10 * time.Millisecond),
		ok(20 * time.Millisecond),
	})

	assert.Equal(t, 20*time.Millisecond, snap.Current)
	assert.Equal(t, 20*time.Millisecond, snap.Average)
	assert.Equal(t, 10*time.Millisecond, snap.Min)
	assert.Equal(t, 30*time.Millisecond, snap.Max)
	assert.Equal(t, 0, snap.Failures)
}

func TestFailuresExcludedFromAggregates(t *testing.T) {
	snap := Compute([]models.Measurement{
		ok(10 * time.Millisecond),
		failed(),
		ok(30 * time.Millisecond),
	})

	assert.Equal(t, 30*time.Millisecond, snap.Current)
	assert.Equal(t, 20*time.Millisecond, snap.Average)
	assert.Equal(t, 10*time.Millisecond, snap.Min)
	assert.Equal(t, 30*time.Millisecond, snap.Max)
	assert.Equal(t, 1, snap.Failures)
}

func TestCurrentIsMostRecentSuccess(t *testing.T) {
	snap := Compute([]models.Measurement{
		ok(10 * time.Millisecond),
		ok(20 * time.Millisecond),
		failed(),
	})

	assert.Equal(t, 20*time.Millisecond, snap.Current)
}

func TestJitterIncreasingSequence(t *testing.T) {
	// D=10ms, J=0.625; D=10ms, J=1.2109375
	snap := Compute([]models.Measurement{
		ok(10 * time.Millisecond),
		ok(20 * time.Millisecond),
		ok(30 * time.Millisecond),
	})

	assert.InDelta(t, 1.2109375, jitterMillis(snap), 1e-5)
}

func TestJitterOrderDependence(t *testing.T) {
	// same absolute differences as the increasing case, so the
	// cumulative estimator yields the same value
	snap := Compute([]models.Measurement{
		ok(10 * time.Millisecond),
		ok(20 * time.Millisecond),
		ok(10 * time.Millisecond),
	})

	assert.InDelta(t, 1.2109375, jitterMillis(snap), 1e-5)
}

func TestJitterSkipsFailedEntries(t *testing.T) {
	// the failed entry does not contribute a difference sample, so the
	// result matches the contiguous [10,20,30] sequence
	snap := Compute([]models.Measurement{
		ok(10 * time.Millisecond),
		ok(20 * time.Millisecond),
		failed(),
		ok(30 * time.Millisecond),
	})

	assert.InDelta(t, 1.2109375, jitterMillis(snap), 1e-5)
}

func TestJitterSingleSuccess(t *testing.T) {
	snap := Compute([]models.Measurement{ok(10 * time.Millisecond)})
	assert.Equal(t, time.Duration(0), snap.Jitter)
}

func TestStableLatencyHasZeroJitter(t *testing.T) {
	snap := Compute([]models.Measurement{
		ok(25 * time.Millisecond),
		ok(25 * time.Millisecond),
		ok(25 * time.Millisecond),
	})

	assert.Equal(t, time.Duration(0), snap.Jitter)
}
