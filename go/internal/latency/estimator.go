// Package latency maintains a smoothed view of the session's round-trip
// time from ping samples.
package latency

import (
	"math"
	"time"
)

// DefaultDecay is the blend weight given to each new sample. The value
// matches the classic SRTT smoothing factor.
const DefaultDecay = 0.125

// Estimator keeps an exponentially weighted mean and standard deviation
// over an unbounded stream of round-trip samples. Each update discounts
// all prior samples by a constant factor; there is no fixed window and no
// outlier rejection. Negative samples (clock anomalies) are clamped to
// zero so the estimate can still converge downward after a clock step.
//
// The estimator is not safe for concurrent use; the session confines it
// to its event goroutine.
type Estimator struct {
	decay    float64
	mean     float64 // milliseconds
	variance float64 // milliseconds squared
	samples  int
}

// New returns an estimator with the given decay factor in (0, 1].
func New(decay float64) *Estimator {
	if decay <= 0 || decay > 1 {
		decay = DefaultDecay
	}
	return &Estimator{decay: decay}
}

// Observe folds one round-trip sample into the estimate.
func (e *Estimator) Observe(rtt time.Duration) {
	if rtt < 0 {
		rtt = 0
	}
	x := float64(rtt) / float64(time.Millisecond)
	if e.samples == 0 {
		e.mean = x
		e.variance = 0
		e.samples = 1
		return
	}
	diff := x - e.mean
	incr := e.decay * diff
	e.mean += incr
	e.variance = (1 - e.decay) * (e.variance + diff*incr)
	e.samples++
}

// Mean returns the current smoothed round-trip time.
func (e *Estimator) Mean() time.Duration {
	return time.Duration(e.mean * float64(time.Millisecond))
}

// StdDev returns the current smoothed round-trip deviation.
func (e *Estimator) StdDev() time.Duration {
	return time.Duration(math.Sqrt(e.variance) * float64(time.Millisecond))
}

// Samples returns how many samples have been observed.
func (e *Estimator) Samples() int {
	return e.samples
}
