package track

import (
	"errors"
	"fmt"
	"time"

	"github.com/star/sunpos/internal/observer"
)

// Limits on a single track.
const (
	MinStep    = time.Second
	MaxSamples = 10000
)

var (
	// ErrStepTooSmall is returned when the sampling step is below MinStep.
	ErrStepTooSmall = fmt.Errorf("step must be at least %s", MinStep)

	// ErrTooManySamples is returned when [From, To] holds more than
	// MaxSamples instants at the requested step.
	ErrTooManySamples = fmt.Errorf("track exceeds %d samples", MaxSamples)

	// ErrInvertedRange is returned when To is before From.
	ErrInvertedRange = errors.New("to must not be before from")
)

// Sample is the Sun's topocentric position at one instant.
type Sample struct {
	Time         time.Time `json:"time"`
	Zenith       float64   `json:"zenith"`
	Elevation    float64   `json:"elevation"`
	Azimuth      float64   `json:"azimuth"`
	AzimuthAstro float64   `json:"azimuth_astro"`
	Incidence    *float64  `json:"incidence,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Request describes a sampled track over [From, To].
type Request struct {
	Site      observer.Site
	From      time.Time
	To        time.Time
	Step      time.Duration
	Offsets   observer.OffsetsFunc
	Incidence bool
}

// Count validates the request and returns the number of samples it covers.
func (r Request) Count() (int, error) {
	if r.Step < MinStep {
		return 0, ErrStepTooSmall
	}
	if r.To.Before(r.From) {
		return 0, ErrInvertedRange
	}
	n := int64(r.To.Sub(r.From)/r.Step) + 1
	if n > MaxSamples {
		return 0, ErrTooManySamples
	}
	return int(n), nil
}

// Times returns the sample instants in order.
func (r Request) Times() ([]time.Time, error) {
	n, err := r.Count()
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, n)
	for i := range times {
		times[i] = r.From.Add(time.Duration(i) * r.Step)
	}
	return times, nil
}
