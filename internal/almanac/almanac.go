package almanac

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/star/sunpos/internal/observer"
	"github.com/star/sunpos/internal/spa"
)

// Polar states for days without a sunrise or sunset.
const (
	PolarDay   = "day"
	PolarNight = "night"
)

// MaxDays bounds a single request.
const MaxDays = 366

// Day is the rise/transit/set summary for one local calendar day.
type Day struct {
	Date string `json:"date"` // YYYY-MM-DD in the site's zone

	Sunrise *time.Time `json:"sunrise,omitempty"`
	Transit *time.Time `json:"transit,omitempty"`
	Sunset  *time.Time `json:"sunset,omitempty"`

	// Local fractional hours, NoEvent when absent.
	SunriseHour float64 `json:"sunrise_hour"`
	TransitHour float64 `json:"transit_hour"`
	SunsetHour  float64 `json:"sunset_hour"`

	DayLength       float64 `json:"day_length"`       // hours
	TransitAltitude float64 `json:"transit_altitude"` // degrees, refracted
	EOT             float64 `json:"eot"`              // minutes, at local noon
	Polar           string  `json:"polar,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// Request holds the parameters for an almanac computation.
type Request struct {
	Site    observer.Site
	Start   time.Time            // its date and zone select the first day
	Days    int                  // number of consecutive local dates
	Offsets observer.OffsetsFunc // nil means zero offsets
	Workers int                  // defaults to runtime.NumCPU()
}

// Days computes one Day per local date in [Start, Start+Days).
// Each day runs in its own goroutine, bounded by a semaphore.
// The result is in date order; failed or cancelled days carry Error.
func Days(ctx context.Context, req Request) []Day {
	if req.Days <= 0 {
		return nil
	}
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Day, req.Days)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	y, m, d := req.Start.Date()
	loc := req.Start.Location()

	for i := 0; i < req.Days; i++ {
		noon := time.Date(y, m, d+i, 12, 0, 0, 0, loc)
		if ctx.Err() != nil {
			results[i] = Day{Date: noon.Format(time.DateOnly), Error: "cancelled"}
			continue
		}
		wg.Add(1)
		go func(idx int, noon time.Time) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Day{Date: noon.Format(time.DateOnly), Error: "cancelled"}
				return
			}

			day, err := computeDay(req, noon)
			if err != nil {
				results[idx] = Day{Date: noon.Format(time.DateOnly), Error: err.Error()}
				return
			}
			results[idx] = day
		}(i, noon)
	}

	wg.Wait()
	return results
}

// Validate checks req's site and offsets with the engine's input rules on
// the first day. Every day shares the site, so a failure here would repeat
// on each day of the batch.
func Validate(req Request) error {
	y, m, d := req.Start.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, req.Start.Location())
	return spa.Validate(req.Site.Input(noon, req.Offsets.At(noon), spa.Request{RiseTransitSet: true}))
}

// computeDay evaluates the engine at local noon with rise/transit/set.
func computeDay(req Request, noon time.Time) (Day, error) {
	in := req.Site.Input(noon, req.Offsets.At(noon), spa.Request{RiseTransitSet: true})
	res, err := spa.Calculate(in)
	if err != nil {
		return Day{}, fmt.Errorf("spa: %w", err)
	}

	day := Day{
		Date:            noon.Format(time.DateOnly),
		SunriseHour:     res.Sunrise,
		TransitHour:     res.SunTransit,
		SunsetHour:      res.Sunset,
		TransitAltitude: res.Elevation(),
		EOT:             res.EOT,
	}

	midnight := time.Date(noon.Year(), noon.Month(), noon.Day(), 0, 0, 0, 0, noon.Location())
	day.Sunrise = localTime(midnight, res.Sunrise)
	day.Transit = localTime(midnight, res.SunTransit)
	day.Sunset = localTime(midnight, res.Sunset)

	if day.Transit != nil {
		at := *day.Transit
		tr, err := spa.Calculate(req.Site.Input(at, req.Offsets.At(at), spa.Request{}))
		if err != nil {
			return Day{}, fmt.Errorf("spa at transit: %w", err)
		}
		day.TransitAltitude = tr.Elevation()
	}

	switch {
	case res.HasRiseSet():
		day.DayLength = res.Sunset - res.Sunrise
		if day.DayLength < 0 {
			day.DayLength += 24
		}
	case res.Elevation() > 0:
		day.Polar = PolarDay
		day.DayLength = 24
	default:
		day.Polar = PolarNight
	}

	return day, nil
}

func localTime(midnight time.Time, hour float64) *time.Time {
	d, ok := spa.HourToDuration(hour)
	if !ok {
		return nil
	}
	t := midnight.Add(d)
	return &t
}
