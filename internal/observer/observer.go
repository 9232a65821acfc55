package observer

import (
	"context"
	"time"

	"github.com/star/sunpos/internal/spa"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Useful for tests and replays.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// Location is an observer position on the Earth.
type Location struct {
	Latitude  float64 `json:"latitude"`  // degrees, north positive
	Longitude float64 `json:"longitude"` // degrees, east positive
	Elevation float64 `json:"elevation"` // meters
}

// Locator supplies the observer position.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// StaticLocator returns a configured location.
type StaticLocator Location

// Locate returns the configured location.
func (l StaticLocator) Locate(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	return Location(l), nil
}

// Atmosphere holds the local conditions used for refraction.
type Atmosphere struct {
	Pressure    float64 `json:"pressure"`    // millibars
	Temperature float64 `json:"temperature"` // degrees Celsius
	Refraction  float64 `json:"refraction"`  // refraction at sunrise/sunset, degrees
}

// DefaultAtmosphere returns standard sea-level conditions.
func DefaultAtmosphere() Atmosphere {
	return Atmosphere{
		Pressure:    1013.25,
		Temperature: 15,
		Refraction:  0.5667,
	}
}

// Surface describes the plane used for the incidence angle.
type Surface struct {
	Slope       float64 `json:"slope"`        // tilt from horizontal, degrees
	AzmRotation float64 `json:"azm_rotation"` // from south, negative east, degrees
}

// Offsets are the Earth rotation corrections for an instant, in seconds.
type Offsets struct {
	DeltaT float64 `json:"delta_t"` // TT-UT1
	DUT1   float64 `json:"dut1"`    // UT1-UTC
}

// OffsetsFunc returns the offsets for an instant.
type OffsetsFunc func(time.Time) Offsets

// At calls f, treating a nil f as zero offsets.
func (f OffsetsFunc) At(t time.Time) Offsets {
	if f == nil {
		return Offsets{}
	}
	return f(t)
}

// Site is everything about an observer except the instant.
type Site struct {
	Location
	Atmosphere
	Surface
}

// NewSite returns a Site at loc with the default atmosphere and a
// horizontal surface.
func NewSite(loc Location) Site {
	return Site{
		Location:   loc,
		Atmosphere: DefaultAtmosphere(),
	}
}

// TimezoneHours returns the UTC offset of t's zone in hours.
func TimezoneHours(t time.Time) float64 {
	_, offset := t.Zone()
	return float64(offset) / 3600
}

// gregorianReform is the first instant the engine reads on the Gregorian
// calendar. time.Time is proleptic Gregorian throughout.
var gregorianReform = time.Date(1582, 10, 15, 0, 0, 0, 0, time.UTC)

// Input builds the calculation input for instant t. The calendar fields are
// taken in t's own zone and the timezone from its offset. Instants before
// the Gregorian reform are rewritten on the Julian calendar.
func (s Site) Input(t time.Time, off Offsets, req spa.Request) spa.Input {
	tz := TimezoneHours(t)
	year, month, day := t.Year(), int(t.Month()), t.Day()
	hour, minute := t.Hour(), t.Minute()
	second := float64(t.Second()) + float64(t.Nanosecond())/1e9
	if t.Before(gregorianReform) {
		year, month, day, hour, minute, second = spa.CivilTime(spa.JulianDate(t), tz)
	}

	return spa.Input{
		Year:   year,
		Month:  month,
		Day:    day,
		Hour:   hour,
		Minute: minute,
		Second: second,

		DeltaUT1: off.DUT1,
		DeltaT:   off.DeltaT,
		Timezone: tz,

		Longitude: s.Longitude,
		Latitude:  s.Latitude,
		Elevation: s.Elevation,

		Pressure:     s.Pressure,
		Temperature:  s.Temperature,
		AtmosRefract: s.Refraction,

		Slope:       s.Slope,
		AzmRotation: s.AzmRotation,

		Request: req,
	}
}
