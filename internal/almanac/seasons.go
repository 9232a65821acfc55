package almanac

import (
	"time"

	"github.com/mooncaker816/learnmeeus/v3/solstice"

	"github.com/star/sunpos/internal/iers"
	"github.com/star/sunpos/internal/spa"
)

// Season is an equinox or solstice instant.
type Season struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"` // UTC
	JDE  float64   `json:"jde"`  // Julian ephemeris day
}

// DeltaTFunc returns TT-UT1 in seconds for an instant.
type DeltaTFunc func(time.Time) float64

// Seasons returns the March equinox, June solstice, September equinox and
// December solstice of year, in that order. deltaT converts the dynamical
// instants to UTC; nil uses the long-term polynomial.
func Seasons(year int, deltaT DeltaTFunc) []Season {
	if deltaT == nil {
		deltaT = func(t time.Time) float64 {
			return iers.PolynomialDeltaT(iers.DecimalYear(t))
		}
	}

	events := []struct {
		name string
		jde  float64
	}{
		{"march_equinox", solstice.March(year)},
		{"june_solstice", solstice.June(year)},
		{"september_equinox", solstice.September(year)},
		{"december_solstice", solstice.December(year)},
	}

	seasons := make([]Season, 0, len(events))
	for _, e := range events {
		tt := spa.TimeOfJulianDate(e.jde)
		utc := tt.Add(-secondsToDuration(deltaT(tt)))
		seasons = append(seasons, Season{
			Name: e.name,
			Time: utc.Round(time.Second),
			JDE:  e.jde,
		})
	}
	return seasons
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
