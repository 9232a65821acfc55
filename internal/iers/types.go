package iers

import "time"

// Entry is one daily row of Earth orientation data.
type Entry struct {
	MJD       float64 // modified Julian date at 0h UTC
	UT1UTC    float64 // UT1-UTC in seconds
	Predicted bool    // true when the UT1 value is a prediction
}

// Time returns the UTC instant of the entry.
func (e Entry) Time() time.Time {
	return mjdToTime(e.MJD)
}

// DateRange represents the first and last dates covered by a table.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// mjdEpoch is MJD 0, 1858-11-17 00:00 UTC.
var mjdEpoch = time.Date(1858, 11, 17, 0, 0, 0, 0, time.UTC)

func mjdToTime(mjd float64) time.Time {
	return mjdEpoch.Add(time.Duration(mjd * float64(24*time.Hour)))
}

func timeToMJD(t time.Time) float64 {
	return float64(t.Sub(mjdEpoch)) / float64(24*time.Hour)
}
