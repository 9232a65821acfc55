package spa

import (
	"math"
	"time"
)

// j2000 is the Julian Day of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const j2000 = 2451545.0

// gregorianStart is the last Julian Day before the Gregorian reform
// (October 15, 1582) took effect.
const gregorianStart = 2299160.0

// unixEpoch is the Julian Day of 1970-01-01 00:00:00 UTC.
const unixEpoch = 2440587.5

// JulianDay converts a civil date and time at the given UTC offset (hours)
// to a Julian Day. dut1 (UT1-UTC, seconds) is folded into the seconds field.
//
// January and February count as months 13 and 14 of the previous year.
// Integer parts truncate toward zero, and the Gregorian correction is
// applied only after JD 2299160, so dates before the reform are read as
// proleptic Julian calendar dates.
func JulianDay(year, month, day, hour, minute int, second, dut1, tz float64) float64 {
	dayDecimal := float64(day) + (float64(hour)-tz+(float64(minute)+(second+dut1)/60.0)/60.0)/24.0

	y := float64(year)
	m := float64(month)
	if month < 3 {
		m += 12
		y--
	}

	jd := math.Trunc(365.25*(y+4716.0)) + math.Trunc(30.6001*(m+1)) + dayDecimal - 1524.5

	if jd > gregorianStart {
		a := math.Trunc(y / 100)
		jd += 2 - a + math.Trunc(a/4)
	}

	return jd
}

// JulianDate converts a time.Time to a Julian Day on the UTC time scale.
// The day count comes from the absolute instant, so it does not depend on
// the calendar a date is written in. Sub-second precision is kept.
func JulianDate(t time.Time) float64 {
	return unixEpoch + (float64(t.Unix())+float64(t.Nanosecond())/1e9)/86400.0
}

// TimeOfJulianDate is the inverse of JulianDate, rounded to the
// microsecond and returned in UTC.
func TimeOfJulianDate(jd float64) time.Time {
	whole, frac := math.Modf((jd - unixEpoch) * 86400.0)
	return time.Unix(int64(whole), int64(math.Round(frac*1e6))*1000).UTC()
}

// CivilTime returns the calendar fields of the UT Julian Day jd at the
// UTC offset tz (hours), written on the calendar JulianDay reads them
// with: Julian through JD 2299160 and Gregorian after it. JulianDay of
// the returned fields and tz gives back jd.
func CivilTime(jd, tz float64) (year, month, day, hour, minute int, second float64) {
	local := jd + tz/24.0 + 0.5
	z := math.Floor(local)

	a := z
	if jd > gregorianStart {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	day = int(b - d - math.Floor(30.6001*e))
	if e < 14 {
		month = int(e - 1)
	} else {
		month = int(e - 13)
	}
	if month > 2 {
		year = int(c - 4716)
	} else {
		year = int(c - 4715)
	}

	us := int64(math.Round((local - z) * 86400e6))
	if us >= 86400e6 {
		us = 86400e6 - 1
	}
	hour = int(us / 3600e6)
	minute = int(us % 3600e6 / 60e6)
	second = float64(us%60e6) / 1e6
	return year, month, day, hour, minute, second
}

// JulianCentury returns Julian centuries since J2000.0 for a Julian Day.
func JulianCentury(jd float64) float64 {
	return (jd - j2000) / 36525.0
}

// JulianEphemerisDay adds the TT-UT offset deltaT (seconds) to a Julian Day.
func JulianEphemerisDay(jd, deltaT float64) float64 {
	return jd + deltaT/86400.0
}

// JulianEphemerisCentury returns ephemeris centuries since J2000.0.
func JulianEphemerisCentury(jde float64) float64 {
	return (jde - j2000) / 36525.0
}

// JulianEphemerisMillennium returns ephemeris millennia since J2000.0.
func JulianEphemerisMillennium(jce float64) float64 {
	return jce / 10.0
}
