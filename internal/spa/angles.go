package spa

import "math"

// sunRadius is the apparent solar semi-diameter in degrees.
const sunRadius = 0.26667

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

// limitDegrees folds an angle into [0, 360).
func limitDegrees(degrees float64) float64 {
	degrees /= 360.0
	limited := 360.0 * (degrees - math.Floor(degrees))
	if limited < 0 {
		limited += 360.0
	}
	return limited
}

// limitDegrees180pm folds an angle into [-180, 180].
func limitDegrees180pm(degrees float64) float64 {
	degrees /= 360.0
	limited := 360.0 * (degrees - math.Floor(degrees))
	if limited < -180.0 {
		limited += 360.0
	} else if limited > 180.0 {
		limited -= 360.0
	}
	return limited
}

// limitDegrees180 folds an angle into [0, 180).
func limitDegrees180(degrees float64) float64 {
	degrees /= 180.0
	limited := 180.0 * (degrees - math.Floor(degrees))
	if limited < 0 {
		limited += 180.0
	}
	return limited
}

// limitZeroToOne keeps the fractional part of value in [0, 1).
func limitZeroToOne(value float64) float64 {
	limited := value - math.Floor(value)
	if limited < 0 {
		limited += 1.0
	}
	return limited
}

// limitMinutes unwraps a day boundary so the result lies near [-20, 20].
func limitMinutes(minutes float64) float64 {
	limited := minutes
	if limited < -20.0 {
		limited += 1440.0
	} else if limited > 20.0 {
		limited -= 1440.0
	}
	return limited
}

// dayFracToLocalHour converts a UT day fraction to a local fractional hour.
func dayFracToLocalHour(dayfrac, timezone float64) float64 {
	return 24.0 * limitZeroToOne(dayfrac+timezone/24.0)
}

func thirdOrderPolynomial(a, b, c, d, x float64) float64 {
	return ((a*x+b)*x+c)*x + d
}
