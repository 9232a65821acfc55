package spa

import "math"

// MeanMotions returns the five lunar/solar arguments in degrees for a
// Julian ephemeris century: mean elongation of the Moon from the Sun (X0),
// mean anomaly of the Sun (X1), mean anomaly of the Moon (X2), the Moon's
// argument of latitude (X3) and longitude of its ascending node (X4).
func MeanMotions(jce float64) [5]float64 {
	return [5]float64{
		thirdOrderPolynomial(1.0/189474.0, -0.0019142, 445267.11148, 297.85036, jce),
		thirdOrderPolynomial(-1.0/300000.0, -0.0001603, 35999.05034, 357.52772, jce),
		thirdOrderPolynomial(1.0/56250.0, 0.0086972, 477198.867398, 134.96298, jce),
		thirdOrderPolynomial(1.0/327270.0, -0.0036825, 483202.017538, 93.27191, jce),
		thirdOrderPolynomial(1.0/450000.0, 0.0020708, -1934.136261, 125.04452, jce),
	}
}

// Nutation returns the nutation in longitude (Δψ) and in obliquity (Δε), in
// degrees, for a Julian ephemeris century and its mean-motion arguments.
func Nutation(jce float64, x [5]float64) (deltaPsi, deltaEpsilon float64) {
	var sumPsi, sumEpsilon float64
	for _, t := range nutationTerms {
		var arg float64
		for j, v := range x {
			arg += v * t.y[j]
		}
		arg = deg2rad(arg)
		sumPsi += (t.a + jce*t.b) * math.Sin(arg)
		sumEpsilon += (t.c + jce*t.d) * math.Cos(arg)
	}
	return sumPsi / 36000000.0, sumEpsilon / 36000000.0
}

// MeanObliquity returns the mean obliquity of the ecliptic ε0 in arc seconds.
func MeanObliquity(jme float64) float64 {
	u := jme / 10.0
	return 84381.448 + u*(-4680.93+u*(-1.55+u*(1999.25+u*(-51.38+u*(-249.67+
		u*(-39.05+u*(7.12+u*(27.87+u*(5.79+u*2.45)))))))))
}

// trueObliquity returns ε in degrees from Δε (degrees) and ε0 (arc seconds).
func trueObliquity(deltaEpsilon, epsilon0 float64) float64 {
	return deltaEpsilon + epsilon0/3600.0
}
