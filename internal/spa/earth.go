package spa

import "math"

func periodicTermSum(terms []periodicTerm, jme float64) float64 {
	var sum float64
	for _, t := range terms {
		sum += t.a * math.Cos(t.b+t.c*jme)
	}
	return sum
}

// seriesValue combines the sub-series sums as a polynomial in jme and
// scales the result by 1e-8.
func seriesValue(series [][]periodicTerm, jme float64) float64 {
	var sum float64
	for i, terms := range series {
		sum += periodicTermSum(terms, jme) * math.Pow(jme, float64(i))
	}
	return sum / 1.0e8
}

// EarthHeliocentric returns the Earth heliocentric longitude L and latitude
// B in degrees and the radius vector R in AU for a Julian ephemeris
// millennium. L is normalized to [0, 360).
func EarthHeliocentric(jme float64) (l, b, r float64) {
	l = limitDegrees(rad2deg(seriesValue(lTerms, jme)))
	b = rad2deg(seriesValue(bTerms, jme))
	r = seriesValue(rTerms, jme)
	return l, b, r
}

// geocentricLongitude turns the heliocentric longitude around by 180°.
func geocentricLongitude(l float64) float64 {
	theta := l + 180.0
	if theta >= 360.0 {
		theta -= 360.0
	}
	return theta
}

func geocentricLatitude(b float64) float64 {
	return -b
}
