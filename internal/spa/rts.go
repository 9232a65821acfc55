package spa

import "math"

// NoEvent marks a rise, transit or set that does not happen on the
// requested day (polar day or polar night).
const NoEvent = -99999.0

// Sample days around the requested date.
const (
	dayMinus = iota
	dayZero
	dayPlus
)

// Phases solved for on the requested date.
const (
	phaseTransit = iota
	phaseRise
	phaseSet
)

// sunMeanLongitude returns the Sun's mean longitude M in degrees.
func sunMeanLongitude(jme float64) float64 {
	return limitDegrees(280.4664567 + jme*(360007.6982779+jme*(0.03032028+
		jme*(1/49931.0+jme*(-1/15300.0+jme*(-1/2000000.0))))))
}

// equationOfTime returns apparent minus mean solar time in minutes.
func equationOfTime(m, alpha, deltaPsi, epsilon float64) float64 {
	return limitMinutes(4.0 * (m - 0.0057183 - alpha + deltaPsi*math.Cos(deg2rad(epsilon))))
}

func approxSunTransitTime(alphaZero, longitude, nu float64) float64 {
	return (alphaZero - longitude - nu) / 360.0
}

// sunHourAngleAtRiseSet returns the local hour angle H0 of sunrise/sunset in
// [0, 180). ok is false when the Sun never crosses h0Prime on the day.
func sunHourAngleAtRiseSet(latitude, deltaZero, h0Prime float64) (h0 float64, ok bool) {
	latRad := deg2rad(latitude)
	deltaRad := deg2rad(deltaZero)
	arg := (math.Sin(deg2rad(h0Prime)) - math.Sin(latRad)*math.Sin(deltaRad)) /
		(math.Cos(latRad) * math.Cos(deltaRad))

	if math.Abs(arg) > 1 {
		return NoEvent, false
	}
	return limitDegrees180(rad2deg(math.Acos(arg))), true
}

// interpolateDay evaluates the three daily samples v at day fraction n.
// Differences of 2 or more are folded back to [0, 1) to bridge the 0/360
// wrap of right ascension.
func interpolateDay(v [3]float64, n float64) float64 {
	a := v[dayZero] - v[dayMinus]
	b := v[dayPlus] - v[dayZero]

	if math.Abs(a) >= 2.0 {
		a = limitZeroToOne(a)
	}
	if math.Abs(b) >= 2.0 {
		b = limitZeroToOne(b)
	}

	return v[dayZero] + n*(a+b+(b-a)*n)/2.0
}

// riseSetCorrection refines an approximate rise or set day fraction m using
// the altitude error at that instant.
func riseSetCorrection(m, h, deltaPrime, latitude, hPrime, h0Prime float64) float64 {
	return m + (h-h0Prime)/
		(360.0*math.Cos(deg2rad(deltaPrime))*math.Cos(deg2rad(latitude))*math.Sin(deg2rad(hPrime)))
}

// rtsSite is the part of an observer the rise/transit/set solver reads.
type rtsSite struct {
	longitude, latitude float64
	timezone            float64
	atmosRefract        float64
}

// riseTransitSet holds the solver outputs. Times are local fractional hours.
type riseTransitSet struct {
	srha, ssha, sta          float64
	transit, sunrise, sunset float64
}

func noRiseTransitSet() riseTransitSet {
	return riseTransitSet{
		srha: NoEvent, ssha: NoEvent, sta: NoEvent,
		transit: NoEvent, sunrise: NoEvent, sunset: NoEvent,
	}
}

// riseTransitSetAt solves sunrise, transit and sunset for the UT day that
// starts at jd0. Apparent sidereal time at jd0 uses deltaT. The three
// sample days are evaluated on the UT scale and deltaT enters again only
// through the interpolation factor.
func riseTransitSetAt(jd0, deltaT float64, site rtsSite) riseTransitSet {
	h0Prime := -(sunRadius + site.atmosRefract)
	nu := geocentricAt(jd0, deltaT).nu

	var alpha, delta [3]float64
	for i := range alpha {
		g := geocentricAt(jd0+float64(i-dayZero), 0)
		alpha[i], delta[i] = g.alpha, g.delta
	}

	mTransit := approxSunTransitTime(alpha[dayZero], site.longitude, nu)
	h0, ok := sunHourAngleAtRiseSet(site.latitude, delta[dayZero], h0Prime)
	if !ok {
		return noRiseTransitSet()
	}

	var m [3]float64
	m[phaseRise] = limitZeroToOne(mTransit - h0/360.0)
	m[phaseSet] = limitZeroToOne(mTransit + h0/360.0)
	m[phaseTransit] = limitZeroToOne(mTransit)

	var deltaPrime, hPrime, hRTS [3]float64
	for i := range m {
		nuI := nu + 360.985647*m[i]
		n := m[i] + deltaT/86400.0

		alphaPrime := interpolateDay(alpha, n)
		deltaPrime[i] = interpolateDay(delta, n)

		hPrime[i] = limitDegrees180pm(nuI + site.longitude - alphaPrime)
		hRTS[i] = elevationAngle(site.latitude, deltaPrime[i], hPrime[i])
	}

	return riseTransitSet{
		srha: hPrime[phaseRise],
		ssha: hPrime[phaseSet],
		sta:  hRTS[phaseTransit],

		transit: dayFracToLocalHour(m[phaseTransit]-hPrime[phaseTransit]/360.0, site.timezone),
		sunrise: dayFracToLocalHour(riseSetCorrection(m[phaseRise], hRTS[phaseRise],
			deltaPrime[phaseRise], site.latitude, hPrime[phaseRise], h0Prime), site.timezone),
		sunset: dayFracToLocalHour(riseSetCorrection(m[phaseSet], hRTS[phaseSet],
			deltaPrime[phaseSet], site.latitude, hPrime[phaseSet], h0Prime), site.timezone),
	}
}
