package spa

import "math"

// aberrationCorrection returns Δτ in degrees for a radius vector in AU.
func aberrationCorrection(r float64) float64 {
	return -20.4898 / (3600.0 * r)
}

func apparentSunLongitude(theta, deltaPsi, deltaTau float64) float64 {
	return theta + deltaPsi + deltaTau
}

// GreenwichMeanSiderealTime returns ν0 in degrees, normalized to [0, 360).
func GreenwichMeanSiderealTime(jd, jc float64) float64 {
	return limitDegrees(280.46061837 + 360.98564736629*(jd-j2000) +
		jc*jc*(0.000387933-jc/38710000.0))
}

// greenwichSiderealTime applies the equation of the equinoxes to ν0.
func greenwichSiderealTime(nu0, deltaPsi, epsilon float64) float64 {
	return nu0 + deltaPsi*math.Cos(deg2rad(epsilon))
}

func geocentricRightAscension(lambda, epsilon, beta float64) float64 {
	lambdaRad := deg2rad(lambda)
	epsilonRad := deg2rad(epsilon)

	return limitDegrees(rad2deg(math.Atan2(
		math.Sin(lambdaRad)*math.Cos(epsilonRad)-math.Tan(deg2rad(beta))*math.Sin(epsilonRad),
		math.Cos(lambdaRad))))
}

func geocentricDeclination(beta, epsilon, lambda float64) float64 {
	betaRad := deg2rad(beta)
	epsilonRad := deg2rad(epsilon)

	return rad2deg(math.Asin(math.Sin(betaRad)*math.Cos(epsilonRad) +
		math.Cos(betaRad)*math.Sin(epsilonRad)*math.Sin(deg2rad(lambda))))
}

// geocentricSun carries every quantity derived from a Julian Day and ΔT up
// to the geocentric right ascension and declination.
type geocentricSun struct {
	jc, jde, jce, jme float64

	l, b, r     float64
	theta, beta float64

	x                      [5]float64
	deltaPsi, deltaEpsilon float64
	epsilon0, epsilon      float64

	deltaTau, lambda float64
	nu0, nu          float64
	alpha, delta     float64
}

// geocentricAt evaluates the Sun's apparent geocentric position at jd with
// the TT-UT offset deltaT in seconds.
func geocentricAt(jd, deltaT float64) geocentricSun {
	var g geocentricSun

	g.jc = JulianCentury(jd)
	g.jde = JulianEphemerisDay(jd, deltaT)
	g.jce = JulianEphemerisCentury(g.jde)
	g.jme = JulianEphemerisMillennium(g.jce)

	g.l, g.b, g.r = EarthHeliocentric(g.jme)
	g.theta = geocentricLongitude(g.l)
	g.beta = geocentricLatitude(g.b)

	g.x = MeanMotions(g.jce)
	g.deltaPsi, g.deltaEpsilon = Nutation(g.jce, g.x)

	g.epsilon0 = MeanObliquity(g.jme)
	g.epsilon = trueObliquity(g.deltaEpsilon, g.epsilon0)

	g.deltaTau = aberrationCorrection(g.r)
	g.lambda = apparentSunLongitude(g.theta, g.deltaPsi, g.deltaTau)
	g.nu0 = GreenwichMeanSiderealTime(jd, g.jc)
	g.nu = greenwichSiderealTime(g.nu0, g.deltaPsi, g.epsilon)

	g.alpha = geocentricRightAscension(g.lambda, g.epsilon, g.beta)
	g.delta = geocentricDeclination(g.beta, g.epsilon, g.lambda)

	return g
}
