package spa

import "math"

// earthRadiusM is the equatorial radius used by the parallax correction.
const earthRadiusM = 6378140.0

// flatteningRatio is b/a for the Earth ellipsoid.
const flatteningRatio = 0.99664719

func observerHourAngle(nu, longitude, alpha float64) float64 {
	return limitDegrees(nu + longitude - alpha)
}

// equatorialHorizontalParallax returns ξ in degrees.
func equatorialHorizontalParallax(r float64) float64 {
	return 8.794 / (3600.0 * r)
}

// parallax returns the right ascension parallax Δα and the topocentric
// declination δ′ in degrees. Both share the observer terms x and y.
func parallax(latitude, elevation, xi, h, delta float64) (deltaAlpha, deltaPrime float64) {
	latRad := deg2rad(latitude)
	xiRad := deg2rad(xi)
	hRad := deg2rad(h)
	deltaRad := deg2rad(delta)

	u := math.Atan(flatteningRatio * math.Tan(latRad))
	y := flatteningRatio*math.Sin(u) + elevation*math.Sin(latRad)/earthRadiusM
	x := math.Cos(u) + elevation*math.Cos(latRad)/earthRadiusM

	denom := math.Cos(deltaRad) - x*math.Sin(xiRad)*math.Cos(hRad)
	deltaAlphaRad := math.Atan2(-x*math.Sin(xiRad)*math.Sin(hRad), denom)
	deltaPrimeRad := math.Atan2((math.Sin(deltaRad)-y*math.Sin(xiRad))*math.Cos(deltaAlphaRad), denom)

	return rad2deg(deltaAlphaRad), rad2deg(deltaPrimeRad)
}

func topocentricRightAscension(alpha, deltaAlpha float64) float64 {
	return alpha + deltaAlpha
}

func topocentricLocalHourAngle(h, deltaAlpha float64) float64 {
	return h - deltaAlpha
}
