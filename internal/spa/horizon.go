package spa

import "math"

// elevationAngle returns the altitude in degrees of a body at declination
// delta and local hour angle h, seen from latitude.
func elevationAngle(latitude, delta, h float64) float64 {
	latRad := deg2rad(latitude)
	deltaRad := deg2rad(delta)

	return rad2deg(math.Asin(math.Sin(latRad)*math.Sin(deltaRad) +
		math.Cos(latRad)*math.Cos(deltaRad)*math.Cos(deg2rad(h))))
}

// refractionCorrection returns Δe in degrees. It is zero once the
// uncorrected elevation e0 is below the refracted lower limb. The formula
// is evaluated once at e0, not iterated.
func refractionCorrection(pressure, temperature, atmosRefract, e0 float64) float64 {
	if e0 < -(sunRadius + atmosRefract) {
		return 0
	}
	return (pressure / 1010.0) * (283.0 / (273.0 + temperature)) *
		1.02 / (60.0 * math.Tan(deg2rad(e0+10.3/(e0+5.11))))
}

func zenithAngle(e float64) float64 {
	return 90.0 - e
}

// azimuthAstro returns the azimuth measured westward from south.
func azimuthAstro(hPrime, latitude, deltaPrime float64) float64 {
	hRad := deg2rad(hPrime)
	latRad := deg2rad(latitude)

	return limitDegrees(rad2deg(math.Atan2(math.Sin(hRad),
		math.Cos(hRad)*math.Sin(latRad)-math.Tan(deg2rad(deltaPrime))*math.Cos(latRad))))
}

// azimuthNavigator returns the azimuth measured eastward from north.
func azimuthNavigator(astro float64) float64 {
	return limitDegrees(astro + 180.0)
}

// incidenceAngle returns the angle between the Sun direction and the normal
// of a surface tilted by slope and rotated by azmRotation from south.
func incidenceAngle(zenith, astro, azmRotation, slope float64) float64 {
	zenithRad := deg2rad(zenith)
	slopeRad := deg2rad(slope)

	return rad2deg(math.Acos(math.Cos(zenithRad)*math.Cos(slopeRad) +
		math.Sin(slopeRad)*math.Sin(zenithRad)*math.Cos(deg2rad(astro-azmRotation))))
}
