package spa

// Detail holds the intermediate quantities of a calculation. Angles are in
// degrees unless noted.
type Detail struct {
	JD  float64 `json:"jd"`  // Julian day
	JC  float64 `json:"jc"`  // Julian century
	JDE float64 `json:"jde"` // Julian ephemeris day
	JCE float64 `json:"jce"` // Julian ephemeris century
	JME float64 `json:"jme"` // Julian ephemeris millennium

	L float64 `json:"l"` // Earth heliocentric longitude
	B float64 `json:"b"` // Earth heliocentric latitude
	R float64 `json:"r"` // Earth radius vector, AU

	Theta float64 `json:"theta"` // geocentric longitude
	Beta  float64 `json:"beta"`  // geocentric latitude

	X [5]float64 `json:"x"` // X0..X4 mean-motion arguments

	DeltaPsi     float64 `json:"delta_psi"`     // nutation in longitude
	DeltaEpsilon float64 `json:"delta_epsilon"` // nutation in obliquity
	Epsilon0     float64 `json:"epsilon0"`      // mean obliquity, arc seconds
	Epsilon      float64 `json:"epsilon"`       // true obliquity

	DeltaTau float64 `json:"delta_tau"` // aberration correction
	Lambda   float64 `json:"lambda"`    // apparent Sun longitude
	Nu0      float64 `json:"nu0"`       // Greenwich mean sidereal time
	Nu       float64 `json:"nu"`        // Greenwich apparent sidereal time

	Alpha float64 `json:"alpha"` // geocentric right ascension
	Delta float64 `json:"delta"` // geocentric declination

	H          float64 `json:"h"`           // observer hour angle
	Xi         float64 `json:"xi"`          // equatorial horizontal parallax
	DeltaAlpha float64 `json:"delta_alpha"` // right ascension parallax
	DeltaPrime float64 `json:"delta_prime"` // topocentric declination
	AlphaPrime float64 `json:"alpha_prime"` // topocentric right ascension
	HPrime     float64 `json:"h_prime"`     // topocentric local hour angle

	E0     float64 `json:"e0"`      // elevation without refraction
	DeltaE float64 `json:"delta_e"` // refraction correction
	E      float64 `json:"e"`       // elevation with refraction
}

// Result is the output of Calculate. Incidence is set only when requested.
// EOT and the rise/transit/set fields are set only when RiseTransitSet is
// requested, and the latter hold NoEvent when the Sun does not rise or set.
type Result struct {
	Zenith       float64 `json:"zenith"`
	AzimuthAstro float64 `json:"azimuth_astro"` // westward from south
	Azimuth      float64 `json:"azimuth"`       // eastward from north
	Incidence    float64 `json:"incidence"`

	EOT float64 `json:"eot"` // minutes

	SunTransit float64 `json:"sun_transit"` // local fractional hour
	Sunrise    float64 `json:"sunrise"`     // local fractional hour
	Sunset     float64 `json:"sunset"`      // local fractional hour
	SRHA       float64 `json:"srha"`        // sunrise hour angle
	SSHA       float64 `json:"ssha"`        // sunset hour angle
	STA        float64 `json:"sta"`         // sun transit altitude

	Detail Detail `json:"detail"`
}

// Elevation returns the refraction-corrected topocentric elevation angle.
func (r Result) Elevation() float64 {
	return r.Detail.E
}

// HasRiseSet reports whether the Sun rises and sets on the requested day.
func (r Result) HasRiseSet() bool {
	return r.Sunrise != NoEvent
}

// Calculate validates in and computes the Sun's position for it. The
// returned error is an *InputError when validation fails.
func Calculate(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}

	jd := JulianDay(in.Year, in.Month, in.Day, in.Hour, in.Minute, in.Second, in.DeltaUT1, in.Timezone)
	g := geocentricAt(jd, in.DeltaT)

	d := Detail{
		JD: jd, JC: g.jc, JDE: g.jde, JCE: g.jce, JME: g.jme,
		L: g.l, B: g.b, R: g.r,
		Theta: g.theta, Beta: g.beta,
		X:        g.x,
		DeltaPsi: g.deltaPsi, DeltaEpsilon: g.deltaEpsilon,
		Epsilon0: g.epsilon0, Epsilon: g.epsilon,
		DeltaTau: g.deltaTau, Lambda: g.lambda,
		Nu0: g.nu0, Nu: g.nu,
		Alpha: g.alpha, Delta: g.delta,
	}

	d.H = observerHourAngle(g.nu, in.Longitude, g.alpha)
	d.Xi = equatorialHorizontalParallax(g.r)
	d.DeltaAlpha, d.DeltaPrime = parallax(in.Latitude, in.Elevation, d.Xi, d.H, g.delta)
	d.AlphaPrime = topocentricRightAscension(g.alpha, d.DeltaAlpha)
	d.HPrime = topocentricLocalHourAngle(d.H, d.DeltaAlpha)

	d.E0 = elevationAngle(in.Latitude, d.DeltaPrime, d.HPrime)
	d.DeltaE = refractionCorrection(in.Pressure, in.Temperature, in.AtmosRefract, d.E0)
	d.E = d.E0 + d.DeltaE

	res := Result{Detail: d}
	res.Zenith = zenithAngle(d.E)
	res.AzimuthAstro = azimuthAstro(d.HPrime, in.Latitude, d.DeltaPrime)
	res.Azimuth = azimuthNavigator(res.AzimuthAstro)

	if in.Request.Incidence {
		res.Incidence = incidenceAngle(res.Zenith, res.AzimuthAstro, in.AzmRotation, in.Slope)
	}

	if in.Request.RiseTransitSet {
		res.EOT = equationOfTime(sunMeanLongitude(g.jme), g.alpha, g.deltaPsi, g.epsilon)

		jd0 := JulianDay(in.Year, in.Month, in.Day, 0, 0, 0, 0, 0)
		rts := riseTransitSetAt(jd0, in.DeltaT, rtsSite{
			longitude:    in.Longitude,
			latitude:     in.Latitude,
			timezone:     in.Timezone,
			atmosRefract: in.AtmosRefract,
		})
		res.SRHA, res.SSHA, res.STA = rts.srha, rts.ssha, rts.sta
		res.SunTransit, res.Sunrise, res.Sunset = rts.transit, rts.sunrise, rts.sunset
	}

	return res, nil
}
