package spa

// Request selects the optional outputs of a calculation. Zenith and
// azimuth are always computed.
type Request struct {
	Incidence      bool `json:"incidence"`
	RiseTransitSet bool `json:"rise_transit_set"`
}

// Function is the four-way output selector of the reference algorithm.
type Function int

const (
	// ZA computes zenith and azimuth only.
	ZA Function = iota
	// ZAInc adds the surface incidence angle.
	ZAInc
	// ZARTS adds the equation of time and sunrise/transit/sunset.
	ZARTS
	// All computes every output.
	All
)

// Request returns the capability set the selector stands for.
func (f Function) Request() Request {
	switch f {
	case ZAInc:
		return Request{Incidence: true}
	case ZARTS:
		return Request{RiseTransitSet: true}
	case All:
		return Request{Incidence: true, RiseTransitSet: true}
	default:
		return Request{}
	}
}

func (f Function) String() string {
	switch f {
	case ZA:
		return "za"
	case ZAInc:
		return "za_inc"
	case ZARTS:
		return "za_rts"
	case All:
		return "all"
	default:
		return "unknown"
	}
}

// Input is the full set of calculation inputs. Calendar fields are plain
// numbers because their legal ranges differ from time.Time: Hour may be 24
// (with zero Minute and Second) for midnight at the end of Day, and years
// run from -2000 to 6000 on the proleptic calendars.
type Input struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Second float64 `json:"second"`

	DeltaUT1 float64 `json:"delta_ut1"` // UT1-UTC in seconds, (-1, 1)
	DeltaT   float64 `json:"delta_t"`   // TT-UT in seconds
	Timezone float64 `json:"timezone"`  // hours east of UTC

	Longitude float64 `json:"longitude"` // degrees, east positive
	Latitude  float64 `json:"latitude"`  // degrees, north positive
	Elevation float64 `json:"elevation"` // meters

	Pressure     float64 `json:"pressure"`      // millibars
	Temperature  float64 `json:"temperature"`   // degrees Celsius
	AtmosRefract float64 `json:"atmos_refract"` // refraction at sunrise/sunset, degrees

	Slope       float64 `json:"slope"`        // surface tilt from horizontal, degrees
	AzmRotation float64 `json:"azm_rotation"` // surface azimuth from south, negative east, degrees

	Request Request `json:"request"`
}
