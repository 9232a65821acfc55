package api

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/star/sunpos/internal/iers"
	"github.com/star/sunpos/internal/observer"
	"github.com/star/sunpos/internal/spa"
)

// errIERSUnavailable is returned when dut1=auto is requested before any
// IERS table has been loaded.
var errIERSUnavailable = errors.New("IERS data not loaded; pass an explicit dut1")

// paramError reports a malformed or out-of-range query parameter.
type paramError struct {
	name string
	msg  string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.name, e.msg)
}

func badParam(name, format string, args ...any) error {
	return &paramError{name: name, msg: fmt.Sprintf(format, args...)}
}

// floatParam parses a finite float, returning def when the parameter is absent.
func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, badParam(name, "%q is not a finite number", v)
	}
	return f, nil
}

func intParam(q url.Values, name string, def, min, max int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badParam(name, "%q is not an integer", v)
	}
	if n < min || n > max {
		return 0, badParam(name, "must be in [%d, %d]", min, max)
	}
	return n, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badParam(name, "%q is not a boolean", v)
	}
	return b, nil
}

// durationParam accepts a Go duration ("90s", "5m") or a bare number of seconds.
func durationParam(q url.Values, name string, def time.Duration) (time.Duration, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(secs) && !math.IsInf(secs, 0) {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, badParam(name, "%q is not a duration", v)
	}
	return d, nil
}

// zoneParam parses "tz" as UTC, a ±HH:MM offset or an IANA zone name.
// It returns nil when absent.
func zoneParam(q url.Values) (*time.Location, error) {
	v := q.Get("tz")
	switch {
	case v == "":
		return nil, nil
	case v == "UTC" || v == "Z":
		return time.UTC, nil
	case v[0] == '+' || v[0] == '-':
		hh, mm, ok := strings.Cut(v[1:], ":")
		h, errH := strconv.Atoi(hh)
		m, errM := 0, error(nil)
		if ok {
			m, errM = strconv.Atoi(mm)
		}
		if errH != nil || errM != nil || h < 0 || h > 18 || m < 0 || m > 59 {
			return nil, badParam("tz", "%q is not a ±HH:MM offset", v)
		}
		secs := h*3600 + m*60
		if v[0] == '-' {
			secs = -secs
		}
		return time.FixedZone(v, secs), nil
	default:
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, badParam("tz", "unknown zone %q", v)
		}
		return loc, nil
	}
}

// timeParam parses an RFC 3339 instant. When tz is given the instant is
// moved into that zone, which sets the local calendar and offset used by
// the calculation.
func timeParam(q url.Values, name string, def time.Time) (time.Time, error) {
	loc, err := zoneParam(q)
	if err != nil {
		return time.Time{}, err
	}
	t := def
	if v := q.Get(name); v != "" {
		t, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, badParam(name, "%q is not an RFC 3339 time", v)
		}
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t, nil
}

// siteParam builds the observer site from lat, lon, elev, pressure, temp,
// refraction, slope and azm. Location fields fall back to def when it is
// non-nil and are required otherwise.
func siteParam(q url.Values, def *observer.Location) (observer.Site, error) {
	var loc observer.Location
	if def != nil {
		loc = *def
	} else {
		for _, name := range []string{"lat", "lon"} {
			if q.Get(name) == "" {
				return observer.Site{}, badParam(name, "required")
			}
		}
	}

	site := observer.NewSite(loc)
	fields := []struct {
		name string
		dst  *float64
	}{
		{"lat", &site.Latitude},
		{"lon", &site.Longitude},
		{"elev", &site.Elevation},
		{"pressure", &site.Pressure},
		{"temp", &site.Temperature},
		{"refraction", &site.Refraction},
		{"slope", &site.Slope},
		{"azm", &site.AzmRotation},
	}
	for _, f := range fields {
		v, err := floatParam(q, f.name, *f.dst)
		if err != nil {
			return observer.Site{}, err
		}
		*f.dst = v
	}
	return site, nil
}

// requestParam selects the optional outputs. "function" (za, za_inc,
// za_rts, all) overrides the "incidence" and "rts" flags.
func requestParam(q url.Values) (spa.Request, error) {
	if v := q.Get("function"); v != "" {
		for _, f := range []spa.Function{spa.ZA, spa.ZAInc, spa.ZARTS, spa.All} {
			if f.String() == v {
				return f.Request(), nil
			}
		}
		return spa.Request{}, badParam("function", "%q is not one of za, za_inc, za_rts, all", v)
	}
	incidence, err := boolParam(q, "incidence", false)
	if err != nil {
		return spa.Request{}, err
	}
	rts, err := boolParam(q, "rts", true)
	if err != nil {
		return spa.Request{}, err
	}
	return spa.Request{Incidence: incidence, RiseTransitSet: rts}, nil
}

// offsetSpec holds the delta_t and dut1 parameters, each either a number
// or "auto".
type offsetSpec struct {
	deltaT     float64
	deltaTAuto bool
	dut1       float64
	dut1Auto   bool
}

func offsetParam(q url.Values) (offsetSpec, error) {
	var spec offsetSpec
	var err error

	if v := q.Get("delta_t"); v == "" || v == "auto" {
		spec.deltaTAuto = true
	} else if spec.deltaT, err = floatParam(q, "delta_t", 0); err != nil {
		return offsetSpec{}, err
	}

	if q.Get("dut1") == "auto" {
		spec.dut1Auto = true
	} else if spec.dut1, err = floatParam(q, "dut1", 0); err != nil {
		return offsetSpec{}, err
	}
	return spec, nil
}

// resolve returns the offsets function for instants in [from, to]. With
// dut1=auto the loaded table must cover both ends.
func (o offsetSpec) resolve(store *iers.Store, from, to time.Time) (observer.OffsetsFunc, error) {
	if o.dut1Auto {
		tbl := store.Get()
		if tbl == nil {
			return nil, errIERSUnavailable
		}
		for _, t := range []time.Time{from, to} {
			if _, err := tbl.DUT1(t); err != nil {
				return nil, badParam("dut1", "auto: %s is outside the IERS table (%s to %s)",
					t.UTC().Format(time.DateOnly),
					tbl.Range.Min.Format(time.DateOnly),
					tbl.Range.Max.Format(time.DateOnly))
			}
		}
	}

	return func(t time.Time) observer.Offsets {
		off := observer.Offsets{DeltaT: o.deltaT, DUT1: o.dut1}
		if o.deltaTAuto {
			off.DeltaT = store.DeltaT(t)
		}
		if o.dut1Auto {
			off.DUT1, _ = store.DUT1(t)
		}
		return off
	}, nil
}
