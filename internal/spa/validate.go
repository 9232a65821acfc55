package spa

import (
	"errors"
	"fmt"
	"math"
)

// Code identifies the first input field that failed validation. The values
// match the published SPA error numbering; zero means valid.
type Code int

const (
	CodeOK Code = iota
	CodeYear
	CodeMonth
	CodeDay
	CodeHour
	CodeMinute
	CodeSecond
	CodeDeltaT
	CodeTimezone
	CodeLongitude
	CodeLatitude
	CodeElevation
	CodePressure
	CodeTemperature
	CodeSlope
	CodeAzmRotation
	CodeAtmosRefract
	CodeDeltaUT1
)

var codeFields = [...]string{
	CodeOK:           "ok",
	CodeYear:         "year",
	CodeMonth:        "month",
	CodeDay:          "day",
	CodeHour:         "hour",
	CodeMinute:       "minute",
	CodeSecond:       "second",
	CodeDeltaT:       "delta_t",
	CodeTimezone:     "timezone",
	CodeLongitude:    "longitude",
	CodeLatitude:     "latitude",
	CodeElevation:    "elevation",
	CodePressure:     "pressure",
	CodeTemperature:  "temperature",
	CodeSlope:        "slope",
	CodeAzmRotation:  "azm_rotation",
	CodeAtmosRefract: "atmos_refract",
	CodeDeltaUT1:     "delta_ut1",
}

// String returns the input field name the code refers to.
func (c Code) String() string {
	if c < 0 || int(c) >= len(codeFields) {
		return fmt.Sprintf("code(%d)", int(c))
	}
	return codeFields[c]
}

// InputError reports an input value outside its legal range.
type InputError struct {
	Code  Code
	Value float64
	Rule  string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s (code %d)", e.Code, e.Value, e.Rule, int(e.Code))
}

// CodeOf maps an error returned by Calculate or Validate to its numeric
// code: 0 for nil, the field code for an *InputError anywhere in the chain,
// and -1 for anything else.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return -1
}

func invalid(code Code, value float64, rule string) error {
	return &InputError{Code: code, Value: value, Rule: rule}
}

// Validate checks every input against its range and returns an
// *InputError for the first violation. Slope and azimuth rotation are only
// checked when the incidence angle is requested.
func Validate(in Input) error {
	switch {
	case in.Year < -2000 || in.Year > 6000:
		return invalid(CodeYear, float64(in.Year), "must be in [-2000, 6000]")
	case in.Month < 1 || in.Month > 12:
		return invalid(CodeMonth, float64(in.Month), "must be in [1, 12]")
	case in.Day < 1 || in.Day > 31:
		return invalid(CodeDay, float64(in.Day), "must be in [1, 31]")
	case in.Hour < 0 || in.Hour > 24:
		return invalid(CodeHour, float64(in.Hour), "must be in [0, 24]")
	case in.Minute < 0 || in.Minute > 59:
		return invalid(CodeMinute, float64(in.Minute), "must be in [0, 59]")
	case in.Second < 0 || in.Second >= 60:
		return invalid(CodeSecond, in.Second, "must be in [0, 60)")
	case in.Pressure < 0 || in.Pressure > 5000:
		return invalid(CodePressure, in.Pressure, "must be in [0, 5000] millibars")
	case in.Temperature <= -273 || in.Temperature > 6000:
		return invalid(CodeTemperature, in.Temperature, "must be in (-273, 6000] degrees Celsius")
	case in.DeltaUT1 <= -1 || in.DeltaUT1 >= 1:
		return invalid(CodeDeltaUT1, in.DeltaUT1, "must be in (-1, 1) seconds")
	case in.Hour == 24 && in.Minute > 0:
		return invalid(CodeMinute, float64(in.Minute), "must be 0 when hour is 24")
	case in.Hour == 24 && in.Second > 0:
		return invalid(CodeSecond, in.Second, "must be 0 when hour is 24")
	case math.Abs(in.DeltaT) > 8000:
		return invalid(CodeDeltaT, in.DeltaT, "must be in [-8000, 8000] seconds")
	case math.Abs(in.Timezone) > 18:
		return invalid(CodeTimezone, in.Timezone, "must be in [-18, 18] hours")
	case math.Abs(in.Longitude) > 180:
		return invalid(CodeLongitude, in.Longitude, "must be in [-180, 180] degrees")
	case math.Abs(in.Latitude) > 90:
		return invalid(CodeLatitude, in.Latitude, "must be in [-90, 90] degrees")
	case math.Abs(in.AtmosRefract) > 6:
		return invalid(CodeAtmosRefract, in.AtmosRefract, "must be in [-6, 6] degrees")
	case in.Elevation < -6500000:
		return invalid(CodeElevation, in.Elevation, "must be at least -6500000 meters")
	}

	if in.Request.Incidence {
		if math.Abs(in.Slope) > 360 {
			return invalid(CodeSlope, in.Slope, "must be in [-360, 360] degrees")
		}
		if math.Abs(in.AzmRotation) > 360 {
			return invalid(CodeAzmRotation, in.AzmRotation, "must be in [-360, 360] degrees")
		}
	}

	return nil
}
