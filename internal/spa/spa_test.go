package spa

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// referenceInput is the published NREL validation case (Golden, Colorado).
func referenceInput() Input {
	return Input{
		Year:         2003,
		Month:        10,
		Day:          17,
		Hour:         12,
		Minute:       30,
		Second:       30,
		Timezone:     -7.0,
		DeltaUT1:     0,
		DeltaT:       67,
		Longitude:    -105.1786,
		Latitude:     39.742476,
		Elevation:    1830.14,
		Pressure:     820,
		Temperature:  11,
		Slope:        30,
		AzmRotation:  -10,
		AtmosRefract: 0.5667,
		Request:      All.Request(),
	}
}

func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if diff := math.Abs(got - want); diff > tol || math.IsNaN(got) {
		t.Errorf("%s = %.10f, want %.10f (diff=%.2e, tol=%.0e)", name, got, want, diff, tol)
	}
}

func TestCalculateReferenceScenario(t *testing.T) {
	res, err := Calculate(referenceInput())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// Published outputs.
	assertClose(t, "JD", res.Detail.JD, 2452930.312847, 1e-6)
	assertClose(t, "L", res.Detail.L, 24.0182616917, 1e-6)
	assertClose(t, "B", res.Detail.B, -0.0001011219, 1e-9)
	assertClose(t, "R", res.Detail.R, 0.9965422974, 1e-9)
	assertClose(t, "H", res.Detail.H, 11.105902, 1e-6)
	assertClose(t, "DeltaPsi", res.Detail.DeltaPsi, -0.003998404, 1e-9)
	assertClose(t, "DeltaEpsilon", res.Detail.DeltaEpsilon, 0.001666568, 1e-9)
	assertClose(t, "Epsilon", res.Detail.Epsilon, 23.440465, 1e-6)
	assertClose(t, "Zenith", res.Zenith, 50.111622, 1e-4)
	assertClose(t, "Azimuth", res.Azimuth, 194.340241, 1e-4)
	assertClose(t, "Incidence", res.Incidence, 25.187000, 1e-4)

	if got := FormatHour(res.Sunrise); got != "06:12:43" {
		t.Errorf("sunrise = %s, want 06:12:43", got)
	}
	if got := FormatHour(res.Sunset); got != "17:20:19" {
		t.Errorf("sunset = %s, want 17:20:19", got)
	}
	assertClose(t, "Sunrise", res.Sunrise, 6.212067, 1.0/3600)
	assertClose(t, "Sunset", res.Sunset, 17.338667, 1.0/3600)
}

func TestCalculateReferenceIntermediates(t *testing.T) {
	res, err := Calculate(referenceInput())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	d := res.Detail

	tests := []struct {
		name      string
		got, want float64
	}{
		{"JC", d.JC, 0.03792779869191517},
		{"JDE", d.JDE, 2452930.313622685},
		{"JCE", d.JCE, 0.037927819922933585},
		{"JME", d.JME, 0.0037927819922933584},
		{"Theta", d.Theta, 204.0182616916794},
		{"Beta", d.Beta, 0.00010112192480034237},
		{"X0", d.X[0], 17185.86117906491},
		{"X1", d.X[1], 1722.8932184613648},
		{"X2", d.X[2], 18234.075702611266},
		{"X3", d.X[3], 18420.07101228228},
		{"X4", d.X[4], 51.686951165383405},
		{"Epsilon0", d.Epsilon0, 84379.67262518499},
		{"DeltaTau", d.DeltaTau, -0.005711359293251811},
		{"Lambda", d.Lambda, 204.00855192808282},
		{"Nu0", d.Nu0, 318.5155782727725},
		{"Nu", d.Nu, 318.5119098411207},
		{"Alpha", d.Alpha, 202.22740782720726},
		{"Delta", d.Delta, -9.314340090849106},
		{"Xi", d.Xi, 0.0024512534834335345},
		{"DeltaAlpha", d.DeltaAlpha, -0.00036853498416782363},
		{"DeltaPrime", d.DeltaPrime, -9.316178699714907},
		{"AlphaPrime", d.AlphaPrime, 202.22703929222308},
		{"HPrime", d.HPrime, 11.106270548897603},
		{"E0", d.E0, 39.87204590384718},
		{"DeltaE", d.DeltaE, 0.01633207212309944},
		{"E", d.E, 39.88837797597028},
		{"AzimuthAstro", res.AzimuthAstro, 14.340240510191624},
		{"EOT", res.EOT, 14.641510770819213},
		{"SRHA", res.SRHA, -83.49633824244398},
		{"SSHA", res.SSHA, 83.52427410847486},
		{"STA", res.STA, 40.954406824491464},
		{"SunTransit", res.SunTransit, 11.76804502943294},
		{"Sunrise", res.Sunrise, 6.212066609284621},
		{"Sunset", res.Sunset, 17.338666514441748},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tol := 1e-7 * math.Max(1, math.Abs(tt.want))
			assertClose(t, tt.name, tt.got, tt.want, tol)
		})
	}
}

func TestCalculateSouthernHemisphere(t *testing.T) {
	in := Input{
		Year: 2021, Month: 1, Day: 15, Hour: 9,
		Timezone:     10,
		DeltaUT1:     -0.17,
		DeltaT:       69.2,
		Longitude:    151.2093,
		Latitude:     -33.8688,
		Elevation:    50,
		Pressure:     1013,
		Temperature:  25,
		AtmosRefract: 0.5667,
		Request:      All.Request(),
	}

	res, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	assertClose(t, "JD", res.Detail.JD, 2459229.4583313656, 1e-7)
	assertClose(t, "Zenith", res.Zenith, 42.4465363820832, 1e-6)
	assertClose(t, "Azimuth", res.Azimuth, 84.81176587859605, 1e-6)
	assertClose(t, "EOT", res.EOT, -9.298890621638517, 1e-6)
	assertClose(t, "SunTransit", res.SunTransit, 12.075176316310326, 1e-6)
	assertClose(t, "Sunrise", res.Sunrise, 5.01103442997532, 1e-6)
	assertClose(t, "Sunset", res.Sunset, 19.149328669463948, 1e-6)
	assertClose(t, "STA", res.STA, 77.23594915363866, 1e-6)
}

func TestCalculatePolarDayAndNight(t *testing.T) {
	tests := []struct {
		name       string
		month      int
		timezone   float64
		wantZenith float64
		wantAz     float64
	}{
		{"midnight sun", 6, 2, 55.20282538771884, 163.36945346769483},
		{"polar night", 12, 1, 101.66459902700755, 180.98968815650215},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				Year: 2020, Month: tt.month, Day: 21, Hour: 12,
				Timezone:     tt.timezone,
				DeltaT:       67,
				Longitude:    15.6267,
				Latitude:     78.2232,
				Pressure:     1013.25,
				Temperature:  15,
				AtmosRefract: 0.5667,
				Request:      All.Request(),
			}

			res, err := Calculate(in)
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}

			for name, v := range map[string]float64{
				"SunTransit": res.SunTransit, "Sunrise": res.Sunrise, "Sunset": res.Sunset,
				"SRHA": res.SRHA, "SSHA": res.SSHA, "STA": res.STA,
			} {
				if v != NoEvent {
					t.Errorf("%s = %v, want NoEvent", name, v)
				}
			}
			if res.HasRiseSet() {
				t.Error("HasRiseSet() = true, want false")
			}

			assertClose(t, "Zenith", res.Zenith, tt.wantZenith, 1e-6)
			assertClose(t, "Azimuth", res.Azimuth, tt.wantAz, 1e-6)
		})
	}
}

func TestCalculateHour24(t *testing.T) {
	base := referenceInput()
	base.Request = ZA.Request()

	end := base
	end.Day, end.Hour, end.Minute, end.Second = 16, 24, 0, 0
	next := base
	next.Day, next.Hour, next.Minute, next.Second = 17, 0, 0, 0

	a, err := Calculate(end)
	if err != nil {
		t.Fatalf("hour 24: %v", err)
	}
	b, err := Calculate(next)
	if err != nil {
		t.Fatalf("hour 0: %v", err)
	}

	assertClose(t, "JD", a.Detail.JD, b.Detail.JD, 1e-9)
	assertClose(t, "Zenith", a.Zenith, b.Zenith, 1e-9)
	assertClose(t, "Azimuth", a.Azimuth, b.Azimuth, 1e-9)
	assertClose(t, "JD", a.Detail.JD, 2452929.7916666665, 1e-9)
}

func TestCalculateRequestGating(t *testing.T) {
	tests := []struct {
		fn            Function
		wantIncidence bool
		wantRTS       bool
	}{
		{ZA, false, false},
		{ZAInc, true, false},
		{ZARTS, false, true},
		{All, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.fn.String(), func(t *testing.T) {
			in := referenceInput()
			in.Request = tt.fn.Request()

			res, err := Calculate(in)
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}

			if got := res.Incidence != 0; got != tt.wantIncidence {
				t.Errorf("incidence set = %v, want %v", got, tt.wantIncidence)
			}
			if got := res.Sunrise != 0; got != tt.wantRTS {
				t.Errorf("sunrise set = %v, want %v", got, tt.wantRTS)
			}
			if got := res.EOT != 0; got != tt.wantRTS {
				t.Errorf("eot set = %v, want %v", got, tt.wantRTS)
			}
			assertClose(t, "Zenith", res.Zenith, 50.111622, 1e-4)
		})
	}
}

// TestCalculateDoesNotAliasInput checks that repeated calls on the same
// input yield identical results and leave the input untouched.
func TestCalculateDoesNotAliasInput(t *testing.T) {
	in := referenceInput()
	orig := in

	first, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if first != second {
		t.Errorf("results differ between calls:\n%+v\n%+v", first, second)
	}
	if in != orig {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestCalculateRangeProperties(t *testing.T) {
	for _, lat := range []float64{-89.5, -60, -23.4, 0, 23.4, 45, 66.6, 89.5} {
		for _, month := range []int{1, 3, 6, 9, 12} {
			for _, hour := range []int{0, 6, 12, 18, 24} {
				name := fmt.Sprintf("lat=%v/month=%d/hour=%d", lat, month, hour)
				t.Run(name, func(t *testing.T) {
					in := Input{
						Year: 2024, Month: month, Day: 10, Hour: hour,
						DeltaT:       69,
						Longitude:    lat * 2,
						Latitude:     lat,
						Pressure:     1013,
						Temperature:  15,
						Slope:        20,
						AzmRotation:  45,
						AtmosRefract: 0.5667,
						Request:      All.Request(),
					}
					res, err := Calculate(in)
					if err != nil {
						t.Fatalf("Calculate: %v", err)
					}

					want := math.Mod(res.AzimuthAstro+180, 360)
					if math.Abs(res.Azimuth-want) > 1e-9 {
						t.Errorf("Azimuth = %v, want mod(astro+180, 360) = %v", res.Azimuth, want)
					}
					for n, v := range map[string]float64{
						"Azimuth": res.Azimuth, "AzimuthAstro": res.AzimuthAstro,
						"Alpha": res.Detail.Alpha, "Nu0": res.Detail.Nu0, "H": res.Detail.H, "L": res.Detail.L,
					} {
						if v < 0 || v >= 360 {
							t.Errorf("%s = %v outside [0, 360)", n, v)
						}
					}
					if d := res.Detail.Delta; d < -90 || d > 90 {
						t.Errorf("Delta = %v outside [-90, 90]", d)
					}
					if z := res.Zenith; z < 0 || z > 180 {
						t.Errorf("Zenith = %v outside [0, 180]", z)
					}
					if i := res.Incidence; i < 0 || i > 180 {
						t.Errorf("Incidence = %v outside [0, 180]", i)
					}
					if res.EOT < -20 || res.EOT > 20 {
						t.Errorf("EOT = %v outside [-20, 20]", res.EOT)
					}
					if res.HasRiseSet() {
						for n, v := range map[string]float64{
							"Sunrise": res.Sunrise, "SunTransit": res.SunTransit, "Sunset": res.Sunset,
						} {
							if v < 0 || v >= 24 {
								t.Errorf("%s = %v outside [0, 24)", n, v)
							}
						}
					}
				})
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *Input)
		want   Code
	}{
		{"reference", func(in *Input) {}, CodeOK},
		{"year low", func(in *Input) { in.Year = -2001 }, CodeYear},
		{"year high", func(in *Input) { in.Year = 6001 }, CodeYear},
		{"year min", func(in *Input) { in.Year = -2000 }, CodeOK},
		{"month 0", func(in *Input) { in.Month = 0 }, CodeMonth},
		{"month 13", func(in *Input) { in.Month = 13 }, CodeMonth},
		{"day 0", func(in *Input) { in.Day = 0 }, CodeDay},
		{"day 32", func(in *Input) { in.Day = 32 }, CodeDay},
		{"hour -1", func(in *Input) { in.Hour = -1 }, CodeHour},
		{"hour 25", func(in *Input) { in.Hour = 25 }, CodeHour},
		{"minute 60", func(in *Input) { in.Minute = 60 }, CodeMinute},
		{"second 60", func(in *Input) { in.Second = 60 }, CodeSecond},
		{"second 59.999", func(in *Input) { in.Second = 59.999 }, CodeOK},
		{"hour 24 exact", func(in *Input) { in.Hour, in.Minute, in.Second = 24, 0, 0 }, CodeOK},
		{"hour 24 minute 1", func(in *Input) { in.Hour, in.Minute, in.Second = 24, 1, 0 }, CodeMinute},
		{"hour 24 second 0.5", func(in *Input) { in.Hour, in.Minute, in.Second = 24, 0, 0.5 }, CodeSecond},
		{"pressure 5000", func(in *Input) { in.Pressure = 5000 }, CodeOK},
		{"pressure 5001", func(in *Input) { in.Pressure = 5001 }, CodePressure},
		{"pressure negative", func(in *Input) { in.Pressure = -1 }, CodePressure},
		{"temperature -273", func(in *Input) { in.Temperature = -273 }, CodeTemperature},
		{"temperature 6001", func(in *Input) { in.Temperature = 6001 }, CodeTemperature},
		{"delta_ut1 0.999", func(in *Input) { in.DeltaUT1 = 0.999 }, CodeOK},
		{"delta_ut1 1", func(in *Input) { in.DeltaUT1 = 1 }, CodeDeltaUT1},
		{"delta_ut1 -1", func(in *Input) { in.DeltaUT1 = -1 }, CodeDeltaUT1},
		{"delta_t 8000", func(in *Input) { in.DeltaT = 8000 }, CodeOK},
		{"delta_t 8001", func(in *Input) { in.DeltaT = 8001 }, CodeDeltaT},
		{"timezone 18.5", func(in *Input) { in.Timezone = 18.5 }, CodeTimezone},
		{"longitude 180.1", func(in *Input) { in.Longitude = 180.1 }, CodeLongitude},
		{"latitude -90.1", func(in *Input) { in.Latitude = -90.1 }, CodeLatitude},
		{"atmos_refract 5.5", func(in *Input) { in.AtmosRefract = 5.5 }, CodeOK},
		{"atmos_refract 6", func(in *Input) { in.AtmosRefract = 6 }, CodeOK},
		{"atmos_refract 6.1", func(in *Input) { in.AtmosRefract = 6.1 }, CodeAtmosRefract},
		{"atmos_refract -6.1", func(in *Input) { in.AtmosRefract = -6.1 }, CodeAtmosRefract},
		{"elevation floor", func(in *Input) { in.Elevation = -6500000 }, CodeOK},
		{"elevation below floor", func(in *Input) { in.Elevation = -6500001 }, CodeElevation},
		{"slope 361", func(in *Input) { in.Slope = 361 }, CodeSlope},
		{"azm_rotation -361", func(in *Input) { in.AzmRotation = -361 }, CodeAzmRotation},
		{"slope ignored without incidence", func(in *Input) { in.Slope = 361; in.Request = ZARTS.Request() }, CodeOK},
		{"azm_rotation ignored without incidence", func(in *Input) { in.AzmRotation = 1000; in.Request = ZA.Request() }, CodeOK},

		// First failure wins, in the fixed check order.
		{"pressure before delta_ut1", func(in *Input) { in.Pressure = -1; in.DeltaUT1 = 2 }, CodePressure},
		{"delta_ut1 before hour 24 minute", func(in *Input) { in.DeltaUT1 = 2; in.Hour, in.Minute = 24, 5 }, CodeDeltaUT1},
		{"hour 24 minute before delta_t", func(in *Input) { in.Hour, in.Minute = 24, 5; in.DeltaT = 9000 }, CodeMinute},
		{"atmos_refract before elevation", func(in *Input) { in.AtmosRefract = 9; in.Elevation = -7e6 }, CodeAtmosRefract},
		{"elevation before slope", func(in *Input) { in.Elevation = -7e6; in.Slope = 400 }, CodeElevation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			tt.modify(&in)

			err := Validate(in)
			if got := CodeOf(err); got != tt.want {
				t.Errorf("CodeOf(Validate) = %d (%v), want %d (%s)", got, err, tt.want, tt.want)
			}

			_, calcErr := Calculate(in)
			if got := CodeOf(calcErr); got != tt.want {
				t.Errorf("CodeOf(Calculate) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInputErrorWrapping(t *testing.T) {
	in := referenceInput()
	in.Latitude = 91

	_, err := Calculate(in)
	wrapped := fmt.Errorf("computing position: %w", err)

	var ie *InputError
	if !errors.As(wrapped, &ie) {
		t.Fatalf("errors.As failed for %v", wrapped)
	}
	if ie.Code != CodeLatitude || ie.Value != 91 {
		t.Errorf("InputError = %+v, want latitude 91", ie)
	}
	if CodeOf(wrapped) != CodeLatitude {
		t.Errorf("CodeOf(wrapped) = %d, want %d", CodeOf(wrapped), CodeLatitude)
	}
	if CodeOf(errors.New("other")) != -1 {
		t.Error("CodeOf(non-input error) should be -1")
	}
	if CodeLatitude.String() != "latitude" {
		t.Errorf("CodeLatitude.String() = %q", CodeLatitude.String())
	}
}
