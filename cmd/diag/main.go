package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"
	"time"

	sunrise "github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"

	"github.com/star/sunpos/internal/iers"
	"github.com/star/sunpos/internal/report"
	"github.com/star/sunpos/internal/spa"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// Defaults reproduce the published NREL reference scenario.
	var in spa.Input
	flag.IntVar(&in.Year, "year", 2003, "year, -2000 to 6000")
	flag.IntVar(&in.Month, "month", 10, "month, 1 to 12")
	flag.IntVar(&in.Day, "day", 17, "day of month")
	flag.IntVar(&in.Hour, "hour", 12, "local hour, 0 to 24")
	flag.IntVar(&in.Minute, "minute", 30, "minute")
	flag.Float64Var(&in.Second, "second", 30, "second")
	flag.Float64Var(&in.Timezone, "timezone", -7, "hours east of UTC")
	flag.Float64Var(&in.DeltaUT1, "delta-ut1", 0, "UT1-UTC in seconds")
	flag.Float64Var(&in.DeltaT, "delta-t", 67, "TT-UT1 in seconds")
	flag.Float64Var(&in.Longitude, "lon", -105.1786, "longitude, degrees east")
	flag.Float64Var(&in.Latitude, "lat", 39.742476, "latitude, degrees north")
	flag.Float64Var(&in.Elevation, "elev", 1830.14, "elevation in meters")
	flag.Float64Var(&in.Pressure, "pressure", 820, "pressure in millibars")
	flag.Float64Var(&in.Temperature, "temp", 11, "temperature in degrees Celsius")
	flag.Float64Var(&in.Slope, "slope", 30, "surface slope in degrees")
	flag.Float64Var(&in.AzmRotation, "azm", -10, "surface azimuth rotation from south in degrees")
	flag.Float64Var(&in.AtmosRefract, "refraction", 0.5667, "refraction at sunrise/sunset in degrees")
	function := flag.String("function", "all", "outputs: za, za_inc, za_rts or all")
	lang := flag.String("lang", "en", "report language (en, zh)")
	detail := flag.Bool("detail", true, "print intermediate values")
	compare := flag.Bool("compare", true, "compare with suncalc and go-sunrise")
	iersCache := flag.String("iers-cache", "", "IERS cache directory; when set, delta-t and delta-ut1 come from the newest cached table")
	flag.Parse()

	req, ok := parseFunction(*function)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown function %q\n", *function)
		os.Exit(2)
	}
	in.Request = req

	at := instant(in)
	if *iersCache != "" {
		store := iers.NewStore()
		if err := store.LoadCache(iers.NewCache(*iersCache, 0), logger); err != nil {
			fmt.Fprintln(os.Stderr, "ERROR loading IERS cache:", err)
			os.Exit(1)
		}
		in.DeltaT = store.DeltaT(at)
		if dut1, err := store.DUT1(at); err == nil {
			in.DeltaUT1 = dut1
		} else {
			logger.Warn("instant outside IERS table, keeping delta-ut1", "delta_ut1", in.DeltaUT1, "error", err)
		}
	}

	res, err := spa.Calculate(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(report.String(report.Match(*lang), in, res))

	if *detail {
		fmt.Println()
		printDetail(in, res.Detail)
	}
	if *compare {
		fmt.Println()
		printComparison(in, res, at)
	}
}

func parseFunction(name string) (spa.Request, bool) {
	for _, f := range []spa.Function{spa.ZA, spa.ZAInc, spa.ZARTS, spa.All} {
		if f.String() == name {
			return f.Request(), true
		}
	}
	return spa.Request{}, false
}

// instant converts the calendar fields of in to a time.Time, reading them
// on the same calendars as the engine.
func instant(in spa.Input) time.Time {
	zone := time.FixedZone("", int(math.Round(in.Timezone*3600)))
	jd := spa.JulianDay(in.Year, in.Month, in.Day, in.Hour, in.Minute, in.Second, 0, in.Timezone)
	return spa.TimeOfJulianDate(jd).In(zone)
}

func printDetail(in spa.Input, d spa.Detail) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value float64
	}{
		{"Julian day", d.JD},
		{"Julian ephemeris day", d.JDE},
		{"L (deg)", d.L},
		{"B (deg)", d.B},
		{"R (AU)", d.R},
		{"Nutation longitude (deg)", d.DeltaPsi},
		{"Nutation obliquity (deg)", d.DeltaEpsilon},
		{"True obliquity (deg)", d.Epsilon},
		{"Apparent longitude (deg)", d.Lambda},
		{"Apparent sidereal time (deg)", d.Nu},
		{"Right ascension (deg)", d.Alpha},
		{"Declination (deg)", d.Delta},
		{"Topocentric hour angle (deg)", d.HPrime},
		{"Topocentric declination (deg)", d.DeltaPrime},
		{"Elevation, no refraction (deg)", d.E0},
		{"Refraction (deg)", d.DeltaE},
	}
	fmt.Fprintf(w, "Intermediate\tValue\n")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.9f\n", r.name, r.value)
	}
	fmt.Fprintf(w, "delta_t / delta_ut1 (s)\t%.4f / %.4f\n", in.DeltaT, in.DeltaUT1)
	w.Flush()
}

func printComparison(in spa.Input, res spa.Result, at time.Time) {
	zone := at.Location()
	midnight := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, zone)

	spaEvent := func(h float64) string {
		d, ok := spa.HourToDuration(h)
		if !ok || !in.Request.RiseTransitSet {
			return "--"
		}
		return midnight.Add(d).Format(time.TimeOnly)
	}
	clock := func(t time.Time) string {
		if t.IsZero() {
			return "--"
		}
		return t.In(zone).Format(time.TimeOnly)
	}

	noon := time.Date(at.Year(), at.Month(), at.Day(), 12, 0, 0, 0, zone)
	times := suncalc.GetTimes(noon, in.Latitude, in.Longitude)
	pos := suncalc.GetPosition(at, in.Latitude, in.Longitude)
	gsRise, gsSet := sunrise.SunriseSunset(in.Latitude, in.Longitude, at.Year(), at.Month(), at.Day())

	// suncalc measures azimuth from south towards west, like AzimuthAstro.
	scAzimuth := math.Mod(pos.Azimuth*180/math.Pi+360, 360)
	scAltitude := pos.Altitude * 180 / math.Pi

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Quantity\tSPA\tsuncalc\tgo-sunrise\n")
	fmt.Fprintf(w, "Sunrise\t%s\t%s\t%s\n", spaEvent(res.Sunrise), clock(times["sunrise"].Value), clock(gsRise))
	fmt.Fprintf(w, "Sunset\t%s\t%s\t%s\n", spaEvent(res.Sunset), clock(times["sunset"].Value), clock(gsSet))
	fmt.Fprintf(w, "Solar noon\t%s\t%s\t--\n", spaEvent(res.SunTransit), clock(times["solarNoon"].Value))
	fmt.Fprintf(w, "Azimuth from south (deg)\t%.4f\t%.4f\t--\n", res.AzimuthAstro, scAzimuth)
	fmt.Fprintf(w, "Elevation, no refraction (deg)\t%.4f\t%.4f\t--\n", res.Detail.E0, scAltitude)
	w.Flush()
}
