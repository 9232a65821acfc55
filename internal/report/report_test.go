package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/star/sunpos/internal/spa"
)

func goldenInput(req spa.Request) spa.Input {
	return spa.Input{
		Year: 2003, Month: 10, Day: 17,
		Hour: 12, Minute: 30, Second: 30,
		DeltaT:       67,
		Timezone:     -7,
		Longitude:    -105.1786,
		Latitude:     39.742476,
		Elevation:    1830.14,
		Pressure:     820,
		Temperature:  11,
		Slope:        30,
		AzmRotation:  -10,
		AtmosRefract: 0.5667,
		Request:      req,
	}
}

func render(t *testing.T, tag language.Tag, in spa.Input) string {
	t.Helper()
	res, err := spa.Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	return String(tag, in, res)
}

func TestRenderEnglish(t *testing.T) {
	out := render(t, language.English, goldenInput(spa.All.Request()))

	for _, want := range []string{
		"Solar position report",
		"2003-10-17 12:30:30 UTC-07:00",
		"Zenith:           50.111622°",
		"Azimuth:          194.340241°",
		"Incidence:",
		"Sunrise:          06:12:43",
		"Sun transit:      11:46:04",
		"Sunset:           17:20:19",
		"Equation of time: 14.641511 minutes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("report should end with a newline")
	}
}

func TestRenderChinese(t *testing.T) {
	out := render(t, language.SimplifiedChinese, goldenInput(spa.All.Request()))

	for _, want := range []string{
		"太阳位置报告",
		"天顶角：50.111622°",
		"日出：06:12:43",
		"日中：11:46:04",
		"日落：17:20:19",
		"时差：14.641511 分钟",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sunrise") {
		t.Errorf("Chinese report contains English text:\n%s", out)
	}
}

func TestRenderOmitsUnrequested(t *testing.T) {
	out := render(t, language.English, goldenInput(spa.ZA.Request()))
	for _, absent := range []string{"Incidence", "Sunrise", "Sun transit", "Sunset", "Equation of time"} {
		if strings.Contains(out, absent) {
			t.Errorf("ZA report contains %q:\n%s", absent, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 5 {
		t.Errorf("ZA report has %d lines, want 5", got)
	}
}

func TestRenderPolarNight(t *testing.T) {
	in := spa.Input{
		Year: 2020, Month: 12, Day: 21, Hour: 12,
		DeltaT: 67, Timezone: 1,
		Longitude: 15.6267, Latitude: 78.2232,
		Pressure: 1013.25, Temperature: 15, AtmosRefract: 0.5667,
		Request: spa.ZARTS.Request(),
	}

	en := render(t, language.English, in)
	if got := strings.Count(en, "none (Sun does not rise or set)"); got != 3 {
		t.Errorf("English no-event phrase appears %d times, want 3:\n%s", got, en)
	}
	zh := render(t, language.SimplifiedChinese, in)
	if !strings.Contains(zh, "日出：无（极昼或极夜）") {
		t.Errorf("Chinese no-event phrase missing:\n%s", zh)
	}
}

func TestFormatZone(t *testing.T) {
	tests := []struct {
		tz   float64
		want string
	}{
		{0, "UTC+00:00"},
		{-7, "UTC-07:00"},
		{5.5, "UTC+05:30"},
		{5.75, "UTC+05:45"},
		{-9.5, "UTC-09:30"},
		{14, "UTC+14:00"},
	}
	for _, tt := range tests {
		if got := formatZone(tt.tz); got != tt.want {
			t.Errorf("formatZone(%v) = %q, want %q", tt.tz, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		prefs []string
		want  language.Tag
	}{
		{"none", nil, language.English},
		{"empty", []string{""}, language.English},
		{"english", []string{"en-US"}, language.English},
		{"chinese mainland", []string{"zh-CN"}, language.SimplifiedChinese},
		{"chinese script", []string{"zh-Hans"}, language.SimplifiedChinese},
		{"accept header", []string{"fr-CH, zh;q=0.8, en;q=0.5"}, language.SimplifiedChinese},
		{"unsupported", []string{"fr"}, language.English},
		{"malformed", []string{"!!"}, language.English},
		{"explicit beats header", []string{"en", "zh-CN"}, language.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.prefs...); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.prefs, got, tt.want)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStringMatchesRender(t *testing.T) {
	in := goldenInput(spa.All.Request())
	res, err := spa.Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, language.English, in, res); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := String(language.English, in, res); got != buf.String() {
		t.Errorf("String differs from Render:\n%s\n---\n%s", got, buf.String())
	}

	if err := Render(failingWriter{}, language.English, in, res); err == nil {
		t.Error("Render to a failing writer returned nil error")
	}
}
