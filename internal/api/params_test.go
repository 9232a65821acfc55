package api

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestZoneParam(t *testing.T) {
	tests := []struct {
		tz         string
		wantOffset int
		wantErr    bool
		wantNil    bool
	}{
		{tz: "", wantNil: true},
		{tz: "UTC", wantOffset: 0},
		{tz: "Z", wantOffset: 0},
		{tz: "+05:30", wantOffset: 5*3600 + 30*60},
		{tz: "-07:00", wantOffset: -7 * 3600},
		{tz: "-03", wantOffset: -3 * 3600},
		{tz: "+19:00", wantErr: true},
		{tz: "+05:60", wantErr: true},
		{tz: "+-5", wantErr: true},
		{tz: "Not/AZone", wantErr: true},
	}
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			loc, err := zoneParam(url.Values{"tz": {tt.tz}})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var pe *paramError
				if !errors.As(err, &pe) || pe.name != "tz" {
					t.Errorf("err = %v, want tz paramError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if loc != nil {
					t.Errorf("loc = %v, want nil", loc)
				}
				return
			}
			if _, off := at.In(loc).Zone(); off != tt.wantOffset {
				t.Errorf("offset = %d, want %d", off, tt.wantOffset)
			}
		})
	}
}

func TestDurationParam(t *testing.T) {
	tests := []struct {
		v       string
		want    time.Duration
		wantErr bool
	}{
		{"", time.Hour, false},
		{"90", 90 * time.Second, false},
		{"1.5", 1500 * time.Millisecond, false},
		{"5m", 5 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"NaN", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.v, func(t *testing.T) {
			got, err := durationParam(url.Values{"step": {tt.v}}, "step", time.Hour)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOffsetParam(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
		want offsetSpec
		err  bool
	}{
		{"defaults", url.Values{}, offsetSpec{deltaTAuto: true}, false},
		{"explicit", url.Values{"delta_t": {"69.1"}, "dut1": {"-0.2"}}, offsetSpec{deltaT: 69.1, dut1: -0.2}, false},
		{"auto both", url.Values{"delta_t": {"auto"}, "dut1": {"auto"}}, offsetSpec{deltaTAuto: true, dut1Auto: true}, false},
		{"bad delta_t", url.Values{"delta_t": {"lots"}}, offsetSpec{}, true},
		{"nan dut1", url.Values{"dut1": {"nan"}}, offsetSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := offsetParam(tt.q)
			if (err != nil) != tt.err {
				t.Fatalf("err = %v, want error %v", err, tt.err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOffsetSpecResolve(t *testing.T) {
	store := loadedStore()
	spec := offsetSpec{dut1Auto: true, deltaT: 69}

	f, err := spec.resolve(store, testNow, testNow.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := f.At(testNow); got.DUT1 != 0.01 || got.DeltaT != 69 {
		t.Errorf("offsets = %+v", got)
	}

	if _, err := spec.resolve(store, testNow, testNow.AddDate(0, 1, 0)); err == nil {
		t.Error("expected error when range leaves the table")
	}

	empty := loadedStore()
	empty.Set(nil)
	if _, err := spec.resolve(empty, testNow, testNow); !errors.Is(err, errIERSUnavailable) {
		t.Errorf("err = %v, want errIERSUnavailable", err)
	}
}

func TestSiteParamRequiresLocation(t *testing.T) {
	if _, err := siteParam(url.Values{"lon": {"1"}}, nil); err == nil {
		t.Error("expected error without lat")
	}
	site, err := siteParam(url.Values{"lat": {"1"}, "lon": {"2"}, "refraction": {"0.6"}}, nil)
	if err != nil {
		t.Fatalf("siteParam: %v", err)
	}
	if site.Latitude != 1 || site.Longitude != 2 || site.Refraction != 0.6 || site.Pressure != 1013.25 {
		t.Errorf("site = %+v", site)
	}
}
