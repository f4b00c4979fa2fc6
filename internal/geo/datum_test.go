package geo

import (
	"math"
	"testing"
)

var beijing = Coordinate{Lon: 116.397428, Lat: 39.90923}

func TestWGS84ToGCJ02Shift(t *testing.T) {
	gcj, ok := WGS84ToGCJ02(beijing.Lon, beijing.Lat)
	if !ok {
		t.Fatal("WGS84ToGCJ02 failed")
	}

	// the offset around Beijing is a few hundred meters to the north-east
	shift := DistanceBetween(beijing, gcj)
	if shift < 100 || shift > 1000 {
		t.Fatalf("shift = %vm, want between 100m and 1000m", shift)
	}
	if gcj.Lon <= beijing.Lon || gcj.Lat <= beijing.Lat {
		t.Fatalf("gcj = %v, want north-east of %v", gcj, beijing)
	}
	if gcj.Lon != round(gcj.Lon, 6) || gcj.Lat != round(gcj.Lat, 6) {
		t.Fatalf("gcj = %v, want 6 decimal rounding", gcj)
	}
}

func TestTransformValues(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(lon, lat float64) (Coordinate, bool)
		lon, lat float64
		want     Coordinate
	}{
		{"wgs84 to gcj02", WGS84ToGCJ02, 116.397428, 39.90923, Coordinate{116.403672, 39.910634}},
		{"gcj02 to wgs84", GCJ02ToWGS84, 116.403672, 39.910631, Coordinate{116.397428, 39.909227}},
		{"gcj02 to bd09", GCJ02ToBD09, 116.403672, 39.910631, Coordinate{116.410044, 39.91697}},
		{"bd09 to gcj02", BD09ToGCJ02, 116.41, 39.92, Coordinate{116.40363, 39.913661}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fn(tt.lon, tt.lat)
			if !ok {
				t.Fatalf("(%v, %v) failed", tt.lon, tt.lat)
			}
			if got != tt.want {
				t.Fatalf("(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestGCJ02RoundTrip(t *testing.T) {
	for _, p := range []Coordinate{beijing, {121.473701, 31.230416}, {113.264385, 23.129112}, {87.617733, 43.792818}} {
		gcj, ok := WGS84ToGCJ02(p.Lon, p.Lat)
		if !ok {
			t.Fatalf("WGS84ToGCJ02(%v) failed", p)
		}
		back, ok := GCJ02ToWGS84(gcj.Lon, gcj.Lat)
		if !ok {
			t.Fatalf("GCJ02ToWGS84(%v) failed", gcj)
		}
		if d := DistanceBetween(p, back); d > 5 {
			t.Errorf("round trip %v -> %v -> %v drifted %vm", p, gcj, back, d)
		}
	}
}

func TestBD09RoundTrip(t *testing.T) {
	gcj, _ := WGS84ToGCJ02(beijing.Lon, beijing.Lat)

	bd, ok := GCJ02ToBD09(gcj.Lon, gcj.Lat)
	if !ok {
		t.Fatal("GCJ02ToBD09 failed")
	}
	if shift := DistanceBetween(gcj, bd); shift < 100 || shift > 2000 {
		t.Fatalf("bd09 shift = %vm, want between 100m and 2000m", shift)
	}

	back, ok := BD09ToGCJ02(bd.Lon, bd.Lat)
	if !ok {
		t.Fatal("BD09ToGCJ02 failed")
	}
	if d := DistanceBetween(gcj, back); d > 2 {
		t.Fatalf("round trip %v -> %v -> %v drifted %vm", gcj, bd, back, d)
	}
}

func TestConvert(t *testing.T) {
	same, ok := Convert(BD09, BD09, beijing)
	if !ok || same != beijing {
		t.Fatalf("Convert(bd09, bd09) = %v %v, want identity", same, ok)
	}

	direct, _ := WGS84ToGCJ02(beijing.Lon, beijing.Lat)
	got, ok := Convert(WGS84, GCJ02, beijing)
	if !ok || got != direct {
		t.Fatalf("Convert(wgs84, gcj02) = %v, want %v", got, direct)
	}

	bd, _ := GCJ02ToBD09(direct.Lon, direct.Lat)
	got, ok = Convert(WGS84, BD09, beijing)
	if !ok || got != bd {
		t.Fatalf("Convert(wgs84, bd09) = %v, want %v", got, bd)
	}

	back, ok := Convert(BD09, WGS84, bd)
	if !ok {
		t.Fatal("Convert(bd09, wgs84) failed")
	}
	if d := DistanceBetween(beijing, back); d > 5 {
		t.Fatalf("Convert(bd09, wgs84) drifted %vm", d)
	}

	if _, ok := Convert("mars", WGS84, beijing); ok {
		t.Fatal("Convert from unknown datum succeeded")
	}
	if _, ok := Convert(WGS84, "mars", beijing); ok {
		t.Fatal("Convert to unknown datum succeeded")
	}
}

func TestParseDatum(t *testing.T) {
	for in, want := range map[string]Datum{"": WGS84, "WGS84": WGS84, " gcj02 ": GCJ02, "BD09": BD09} {
		got, err := ParseDatum(in)
		if err != nil {
			t.Fatalf("ParseDatum(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDatum(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseDatum("epsg:3857"); err == nil {
		t.Fatal("expected error for unknown datum")
	}
}

func TestTransformsRejectInvalid(t *testing.T) {
	transforms := map[string]func(float64, float64) (Coordinate, bool){
		"WGS84ToGCJ02": WGS84ToGCJ02,
		"GCJ02ToWGS84": GCJ02ToWGS84,
		"GCJ02ToBD09":  GCJ02ToBD09,
		"BD09ToGCJ02":  BD09ToGCJ02,
	}

	for name, fn := range transforms {
		if _, ok := fn(math.NaN(), 30); ok {
			t.Errorf("%s(NaN, 30) succeeded", name)
		}
		if _, ok := fn(116, math.Inf(1)); ok {
			t.Errorf("%s(116, +Inf) succeeded", name)
		}
	}
}
