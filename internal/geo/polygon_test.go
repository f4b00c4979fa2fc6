package geo

import (
	"math"
	"testing"
)

var square = []Coordinate{{0, 0}, {0, 10}, {10, 10}, {10, 0}}

func TestWithinBounds(t *testing.T) {
	tests := []struct {
		name     string
		points   []Coordinate
		lon, lat float64
		want     bool
	}{
		{"center", square, 5, 5, true},
		{"outside", square, 15, 15, false},
		{"vertex", square, 0, 0, true},
		{"other vertex", square, 10, 10, true},
		{"east edge", square, 10, 5, true},
		{"west edge", square, 0, 5, false},
		{"below", square, 5, -1, false},
		{"left of polygon", square, -5, 5, false},
		{"two points", square[:2], 0, 5, false},
		{"nan query", square, math.NaN(), 5, false},
		{
			"invalid vertices dropped",
			[]Coordinate{{0, 0}, {math.NaN(), 3}, {0, 10}, {10, 10}, {math.Inf(1), 0}, {10, 0}},
			5, 5, true,
		},
		{
			"concave notch",
			[]Coordinate{{0, 0}, {0, 10}, {5, 5}, {10, 10}, {10, 0}},
			5, 8, false,
		},
		{
			"concave body",
			[]Coordinate{{0, 0}, {0, 10}, {5, 5}, {10, 10}, {10, 0}},
			5, 2, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinBounds(tt.points, tt.lon, tt.lat); got != tt.want {
				t.Fatalf("WithinBounds(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestCenterPoint(t *testing.T) {
	got, ok := CenterPoint([]Coordinate{{0, 0}, {10, 10}})
	if !ok {
		t.Fatal("expected center for two points")
	}
	if got != (Coordinate{5, 5}) {
		t.Fatalf("CenterPoint = %v, want {5 5}", got)
	}

	got, ok = CenterPoint([]Coordinate{{116.1234561, 39.1}, {116.1234571, 39.2}, {math.NaN(), 0}})
	if !ok {
		t.Fatal("expected center for two valid points")
	}
	if got != (Coordinate{116.123457, 39.15}) {
		t.Fatalf("CenterPoint = %v, want {116.123457 39.15}", got)
	}

	// exact binary tie at the 7th decimal rounds away from zero
	got, _ = CenterPoint([]Coordinate{{0, 0}, {0.015625, -0.015625}})
	if got != (Coordinate{0.007813, -0.007813}) {
		t.Fatalf("CenterPoint = %v, want {0.007813 -0.007813}", got)
	}

	if _, ok := CenterPoint([]Coordinate{{1, 1}}); ok {
		t.Fatal("expected no center for a single point")
	}
	if _, ok := CenterPoint([]Coordinate{{1, 1}, {math.NaN(), 2}}); ok {
		t.Fatal("expected no center when only one point is valid")
	}
	if _, ok := CenterPoint(nil); ok {
		t.Fatal("expected no center for nil")
	}
}

func TestParsePoints(t *testing.T) {
	raw := []interface{}{
		[]interface{}{0.0, 0.0},
		[]interface{}{"10", " 10.5 "},
		[]interface{}{"12abc", 1.0},
		[]interface{}{1.0},
		"not a pair",
		nil,
		[]interface{}{3.0, 4.0, 120.0},
		[]float64{7, 8},
	}

	got := ParsePoints(raw)
	want := []Coordinate{{0, 0}, {10, 10.5}, {3, 4}, {7, 8}}
	if len(got) != len(want) {
		t.Fatalf("ParsePoints returned %d points, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}

	if pts := ParsePoints("nope"); pts != nil {
		t.Fatalf("ParsePoints(string) = %v, want nil", pts)
	}
	if pts := ParsePoints([][]float64{{1, 2}, {math.NaN(), 1}, {3}}); len(pts) != 1 {
		t.Fatalf("ParsePoints(float grid) = %v, want one point", pts)
	}
}

func TestBounds(t *testing.T) {
	sw, ne, ok := Bounds([]Coordinate{{3, -1}, {-2, 4}, {math.NaN(), 100}, {1, 1}})
	if !ok {
		t.Fatal("expected bounds")
	}
	if sw != (Coordinate{-2, -1}) || ne != (Coordinate{3, 4}) {
		t.Fatalf("Bounds = %v %v, want {-2 -1} {3 4}", sw, ne)
	}

	if _, _, ok := Bounds(nil); ok {
		t.Fatal("expected no bounds for nil")
	}
}

func TestAddMeters(t *testing.T) {
	if got := AddLongitudeMeters(116, 1000); got != 116.008991 {
		t.Fatalf("AddLongitudeMeters = %v, want 116.008991", got)
	}
	if got := AddLatitudeMeters(39, -1000); got != 38.991007 {
		t.Fatalf("AddLatitudeMeters = %v, want 38.991007", got)
	}
	if got := AddLatitudeMeters(39.5, 0); got != 39.5 {
		t.Fatalf("AddLatitudeMeters = %v, want 39.5", got)
	}
}
