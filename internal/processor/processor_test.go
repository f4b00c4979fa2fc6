package processor

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/geokit/internal/config"
	"github.com/woozymasta/geokit/internal/geo"

	xwebp "golang.org/x/image/webp"
)

var square = []geo.Coordinate{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 10}, {Lon: 10, Lat: 10}, {Lon: 10, Lat: 0}}

func TestRenderFenceSquare(t *testing.T) {
	img, err := RenderFence(square, 64, 4)
	if err != nil {
		t.Fatalf("RenderFence: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 64 {
		t.Fatalf("width = %d, want 64", b.Dx())
	}
	// a square in degrees near the equator is roughly square in pixels
	if b.Dy() < 60 || b.Dy() > 68 {
		t.Fatalf("height = %d, want about 64", b.Dy())
	}

	if img.NRGBAAt(32, b.Dy()/2) != FenceFill {
		t.Fatalf("center pixel = %v, want fill", img.NRGBAAt(32, b.Dy()/2))
	}
}

func TestRenderFenceTriangle(t *testing.T) {
	// lower-left half of the square
	triangle := []geo.Coordinate{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 10}, {Lon: 10, Lat: 0}}

	img, err := RenderFence(triangle, 100, 3)
	if err != nil {
		t.Fatalf("RenderFence: %v", err)
	}

	h := img.Bounds().Dy()
	if got := img.NRGBAAt(10, h-10); got != FenceFill {
		t.Fatalf("bottom-left pixel = %v, want fill", got)
	}
	if got := img.NRGBAAt(90, 10); got.A != 0 {
		t.Fatalf("top-right pixel = %v, want transparent", got)
	}
}

func TestRenderFenceUpscale(t *testing.T) {
	img, err := RenderFence(square, 600, 8)
	if err != nil {
		t.Fatalf("RenderFence: %v", err)
	}
	if img.Bounds().Dx() != 600 {
		t.Fatalf("width = %d, want 600", img.Bounds().Dx())
	}
	if img.NRGBAAt(300, img.Bounds().Dy()/2) != FenceFill {
		t.Fatal("center pixel not filled after scaling")
	}
}

func TestRenderFenceDegenerate(t *testing.T) {
	line := []geo.Coordinate{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 5}, {Lon: 0, Lat: 10}}
	if _, err := RenderFence(line, 64, 1); !errors.Is(err, ErrDegenerateFence) {
		t.Fatalf("err = %v, want ErrDegenerateFence", err)
	}
	if _, err := RenderFence(nil, 64, 1); !errors.Is(err, ErrDegenerateFence) {
		t.Fatalf("err = %v, want ErrDegenerateFence", err)
	}
}

func TestPreviewBytesDecodes(t *testing.T) {
	data, err := PreviewBytes(square, 32, 2)
	if err != nil {
		t.Fatalf("PreviewBytes: %v", err)
	}

	img, err := xwebp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Fatalf("decoded width = %d, want 32", img.Bounds().Dx())
	}

	_, _, _, a := img.At(16, img.Bounds().Dy()/2).RGBA()
	if a == 0 {
		t.Fatal("decoded center pixel is transparent")
	}
}

func TestSavePreviewRespectsForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus", "preview.webp")

	if err := SavePreview(path, square, 16, 1, false); err != nil {
		t.Fatalf("SavePreview: %v", err)
	}
	if err := os.WriteFile(path, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := SavePreview(path, square, 16, 1, false); err != nil {
		t.Fatalf("SavePreview: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "keep" {
		t.Fatal("existing preview overwritten without force")
	}

	if err := SavePreview(path, square, 16, 1, true); err != nil {
		t.Fatalf("SavePreview force: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) == "keep" {
		t.Fatal("preview not overwritten with force")
	}
}

func TestExportFence(t *testing.T) {
	dir := t.TempDir()
	fence := config.Fence{
		Name:        "campus",
		Datum:       "wgs84",
		Coordinates: []geo.Coordinate{{Lon: 116.30, Lat: 39.98}, {Lon: 116.32, Lat: 39.98}, {Lon: 116.32, Lat: 39.99}},
	}

	if err := ExportFence(fence, geo.GCJ02, dir, false); err != nil {
		t.Fatalf("ExportFence: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "campus", "fence.geojson"))
	if err != nil {
		t.Fatal(err)
	}

	fc, err := DecodeCollection(data)
	if err != nil {
		t.Fatalf("DecodeCollection: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}

	f := fc.Features[0]
	if f.Properties["datum"] != "gcj02" || f.Properties["name"] != "campus" {
		t.Fatalf("properties = %v", f.Properties)
	}

	ring := geo.ParsePoints(f.Geometry.Coordinates.([]interface{})[0])
	if len(ring) != 4 {
		t.Fatalf("ring = %v, want 4 positions", ring)
	}
	want, _ := geo.WGS84ToGCJ02(116.30, 39.98)
	if ring[0] != want {
		t.Fatalf("first vertex = %v, want %v", ring[0], want)
	}
}

func TestFenceFeatureTooFewPoints(t *testing.T) {
	fence := config.Fence{Name: "tiny", Datum: "wgs84", Coordinates: square[:2]}
	if _, err := FenceFeature(fence, geo.WGS84); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadCollection(t *testing.T) {
	body := `{"type":"Feature","properties":{"name":"gate"},"geometry":{"type":"Point","coordinates":[116.397428,39.90923]}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gate.geojson" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	fc, err := LoadCollection(srv.Client(), srv.URL+"/gate.geojson", nil)
	if err != nil {
		t.Fatalf("LoadCollection url: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("collection = %+v", fc)
	}

	if _, err := LoadCollection(srv.Client(), srv.URL+"/missing", nil); err == nil {
		t.Fatal("expected error for 404")
	}

	fc, err = LoadCollection(nil, "", strings.NewReader(body))
	if err != nil {
		t.Fatalf("LoadCollection reader: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}

	if _, err := LoadCollection(nil, "", nil); err == nil {
		t.Fatal("expected error without input")
	}
	if _, err := DecodeCollection([]byte(`{"type":"Point","coordinates":[1,2]}`)); err == nil {
		t.Fatal("expected error for bare geometry")
	}
}

func TestConvertCollection(t *testing.T) {
	fc, err := DecodeCollection([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"MultiPoint","coordinates":[[116.3,39.9],[121.4,31.2]]}}]}`))
	if err != nil {
		t.Fatal(err)
	}

	converted, skipped := ConvertCollection(&fc, geo.GCJ02, geo.BD09)
	if converted != 2 || skipped != 0 {
		t.Fatalf("converted, skipped = %d, %d, want 2, 0", converted, skipped)
	}

	points := geo.ParsePoints(fc.Features[0].Geometry.Coordinates)
	want, _ := geo.GCJ02ToBD09(116.3, 39.9)
	if len(points) != 2 || points[0] != want {
		t.Fatalf("points = %v, want first %v", points, want)
	}
}
