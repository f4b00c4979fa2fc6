// Package processor exports configured fences and converts GeoJSON data
// between datums.
package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/geokit/internal/config"
	"github.com/woozymasta/geokit/internal/geo"

	"github.com/rs/zerolog/log"
)

// FenceFeature converts a fence to a GeoJSON polygon in the target datum.
// Vertices that fail conversion are dropped.
func FenceFeature(f config.Fence, to geo.Datum) (geo.GeoJSONFeature, error) {
	points := make([]geo.Coordinate, 0, len(f.Coordinates))
	for _, p := range f.Coordinates {
		c, ok := geo.Convert(f.GeoDatum(), to, p)
		if !ok {
			log.Warn().
				Str("fence", f.Name).
				Float64("lon", p.Lon).
				Float64("lat", p.Lat).
				Msg("Dropping vertex: datum conversion failed")
			continue
		}
		points = append(points, c)
	}

	if len(points) < 3 {
		return geo.GeoJSONFeature{}, fmt.Errorf("fence %q: %d vertices left after conversion", f.Name, len(points))
	}

	props := map[string]interface{}{
		"name":  f.Name,
		"datum": string(to),
	}
	if f.Attribution != "" {
		props["attribution"] = f.Attribution
	}
	if center, ok := geo.CenterPoint(points); ok {
		props["center"] = center.Slice()
	}

	return geo.NewPolygonFeature(points, props), nil
}

// ExportFence writes <dir>/<name>/fence.geojson for the fence in the target
// datum. Existing files are kept unless force is set.
func ExportFence(f config.Fence, to geo.Datum, dir string, force bool) error {
	destDir := filepath.Join(dir, f.Name)
	destFile := filepath.Join(destDir, "fence.geojson")

	if _, err := os.Stat(destFile); err == nil {
		if !force {
			log.Debug().Str("fence", f.Name).Msg("Fence file exists, skipping")
			return nil
		}
	}

	feature, err := FenceFeature(f, to)
	if err != nil {
		return err
	}

	fc := geo.GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: []geo.GeoJSONFeature{feature},
	}

	log.Info().
		Str("fence", f.Name).
		Str("from", f.Datum).
		Str("to", string(to)).
		Str("path", destFile).
		Msg("Exporting fence")

	return saveGeoJSON(destDir, destFile, fc)
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, fc geo.GeoJSONFeatureCollection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
