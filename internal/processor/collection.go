package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/woozymasta/geokit/internal/geo"

	"github.com/rs/zerolog/log"
)

// LoadCollection reads a GeoJSON FeatureCollection from an http(s) URL, a
// file path, or r when source is empty.
func LoadCollection(client *http.Client, source string, r io.Reader) (geo.GeoJSONFeatureCollection, error) {
	var reader io.Reader

	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		if client == nil {
			client = http.DefaultClient
		}
		log.Info().Str("url", source).Msg("Downloading feature collection")
		resp, err := client.Get(source)
		if err != nil {
			return geo.GeoJSONFeatureCollection{}, err
		}
		// Explicitly ignore close error as it's a read-only operation
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return geo.GeoJSONFeatureCollection{}, fmt.Errorf("download failed: status %d", resp.StatusCode)
		}
		reader = resp.Body

	case source != "":
		f, err := os.Open(source)
		if err != nil {
			return geo.GeoJSONFeatureCollection{}, err
		}
		defer func() { _ = f.Close() }()
		reader = f

	default:
		if r == nil {
			return geo.GeoJSONFeatureCollection{}, fmt.Errorf("no input")
		}
		reader = r
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return geo.GeoJSONFeatureCollection{}, err
	}

	return DecodeCollection(data)
}

// DecodeCollection parses GeoJSON. A bare Feature is wrapped into a
// collection.
func DecodeCollection(data []byte) (geo.GeoJSONFeatureCollection, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return geo.GeoJSONFeatureCollection{}, fmt.Errorf("decode geojson: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	switch probe.Type {
	case "FeatureCollection":
		var fc geo.GeoJSONFeatureCollection
		if err := dec.Decode(&fc); err != nil {
			return fc, fmt.Errorf("decode geojson: %w", err)
		}
		return fc, nil

	case "Feature":
		var f geo.GeoJSONFeature
		if err := dec.Decode(&f); err != nil {
			return geo.GeoJSONFeatureCollection{}, fmt.Errorf("decode geojson: %w", err)
		}
		return geo.GeoJSONFeatureCollection{Type: "FeatureCollection", Features: []geo.GeoJSONFeature{f}}, nil
	}

	return geo.GeoJSONFeatureCollection{}, fmt.Errorf("unsupported geojson type %q", probe.Type)
}

// ConvertCollection moves every position of fc from one datum to another in
// place and returns how many positions were converted and skipped.
func ConvertCollection(fc *geo.GeoJSONFeatureCollection, from, to geo.Datum) (converted, skipped int) {
	return geo.TransformCollection(fc, func(c geo.Coordinate) (geo.Coordinate, bool) {
		return geo.Convert(from, to, c)
	})
}
