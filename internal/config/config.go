// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/woozymasta/geokit/internal/geo"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string  `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Datum       string  `yaml:"datum,omitempty" json:"datum,omitempty"`
	Fences      []Fence `yaml:"fences" json:"fences"`
	Deviation   float64 `yaml:"deviation,omitempty" json:"deviation"` // meters of slack for segment tests
}

// Fence represents a single named polygon.
type Fence struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	Name        string      `yaml:"name" json:"name"`
	Datum       string      `yaml:"datum,omitempty" json:"datum"`
	Attribution string      `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Aliases     []string    `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Points      [][]float64 `yaml:"points" json:"points"`

	// filled on validation
	Coordinates []geo.Coordinate `yaml:"-" json:"-"`
	Center      *geo.Coordinate  `yaml:"-" json:"center,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration and checks datum names.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	datum, err := geo.ParseDatum(cfg.Datum)
	if err != nil {
		return nil, err
	}
	cfg.Datum = string(datum)

	if cfg.Deviation < 0 {
		return nil, fmt.Errorf("deviation must be >= 0, got %v", cfg.Deviation)
	}

	for i := range cfg.Fences {
		fence := &cfg.Fences[i]
		if fence.Name == "" {
			return nil, fmt.Errorf("fence #%d has no name", i)
		}

		if fence.Datum == "" {
			fence.Datum = cfg.Datum
		}
		d, err := geo.ParseDatum(fence.Datum)
		if err != nil {
			return nil, fmt.Errorf("fence %q: %w", fence.Name, err)
		}
		fence.Datum = string(d)
	}

	return &cfg, nil
}

// GeoDatum returns the fence datum. It is valid after Parse.
func (f *Fence) GeoDatum() geo.Datum {
	return geo.Datum(f.Datum)
}

// Normalize drops fences that do not form a polygon, fills derived fields
// and sorts fences by index, then by name.
func (c *Config) Normalize() {
	valid := make([]Fence, 0, len(c.Fences))

	for i := range c.Fences {
		fence := &c.Fences[i]

		if fence.Attribution == "" {
			fence.Attribution = c.Attribution
		}

		fence.Coordinates = geo.ParsePoints(fence.Points)
		// GeoJSON-style closed rings repeat the first vertex
		if n := len(fence.Coordinates); n > 1 && fence.Coordinates[0] == fence.Coordinates[n-1] {
			fence.Coordinates = fence.Coordinates[:n-1]
		}
		if len(fence.Coordinates) < 3 {
			log.Warn().
				Str("fence", fence.Name).
				Int("points", len(fence.Coordinates)).
				Msg("Skipping fence: at least 3 valid points required")
			continue
		}

		if center, ok := geo.CenterPoint(fence.Coordinates); ok {
			fence.Center = &center
		}

		log.Debug().
			Str("fence", fence.Name).
			Str("datum", fence.Datum).
			Int("points", len(fence.Coordinates)).
			Msg("Fence validated")

		valid = append(valid, *fence)
	}

	c.Fences = valid

	sort.Slice(c.Fences, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if c.Fences[i].Index != nil {
			idxI = *c.Fences[i].Index
		}
		if c.Fences[j].Index != nil {
			idxJ = *c.Fences[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return c.Fences[i].Name < c.Fences[j].Name
	})
}
