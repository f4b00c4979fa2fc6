package main

import (
	"os"
	"path/filepath"

	"github.com/woozymasta/geokit/internal/config"
	"github.com/woozymasta/geokit/internal/geo"
	"github.com/woozymasta/geokit/internal/logger"
	"github.com/woozymasta/geokit/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	OutDir      string   `short:"o" long:"out"          env:"OUT_DIR"      description:"Output directory" default:"fences"`
	Datum       string   `short:"d" long:"datum"        env:"EXPORT_DATUM" description:"Datum of exported GeoJSON" choice:"wgs84" choice:"gcj02" choice:"bd09" default:"wgs84"`
	Limit       []string `short:"l" long:"limit"        env:"LIMIT_NAMES"  description:"Limit processing to specific fence names"`
	Concurrency int      `short:"p" long:"concurrency"  env:"CONCURRENCY"  description:"Workers per preview render" default:"8"`
	Size        int      `short:"s" long:"size"         env:"PREVIEW_SIZE" description:"Preview width in pixels" default:"512"`
	GeoJSONOnly bool     `short:"g" long:"geojson-only" description:"Export GeoJSON only"`
	PreviewOnly bool     `short:"P" long:"preview-only" description:"Render previews only"`
	Force       bool     `short:"f" long:"force"        description:"Force overwrite of existing files"`
}

func main() {
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg.Normalize()

	datum, err := geo.ParseDatum(opts.Datum)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid export datum")
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}

	fences := selectFences(cfg.Fences, opts.Limit)

	log.Info().
		Int("fences_total", len(cfg.Fences)).
		Int("fences_queued", len(fences)).
		Str("datum", string(datum)).
		Str("out", opts.OutDir).
		Msg("Starting loader")

	failed := process(fences, opts, datum)

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Loader finished with errors")
	}
	log.Info().Msg("Loader finished successfully")
}

// process exports and renders each fence and returns the number of failures.
func process(fences []config.Fence, opts Options, datum geo.Datum) int {
	exportGeo := true
	renderPreview := true
	if opts.GeoJSONOnly && !opts.PreviewOnly {
		renderPreview = false
	} else if opts.PreviewOnly && !opts.GeoJSONOnly {
		exportGeo = false
	}

	failed := 0
	for _, fence := range fences {
		if exportGeo {
			if err := processor.ExportFence(fence, datum, opts.OutDir, opts.Force); err != nil {
				log.Error().Err(err).Str("fence", fence.Name).Msg("Failed to export fence")
				failed++
			}
		}

		if !renderPreview {
			continue
		}

		path := filepath.Join(opts.OutDir, fence.Name, "preview.webp")
		if err := processor.SavePreview(path, fence.Coordinates, opts.Size, opts.Concurrency, opts.Force); err != nil {
			log.Error().Err(err).Str("fence", fence.Name).Msg("Failed to render preview")
			failed++
			continue
		}
		log.Info().Str("fence", fence.Name).Str("path", path).Msg("Preview ready")
	}

	return failed
}

// selectFences filters fences by name or alias, keeping the limit order.
func selectFences(all []config.Fence, limit []string) []config.Fence {
	if len(limit) == 0 {
		return all
	}

	available := make(map[string]config.Fence)
	for _, f := range all {
		available[f.Name] = f
		for _, alias := range f.Aliases {
			if _, ok := available[alias]; !ok {
				available[alias] = f
			}
		}
	}

	selected := make([]config.Fence, 0, len(limit))
	seen := make(map[string]bool)

	for _, name := range limit {
		f, ok := available[name]
		if !ok {
			log.Error().
				Str("name", name).
				Msg("Fence specified in --limit not found in configuration")
			continue
		}
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		selected = append(selected, f)
	}

	return selected
}
