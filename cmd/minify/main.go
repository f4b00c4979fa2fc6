package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/woozymasta/geokit/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Dir string `short:"d" long:"dir" description:"Assets directory" default:"assets"`
	Out string `short:"o" long:"out" description:"Output file name inside the assets directory" default:"index.html"`
}

type PageData struct {
	CSS string
	JS  string
	SVG string
}

// sources maps template fields to their source file and media type.
var sources = []struct {
	File  string
	Media string
	Set   func(*PageData, string)
}{
	{"style.css", "text/css", func(p *PageData, s string) { p.CSS = s }},
	{"script.js", "text/javascript", func(p *PageData, s string) { p.JS = s }},
	{"icon.svg", "image/svg+xml", func(p *PageData, s string) { p.SVG = s }},
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	page, err := build(m, opts.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", opts.Dir).Msg("Failed to build index page")
	}

	outPath := filepath.Join(opts.Dir, opts.Out)
	if err := os.WriteFile(outPath, []byte(page), 0644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("Failed to write index page")
	}

	log.Info().Str("path", outPath).Int("bytes", len(page)).Msg("Minify done")
}

// build minifies the page sources and renders them into index.html.tpl.
func build(m *minify.M, dir string) (string, error) {
	var data PageData

	for _, src := range sources {
		raw, err := os.ReadFile(filepath.Join(dir, src.File))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", src.File, err)
		}
		out, err := m.String(src.Media, string(raw))
		if err != nil {
			return "", fmt.Errorf("minify %s: %w", src.File, err)
		}
		src.Set(&data, out)
	}

	htmlRaw, err := os.ReadFile(filepath.Join(dir, "index.html.tpl"))
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	tmpl, err := template.New("index").Parse(string(htmlRaw))
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return m.String("text/html", buf.String())
}
