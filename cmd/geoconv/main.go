package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geokit/internal/geo"
	"github.com/woozymasta/geokit/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input  string `short:"i" long:"in" description:"Input GeoJSON file path or http(s) URL. Reads from stdin if empty"`
	Output string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	From   string `short:"f" long:"from" env:"GEOCONV_FROM" description:"Source datum" choice:"wgs84" choice:"gcj02" choice:"bd09" default:"wgs84"`
	To     string `short:"t" long:"to" env:"GEOCONV_TO" description:"Target datum" choice:"wgs84" choice:"gcj02" choice:"bd09" required:"true"`
	Format string `short:"F" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
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

	client := &http.Client{Timeout: 30 * time.Second}

	if err := run(opts, client, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run converts the input collection and writes it in the requested format.
func run(opts Options, client *http.Client, stdin io.Reader, stdout, stderr io.Writer) error {
	from, err := geo.ParseDatum(opts.From)
	if err != nil {
		return err
	}
	to, err := geo.ParseDatum(opts.To)
	if err != nil {
		return err
	}

	fc, err := processor.LoadCollection(client, opts.Input, stdin)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	converted, skipped := processor.ConvertCollection(&fc, from, to)
	if skipped > 0 {
		fmt.Fprintf(stderr, "Skipped %d positions that could not be converted\n", skipped)
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling data: %w", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Fprintf(stderr, "Successfully converted %d positions from %s to %s into %s (format: %s)\n",
			converted, from, to, opts.Output, opts.Format)
		return nil
	}

	_, err = fmt.Fprintln(stdout, string(outputData))
	return err
}
