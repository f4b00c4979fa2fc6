package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geokit/internal/config"
	"github.com/woozymasta/geokit/internal/logger"
	"github.com/woozymasta/geokit/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string  `short:"c" long:"config"              env:"CONFIG_FILE"         description:"Path to configuration file"           default:"config.yaml"`
	Addr        string  `short:"a" long:"addr"                env:"LISTEN_ADDRESS"      description:"Address to listen on"                 default:"0.0.0.0"`
	Port        int     `short:"p" long:"port"                env:"LISTEN_PORT"         description:"Port to listen on"                    default:"8080"`
	Deviation   float64 `short:"d" long:"deviation"           env:"DEVIATION"           description:"Default segment tolerance in meters"  default:"0"`
	PreviewSize int     `short:"s" long:"preview-size"        env:"PREVIEW_SIZE"        description:"Fence preview width in pixels"        default:"256"`
	Concurrency int     `long:"preview-concurrency"           env:"PREVIEW_CONCURRENCY" description:"Workers per preview render"           default:"4"`

	Redis struct {
		Addr string        `long:"addr" env:"ADDR" description:"Redis address for the shared preview cache, disabled if empty"`
		Pass string        `long:"pass" env:"PASS" description:"Redis password"`
		DB   int           `long:"db"   env:"DB"   description:"Redis database number" default:"0"`
		TTL  time.Duration `long:"ttl"  env:"TTL"  description:"Preview cache TTL" default:"1h"`
	} `group:"Redis options" namespace:"redis" env-namespace:"REDIS"`
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Deviation <= 0 && opts.Deviation > 0 {
		cfg.Deviation = opts.Deviation
	}

	srvCtx := server.NewServerContext(cfg)
	if opts.PreviewSize > 0 {
		srvCtx.PreviewSize = opts.PreviewSize
	}
	if opts.Concurrency > 0 {
		srvCtx.PreviewConcurrency = opts.Concurrency
	}

	if rc := server.OpenRedis(opts.Redis.Addr, opts.Redis.Pass, opts.Redis.DB); rc != nil {
		defer rc.Close()
		srvCtx.Redis = rc
		srvCtx.PreviewTTL = opts.Redis.TTL
		log.Info().Str("redis", opts.Redis.Addr).Dur("ttl", opts.Redis.TTL).Msg("Shared preview cache enabled")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Int("fences_loaded", len(cfg.Fences)).
		Str("datum", cfg.Datum).
		Float64("deviation", cfg.Deviation).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
