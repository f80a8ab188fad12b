package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/ironsheep/image-proxy/internal/config"
	"github.com/ironsheep/image-proxy/internal/imaging"
	"github.com/ironsheep/image-proxy/internal/server"
	"github.com/ironsheep/image-proxy/internal/source"
	"github.com/ironsheep/image-proxy/internal/worker"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("image-proxy %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "encode":
			os.Exit(runEncode(args[1:], os.Stdin, os.Stdout, os.Stderr))
		case "decode":
			os.Exit(runDecode(args[1:], os.Stdout, os.Stderr))
		case "serve":
			args = args[1:]
		}
	}

	if err := serve(args); err != nil {
		log.Fatal().Err(err).Msg("image-proxy stopped")
	}
}

func printUsage() {
	fmt.Println("image-proxy - on-demand image transformation proxy")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-proxy [serve] [--config FILE]   Run the HTTP server")
	fmt.Println("  image-proxy encode <json|->           Encode a JSON operation list as a spec")
	fmt.Println("  image-proxy decode <spec>             Print a spec as a JSON operation list")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c     TOML config file (default ./config.toml if present)")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables override config keys, e.g.:")
	fmt.Println("  IMAGE_PROXY_SERVER_ADDR=0.0.0.0:3000")
	fmt.Println("  IMAGE_PROXY_LOG_LEVEL=debug")
	fmt.Println()
	fmt.Println("Request format:")
	fmt.Println("  GET /image/<spec>/<percent-encoded source URL>")
}

func serve(args []string) error {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "TOML config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	log.Info().
		Str("version", Version).
		Str("commit", GitCommit).
		Msg("starting image-proxy...")

	mark := imaging.DefaultWatermark()
	if cfg.Watermark.Path != "" {
		if mark, err = imaging.LoadWatermark(cfg.Watermark.Path); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Watermark.Path).Msg("loaded watermark")
	}

	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	fetcher := source.NewHTTPFetcher(source.FetcherConfig{
		Timeout:              cfg.Fetch.Timeout,
		MaxBytes:             cfg.Fetch.MaxBytes,
		BlockPrivateNetworks: cfg.Fetch.BlockPrivateNetworks,
		UserAgent:            "image-proxy/" + Version,
	})
	sources, err := source.NewCache(cfg.Cache.Capacity, fetcher)
	if err != nil {
		return err
	}

	pool := worker.NewPool(cfg.Compute.Workers)
	defer pool.Close()

	srv := server.New(server.Options{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		CacheControl:      cfg.Server.CacheControl,
		Sources:           sources,
		Pool:              pool,
		Watermark:         mark,
		Format:            format,
		Encode:            imaging.EncodeOptions{JPEGQuality: cfg.Output.JPEGQuality},
		MaxPixels:         uint64(cfg.Output.MaxPixels),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return srv.Run(ctx)
}

func setupLogging(cfg *config.Config) {
	level, err := cfg.LogLevel()
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
