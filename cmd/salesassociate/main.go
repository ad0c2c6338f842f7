package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/HusseinZein235/SalesAssociate/internal/config"
	"github.com/HusseinZein235/SalesAssociate/internal/logging"
	"github.com/HusseinZein235/SalesAssociate/internal/server"
)

var (
	port    = flag.Int("port", 0, "listen port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
)

func main() {
	flag.Parse()

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logging.Init(cfg.Server.DevMode)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load config.toml, using defaults")
	}

	// First run: write a starter config.toml so the knobs are discoverable.
	if err == nil && !info.FileExists {
		if saveErr := config.SaveConfig(cfg); saveErr != nil {
			log.Warn().Err(saveErr).Msg("failed to write starter config.toml")
		}
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
