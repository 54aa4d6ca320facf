package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Breakout/internal/config"
	"github.com/Alias1177/Breakout/internal/gateway"
	platformhttp "github.com/Alias1177/Breakout/internal/platform/http"
	"github.com/Alias1177/Breakout/internal/universe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	httpClient := platformhttp.NewClient(platformhttp.ClientOptions{
		Timeout:        time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	bridge := gateway.NewBridge(cfg.BridgeBaseURL, httpClient)

	tickers, err := universe.LoadTickers(cfg.TickersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load candidate tickers")
	}
	log.Info().Int("candidates", len(tickers)).Msg("building low-float universe")

	builder := universe.NewBuilder(bridge, universe.BuilderOptions{
		PriceMin:       cfg.BuilderPriceMin,
		PriceMax:       cfg.BuilderPriceMax,
		MarketCapMin:   cfg.BuilderMCMin,
		MarketCapMax:   cfg.BuilderMCMax,
		MinAvgVolume:   cfg.BuilderMinVol,
		RequestsPerSec: cfg.RequestsPerSec,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := builder.Build(ctx, tickers, cfg.UniverseFile); err != nil {
		log.Fatal().Err(err).Msg("universe build failed")
	}
}
