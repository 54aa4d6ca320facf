package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Breakout/internal/breakout"
	"github.com/Alias1177/Breakout/internal/config"
	"github.com/Alias1177/Breakout/internal/engine"
	"github.com/Alias1177/Breakout/internal/gateway"
	"github.com/Alias1177/Breakout/internal/journal"
	"github.com/Alias1177/Breakout/internal/metrics"
	"github.com/Alias1177/Breakout/internal/notify"
	"github.com/Alias1177/Breakout/internal/orders"
	platformhttp "github.com/Alias1177/Breakout/internal/platform/http"
	"github.com/Alias1177/Breakout/internal/risk"
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

	callTimeout := time.Duration(cfg.RequestTimeout) * time.Second

	httpClient := platformhttp.NewClient(platformhttp.ClientOptions{
		Timeout:        callTimeout,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	bridge := gateway.NewBridge(cfg.BridgeBaseURL, httpClient)
	events := gateway.NewEventStream(cfg.BridgeEventsURL)

	provider := universe.NewProvider(cfg.UniverseFile, cfg.UniverseLimit, cfg.ExcludedSymbols())
	symbols, err := provider.Symbols()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load universe")
	}
	metrics.UniverseSize.Set(float64(len(symbols)))
	log.Info().Int("universe", len(symbols)).Msg("universe ready")

	builder, err := orders.NewBuilder(cfg.SessionTZ, cfg.VenueTZ, cfg.MinutesValid, cfg.StrongDollarRisk, cfg.MildDollarRisk)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone configuration")
	}

	var orderJournal engine.Journal
	if cfg.DBHost != "" {
		j, err := journal.New(journal.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize order journal")
		}
		defer j.Close()
		orderJournal = j
	}

	var notifier engine.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize telegram notifier")
		}
		notifier = tg
	}

	scanner := engine.NewScanner(engine.ScannerOptions{
		Market:      bridge,
		Orders:      bridge,
		Gate:        risk.New(bridge, bridge, cfg.MaxSpreadRatio, callTimeout),
		Classifier:  breakout.New(cfg.PriceCeiling),
		Builder:     builder,
		Journal:     orderJournal,
		Concurrency: cfg.ConcurrencyLimit,
		CallTimeout: callTimeout,
	})

	scheduler := engine.NewScheduler(
		func(ctx context.Context) { scanner.ScanOnce(ctx, symbols) },
		cfg.ScanTriggerSecond,
		time.Duration(cfg.ScanInterval)*time.Second,
		time.Duration(cfg.HeartbeatInterval)*time.Second,
	)
	reconnector := engine.NewReconnector(
		bridge,
		events.Disconnects(),
		time.Duration(cfg.ReconnectMaxWait)*time.Second,
		notifier,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := metrics.Serve(cfg.MetricsAddr); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	go func() {
		if err := events.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("event stream stopped")
		}
	}()
	go func() {
		_ = reconnector.Run(ctx)
	}()

	log.Info().
		Int("concurrency", cfg.ConcurrencyLimit).
		Int("trigger_second", cfg.ScanTriggerSecond).
		Int("interval_sec", cfg.ScanInterval).
		Msg("starting intraday breakout scanner")

	if err := scheduler.Run(ctx); err != nil {
		log.Info().Err(err).Msg("scheduler stopped")
	}
}
