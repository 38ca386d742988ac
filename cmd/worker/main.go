package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"StratForge/internal/config"
	"StratForge/internal/logging"
	"StratForge/internal/marketdata"
	"StratForge/internal/notifier"
	"StratForge/internal/recorder"
	"StratForge/internal/runner"
	"StratForge/internal/scheduler"
	"StratForge/internal/strategy"
)

func main() {
	_ = godotenv.Load()
	logging.Init("worker")
	log.Info().Msg("StratForge worker starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	strategies, err := strategy.LoadFile(cfg.Strategies.File)
	if err != nil {
		log.Fatal().Err(err).Msg("load strategies")
	}
	log.Info().Int("count", len(strategies)).Msg("strategies loaded")

	var src marketdata.Source
	if cfg.Data.Source == "csv" {
		src = marketdata.NewCSVSource(cfg.Data.CSVPath)
	} else {
		src = marketdata.NewSyntheticSource(cfg.Data.BasePrice, cfg.Data.Seed)
	}
	log.Info().Str("source", src.Name()).Msg("bar source ready")

	var rec recorder.Recorder
	switch cfg.Database.Driver {
	case "sqlite":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	case "postgres":
		pr, err := recorder.NewPostgresRecorder(cfg.Database.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("init postgres recorder")
		}
		rec = pr
		defer pr.Close()
	default:
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tg *notifier.Telegram
	var notify notifier.Notifier = notifier.Noop{}
	if cfg.Telegram.BotToken != "" {
		tg = notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notify = tg
	}

	r := &runner.Runner{
		Source:   src,
		Recorder: rec,
		Notifier: notify,
		Log:      logging.Component("runner"),
		Bars:     cfg.Data.Bars,
	}

	sched := scheduler.New(ctx, r, strategies)
	if err := sched.Register(cfg.Schedule.RunCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tg != nil {
		go tg.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	metricsSrv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.Handler()}
	go func() {
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics listener started")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics listener")
		}
	}()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing backtests now")
		go sched.RunNow()
	}

	log.Info().Msg("worker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("metrics shutdown")
	}
	log.Info().Msg("worker stopped")
}
