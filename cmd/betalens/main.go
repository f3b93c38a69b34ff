package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"BetaLens/internal/analyzer"
	"BetaLens/internal/collector"
	"BetaLens/internal/config"
	"BetaLens/internal/model"
	"BetaLens/internal/recorder"
	"BetaLens/internal/report"
	"BetaLens/internal/scheduler"
	"BetaLens/internal/server"
	"BetaLens/internal/watchlist"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("BetaLens starting...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}

	// Load config
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

	params := model.Parameters{
		BenchmarkTicker:    cfg.Analysis.Benchmark,
		WindowYears:        cfg.Analysis.WindowYears,
		RiskFreeRate:       cfg.Analysis.RiskFreeRate,
		TradingDaysPerYear: cfg.Analysis.TradingDaysPerYear,
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewHistoryAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")

	col := collector.NewCollector(fetcher, cfg.Analysis.MaxParallel, log.Logger)
	engine := analyzer.NewEngine(params, cfg.Analysis.MaxParallel, log.Logger)

	// Init watchlist
	wl, err := watchlist.NewManager(cfg.Watchlist.StateFile, cfg.Tickers)
	if err != nil {
		log.Fatal().Err(err).Msg("init watchlist")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, engine, wl, rec, params, log.Logger)

	// One-shot mode: run a single analysis, print the report, exit.
	if os.Getenv("RUN_ONCE") == "true" {
		result, err := sched.RunNow()
		if err != nil {
			log.Fatal().Err(err).Msg("analysis run")
		}
		fmt.Print(report.FormatRun(result))
		return
	}

	// Service mode: cron refresh + HTTP API.
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(sched, wl, log.Logger).HTTPServer(cfg.Server.Addr)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing analysis now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Error().Err(err).Msg("startup analysis run")
			}
		}()
	}

	log.Info().Msg("BetaLens is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	cancel()
	log.Info().Msg("BetaLens stopped")
}
