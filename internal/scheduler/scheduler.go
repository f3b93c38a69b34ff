package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"BetaLens/internal/analyzer"
	"BetaLens/internal/collector"
	"BetaLens/internal/model"
	"BetaLens/internal/recorder"
	"BetaLens/internal/report"
	"BetaLens/internal/watchlist"
)

// Scheduler re-runs the analysis on a cron schedule and keeps the latest
// snapshot available for the HTTP API.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *analyzer.Engine
	Watchlist *watchlist.Manager
	Recorder  recorder.Recorder
	Params    model.Parameters
	Ctx       context.Context

	log zerolog.Logger

	mu     sync.RWMutex
	latest *analyzer.Result
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *analyzer.Engine,
	wl *watchlist.Manager, rec recorder.Recorder, params model.Parameters, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Engine:    eng,
		Watchlist: wl,
		Recorder:  rec,
		Params:    params,
		Ctx:       ctx,
		log:       logger.With().Str("component", "scheduler").Logger(),
	}
}

// Register registers the periodic refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// Latest returns the snapshot of the most recent run, or nil before the
// first run completes.
func (s *Scheduler) Latest() *analyzer.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// RunNow executes one full collect-and-analyze pass immediately (manual
// trigger / RUN_ON_START) and returns its snapshot.
func (s *Scheduler) RunNow() (*analyzer.Result, error) {
	tickers := s.Watchlist.Tickers()

	bench, series, fetchFailures, err := s.Collector.CollectAll(s.Ctx, tickers, s.Params.BenchmarkTicker, s.Params.WindowYears)
	if err != nil {
		return nil, err
	}

	result, err := s.Engine.Analyze(s.Ctx, bench, series)
	if err != nil {
		return nil, err
	}
	// Surface download failures next to analysis failures so the caller
	// sees every ticker that is missing from the summary, and why.
	for _, f := range fetchFailures {
		result.Failures = append(result.Failures, analyzer.Failure{Ticker: f.Ticker, Err: f.Err})
	}

	if err := s.Recorder.RecordRun(result); err != nil {
		s.log.Error().Err(err).Msg("record run")
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	return result, nil
}

func (s *Scheduler) refreshTask() {
	s.log.Info().Msg("running scheduled analysis")
	result, err := s.RunNow()
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled analysis failed")
		return
	}
	s.log.Info().Msg("\n" + report.FormatRun(result))
}
