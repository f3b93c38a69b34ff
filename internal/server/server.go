package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"BetaLens/internal/analyzer"
	"BetaLens/internal/model"
	"BetaLens/internal/scheduler"
	"BetaLens/internal/watchlist"
)

// Server exposes analysis snapshots and watchlist edits over HTTP. It is a
// thin presentation boundary: all values come out of the engine untouched.
type Server struct {
	Scheduler *scheduler.Scheduler
	Watchlist *watchlist.Manager
	log       zerolog.Logger
}

// New creates a Server.
func New(sched *scheduler.Scheduler, wl *watchlist.Manager, logger zerolog.Logger) *Server {
	return &Server{
		Scheduler: sched,
		Watchlist: wl,
		log:       logger.With().Str("component", "server").Logger(),
	}
}

// HTTPServer builds the http.Server with all routes mounted.
func (s *Server) HTTPServer(addr string) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/analysis", s.handleLatest)
		r.Post("/analysis/refresh", s.handleRefresh)
		r.Get("/watchlist", s.handleWatchlist)
		r.Post("/watchlist/{ticker}", s.handleWatchlistAdd)
		r.Delete("/watchlist/{ticker}", s.handleWatchlistRemove)
	})

	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// failureDTO is the wire form of a per-ticker failure.
type failureDTO struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// resultDTO is the wire form of one analysis run.
type resultDTO struct {
	Params          model.Parameters       `json:"params"`
	GeneratedAt     time.Time              `json:"generated_at"`
	BenchmarkReturn float64                `json:"benchmark_return"`
	Metrics         []model.StockMetrics   `json:"metrics"`
	Failures        []failureDTO           `json:"failures"`
	Summary         model.PortfolioSummary `json:"summary"`
}

func toDTO(result *analyzer.Result) resultDTO {
	dto := resultDTO{
		Params:          result.Params,
		GeneratedAt:     result.GeneratedAt,
		BenchmarkReturn: result.BenchmarkReturn,
		Metrics:         result.Metrics,
		Summary:         result.Summary,
	}
	for _, f := range result.Failures {
		dto.Failures = append(dto.Failures, failureDTO{Ticker: f.Ticker, Reason: f.Err.Error()})
	}
	return dto
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	result := s.Scheduler.Latest()
	if result == nil {
		s.writeError(w, http.StatusNotFound, "no analysis run yet")
		return
	}
	s.writeJSON(w, http.StatusOK, toDTO(result))
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	result, err := s.Scheduler.RunNow()
	if err != nil {
		s.log.Error().Err(err).Msg("manual refresh failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, toDTO(result))
}

func (s *Server) handleWatchlist(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"tickers": s.Watchlist.Tickers()})
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	if err := s.Watchlist.Add(chi.URLParam(r, "ticker")); err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string][]string{"tickers": s.Watchlist.Tickers()})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.Watchlist.Remove(chi.URLParam(r, "ticker")); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"tickers": s.Watchlist.Tickers()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
