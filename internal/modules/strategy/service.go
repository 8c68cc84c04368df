package strategy

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoValuationHistory is returned when a symbol has no stored valuation
// points. There is deliberately no synthetic fallback series: callers
// must seed real history before running the strategy.
var ErrNoValuationHistory = errors.New("no valuation history for symbol")

// ErrNoPriceHistory is returned when a symbol has no stored weekly prices.
var ErrNoPriceHistory = errors.New("no price history for symbol")

// Service runs the price/value statistical-arbitrage pipeline on stored
// history: bias series -> conditional bin statistics -> Kelly backtest.
type Service struct {
	repo *Repository
	cfg  BacktestConfig
	log  zerolog.Logger
}

// NewService creates a new strategy service
func NewService(repo *Repository, cfg BacktestConfig, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		log:  log.With().Str("service", "strategy").Logger(),
	}
}

// BiasSeries builds the bias observation series for a symbol.
func (s *Service) BiasSeries(symbol string) ([]BiasObservation, error) {
	valuations, err := s.repo.ValuationPoints(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load valuations for %s: %w", symbol, err)
	}
	if len(valuations) == 0 {
		return nil, ErrNoValuationHistory
	}

	prices, err := s.repo.PricePoints(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", symbol, err)
	}
	if len(prices) == 0 {
		return nil, ErrNoPriceHistory
	}

	return BuildBiasSeries(valuations, prices, s.cfg.HorizonWeeks), nil
}

// BinStatistics computes the conditional bin table for a symbol using the
// default bias bin edges.
func (s *Service) BinStatistics(symbol string) ([]BinStatistic, error) {
	observations, err := s.BiasSeries(symbol)
	if err != nil {
		return nil, err
	}
	return ComputeBinStatistics(observations, DefaultBinEdges()), nil
}

// Backtest runs the full pipeline for a symbol.
func (s *Service) Backtest(symbol string) (*BacktestResult, error) {
	observations, err := s.BiasSeries(symbol)
	if err != nil {
		return nil, err
	}

	bins := ComputeBinStatistics(observations, DefaultBinEdges())
	result := RunBacktest(observations, bins, s.cfg)

	s.log.Info().
		Str("symbol", symbol).
		Int("observations", len(observations)).
		Int("trades", len(result.Trades)).
		Float64("total_return", result.TotalReturn).
		Msg("Backtest complete")

	return &result, nil
}

// Repo exposes the repository for handlers that persist history.
func (s *Service) Repo() *Repository {
	return s.repo
}
