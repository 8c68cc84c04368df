package jobs

import (
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/modules/strategy"
)

// RefreshJob recomputes bin statistics and the Kelly backtest for every
// symbol with stored valuation history. Scheduled via cron so the
// reporting layer always reads fresh strategy numbers.
type RefreshJob struct {
	service *strategy.Service
	log     zerolog.Logger
}

// NewRefreshJob creates a new strategy refresh job
func NewRefreshJob(service *strategy.Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service: service,
		log:     log.With().Str("job", "strategy_refresh").Logger(),
	}
}

// Name returns the job name for the scheduler.
func (j *RefreshJob) Name() string {
	return "strategy_refresh"
}

// Run recomputes the strategy for all stored symbols. Per-symbol failures
// are logged and skipped; the job itself only fails when the symbol list
// cannot be read.
func (j *RefreshJob) Run() error {
	symbols, err := j.service.Repo().Symbols()
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		result, err := j.service.Backtest(symbol)
		if err != nil {
			j.log.Warn().Err(err).Str("symbol", symbol).Msg("Skipping symbol")
			continue
		}

		j.log.Info().
			Str("symbol", symbol).
			Int("trades", len(result.Trades)).
			Float64("total_return", result.TotalReturn).
			Float64("annualized_return", result.AnnualizedReturn).
			Msg("Strategy refreshed")
	}

	return nil
}
