package jobs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/intrinsiq/valuation-engine/internal/database"
	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/strategy"
)

func newTestService(t *testing.T) *strategy.Service {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "jobs_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	repo := strategy.NewRepository(db.Conn(), zerolog.Nop())
	cfg := strategy.DefaultBacktestConfig()
	cfg.HorizonWeeks = 4
	return strategy.NewService(repo, cfg, zerolog.Nop())
}

func TestRefreshJobName(t *testing.T) {
	job := NewRefreshJob(newTestService(t), zerolog.Nop())
	require.Equal(t, "strategy_refresh", job.Name())
}

func TestRefreshJobRunEmptyUniverse(t *testing.T) {
	job := NewRefreshJob(newTestService(t), zerolog.Nop())
	require.NoError(t, job.Run())
}

func TestRefreshJobSkipsBrokenSymbols(t *testing.T) {
	service := newTestService(t)

	// HALF has valuations but no prices: the per-symbol failure must not
	// fail the whole run, and FULL must still be processed.
	publish := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, service.Repo().SaveValuationPoints("HALF", []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: publish, Value: 100},
	}))
	require.NoError(t, service.Repo().SaveValuationPoints("FULL", []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: publish, Value: 100},
	}))

	prices := make([]domain.PricePoint, 0, 10)
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		prices = append(prices, domain.PricePoint{Date: date, Price: 95 + float64(i)})
		date = date.AddDate(0, 0, 7)
	}
	require.NoError(t, service.Repo().SavePricePoints("FULL", prices))

	job := NewRefreshJob(service, zerolog.Nop())
	require.NoError(t, job.Run())
}
