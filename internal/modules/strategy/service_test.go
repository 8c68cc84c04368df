package strategy

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intrinsiq/valuation-engine/internal/database"
	"github.com/intrinsiq/valuation-engine/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "strategy_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestRepositoryValuationRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	points := []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: day("2024-03-01"), Value: 120},
		{FiscalYear: 2022, PublishDate: day("2023-03-01"), Value: 100},
	}
	require.NoError(t, repo.SaveValuationPoints("ACME", points))

	stored, err := repo.ValuationPoints("ACME")
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// Ordered by publish date
	assert.Equal(t, 2022, stored[0].FiscalYear)
	assert.Equal(t, 100.0, stored[0].Value)
	assert.True(t, stored[0].PublishDate.Equal(day("2023-03-01")))
	assert.Equal(t, 2023, stored[1].FiscalYear)

	// Upsert replaces by (symbol, fiscal year)
	require.NoError(t, repo.SaveValuationPoints("ACME", []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: day("2024-04-01"), Value: 130},
	}))
	stored, err = repo.ValuationPoints("ACME")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 130.0, stored[1].Value)
	assert.True(t, stored[1].PublishDate.Equal(day("2024-04-01")))

	// Other symbols stay invisible
	none, err := repo.ValuationPoints("OTHER")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositoryPriceRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	points := []domain.PricePoint{
		{Date: day("2024-01-12"), Price: 105},
		{Date: day("2024-01-05"), Price: 100},
	}
	require.NoError(t, repo.SavePricePoints("ACME", points))

	stored, err := repo.PricePoints("ACME")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.True(t, stored[0].Date.Equal(day("2024-01-05")))
	assert.Equal(t, 100.0, stored[0].Price)

	// Upsert by (symbol, date)
	require.NoError(t, repo.SavePricePoints("ACME", []domain.PricePoint{
		{Date: day("2024-01-05"), Price: 101},
	}))
	stored, err = repo.PricePoints("ACME")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 101.0, stored[0].Price)
}

func TestRepositorySymbols(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.SaveValuationPoints("BETA", []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: day("2024-01-01"), Value: 50},
	}))
	require.NoError(t, repo.SaveValuationPoints("ALPHA", []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: day("2024-01-01"), Value: 80},
	}))

	symbols, err := repo.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"ALPHA", "BETA"}, symbols)
}

func TestServiceRequiresStoredHistory(t *testing.T) {
	repo := newTestRepository(t)
	service := NewService(repo, DefaultBacktestConfig(), zerolog.Nop())

	_, err := service.BiasSeries("GHOST")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoValuationHistory))

	// Valuations without prices fail on the price side
	require.NoError(t, repo.SaveValuationPoints("GHOST", []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: day("2024-01-01"), Value: 100},
	}))
	_, err = service.BiasSeries("GHOST")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPriceHistory))
}

func TestServicePipeline(t *testing.T) {
	repo := newTestRepository(t)

	cfg := DefaultBacktestConfig()
	cfg.HorizonWeeks = 4
	service := NewService(repo, cfg, zerolog.Nop())

	require.NoError(t, repo.SaveValuationPoints("ACME", []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: day("2024-01-01"), Value: 100},
	}))

	prices := make([]domain.PricePoint, 0, 30)
	date := day("2024-01-05")
	for i := 0; i < 30; i++ {
		prices = append(prices, domain.PricePoint{Date: date, Price: 90 + float64(i)})
		date = date.AddDate(0, 0, 7)
	}
	require.NoError(t, repo.SavePricePoints("ACME", prices))

	observations, err := service.BiasSeries("ACME")
	require.NoError(t, err)
	require.Len(t, observations, 30)
	// The last four weeks cannot see a full horizon ahead
	assert.NotNil(t, observations[0].ForwardReturn)
	assert.Nil(t, observations[29].ForwardReturn)

	bins, err := service.BinStatistics("ACME")
	require.NoError(t, err)
	require.Len(t, bins, 12)

	result, err := service.Backtest("ACME")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, cfg.InitialCapital, result.InitialCapital)
	assert.Len(t, result.EquityCurve, 30)
}
