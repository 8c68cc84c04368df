package strategy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intrinsiq/valuation-engine/internal/domain"
)

func newTestRouter(t *testing.T) (*Repository, http.Handler) {
	t.Helper()

	repo := newTestRepository(t)
	cfg := DefaultBacktestConfig()
	cfg.HorizonWeeks = 4
	service := NewService(repo, cfg, zerolog.Nop())
	handler := NewHandler(service, zerolog.Nop())

	router := chi.NewRouter()
	handler.Routes(router)
	return repo, router
}

func seedSymbol(t *testing.T, repo *Repository, symbol string) {
	t.Helper()

	require.NoError(t, repo.SaveValuationPoints(symbol, []domain.ValuationPoint{
		{FiscalYear: 2023, PublishDate: day("2024-01-01"), Value: 100},
	}))

	prices := make([]domain.PricePoint, 0, 12)
	date := day("2024-01-05")
	for i := 0; i < 12; i++ {
		prices = append(prices, domain.PricePoint{Date: date, Price: 95 + float64(i)})
		date = date.AddDate(0, 0, 7)
	}
	require.NoError(t, repo.SavePricePoints(symbol, prices))
}

func TestHandleGetBiasSeries(t *testing.T) {
	repo, router := newTestRouter(t)
	seedSymbol(t, repo, "ACME")

	req := httptest.NewRequest(http.MethodGet, "/ACME/bias", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var observations []BiasObservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &observations))
	assert.Len(t, observations, 12)
	assert.InDelta(t, -0.05, observations[0].Bias, 1e-9)
}

func TestHandleGetBiasSeriesUnknownSymbol(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/GHOST/bias", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetBinStatistics(t *testing.T) {
	repo, router := newTestRouter(t)
	seedSymbol(t, repo, "ACME")

	req := httptest.NewRequest(http.MethodGet, "/ACME/bins", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var bins []BinStatistic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bins))
	assert.Len(t, bins, 12)
}

func TestHandleSaveValuations(t *testing.T) {
	repo, router := newTestRouter(t)

	body := `[{"fiscal_year": 2023, "publish_date": "2024-01-01T00:00:00Z", "value": 100}]`
	req := httptest.NewRequest(http.MethodPost, "/ACME/valuations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.ValuationPoints("ACME")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 100.0, stored[0].Value)
}

func TestHandleSaveValuationsBadBody(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/ACME/valuations", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBacktest(t *testing.T) {
	repo, router := newTestRouter(t)
	seedSymbol(t, repo, "ACME")

	req := httptest.NewRequest(http.MethodPost, "/ACME/backtest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result BacktestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, DefaultBacktestConfig().InitialCapital, result.InitialCapital)
	assert.Len(t, result.EquityCurve, 12)
}
