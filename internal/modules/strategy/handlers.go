package strategy

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
)

// Handler handles strategy HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new strategy handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "strategy").Logger(),
	}
}

// Routes mounts the strategy routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/{symbol}/valuations", h.HandleSaveValuations)
	r.Post("/{symbol}/prices", h.HandleSavePrices)
	r.Get("/{symbol}/bias", h.HandleGetBiasSeries)
	r.Get("/{symbol}/bins", h.HandleGetBinStatistics)
	r.Post("/{symbol}/backtest", h.HandleBacktest)
}

// HandleSaveValuations handles POST /{symbol}/valuations
func (h *Handler) HandleSaveValuations(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var points []domain.ValuationPoint
	if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Repo().SaveValuationPoints(symbol, points); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to save valuation points")
		http.Error(w, "Failed to save valuation points", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"saved": len(points)})
}

// HandleSavePrices handles POST /{symbol}/prices
func (h *Handler) HandleSavePrices(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var points []domain.PricePoint
	if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Repo().SavePricePoints(symbol, points); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to save price points")
		http.Error(w, "Failed to save price points", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"saved": len(points)})
}

// HandleGetBiasSeries handles GET /{symbol}/bias
func (h *Handler) HandleGetBiasSeries(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	observations, err := h.service.BiasSeries(symbol)
	if err != nil {
		h.respondError(w, symbol, err)
		return
	}

	writeJSON(w, observations)
}

// HandleGetBinStatistics handles GET /{symbol}/bins
func (h *Handler) HandleGetBinStatistics(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	bins, err := h.service.BinStatistics(symbol)
	if err != nil {
		h.respondError(w, symbol, err)
		return
	}

	writeJSON(w, bins)
}

// HandleBacktest handles POST /{symbol}/backtest
func (h *Handler) HandleBacktest(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	result, err := h.service.Backtest(symbol)
	if err != nil {
		h.respondError(w, symbol, err)
		return
	}

	writeJSON(w, result)
}

func (h *Handler) respondError(w http.ResponseWriter, symbol string, err error) {
	if errors.Is(err, ErrNoValuationHistory) || errors.Is(err, ErrNoPriceHistory) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.log.Error().Err(err).Str("symbol", symbol).Msg("Strategy request failed")
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
